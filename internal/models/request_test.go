package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRequests() []Request {
	return []Request{
		{
			ID:       "r1",
			Title:    "Течет кран",
			Category: CategoryPlumbing,
			Status:   StatusPending,
			Student:  StudentRef{FullName: "Иванов Иван", Room: "101"},
		},
		{
			ID:          "r2",
			Title:       "Сломана розетка",
			Description: "Искрит при включении",
			Category:    CategoryElectrical,
			Status:      StatusProcessing,
			Student:     StudentRef{FullName: "Петрова Анна", Room: "203"},
		},
		{
			ID:       "r3",
			Title:    "Просьба о переселении",
			Category: CategoryRelocation,
			Status:   StatusResolved,
			Student:  StudentRef{FullName: "Сидоров Павел", Room: "310"},
		},
		{
			ID:       "r4",
			Title:    "Кран на кухне",
			Category: CategoryPlumbing,
			Status:   StatusRejected,
			Student:  StudentRef{FullName: "Иванова Мария", Room: "101"},
		},
	}
}

func TestFilterRequestsPredicatesCompose(t *testing.T) {
	all := sampleRequests()

	tests := []struct {
		name   string
		filter RequestFilter
		want   []string
	}{
		{"no filter returns all", RequestFilter{}, []string{"r1", "r2", "r3", "r4"}},
		{"all wildcards return all", RequestFilter{Status: FilterAll, Category: FilterAll}, []string{"r1", "r2", "r3", "r4"}},
		{"search matches title case-insensitively", RequestFilter{Search: "КРАН"}, []string{"r1", "r4"}},
		{"search matches description", RequestFilter{Search: "искрит"}, []string{"r2"}},
		{"search matches student name", RequestFilter{Search: "иванов"}, []string{"r1", "r4"}},
		{"status narrows", RequestFilter{Status: string(StatusPending)}, []string{"r1"}},
		{"category narrows", RequestFilter{Category: string(CategoryPlumbing)}, []string{"r1", "r4"}},
		{"predicates AND together", RequestFilter{Search: "кран", Status: string(StatusRejected), Category: string(CategoryPlumbing)}, []string{"r4"}},
		{"conflicting predicates yield empty", RequestFilter{Search: "кран", Status: string(StatusProcessing)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRequests(all, tt.filter)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterRequestsDoesNotMutateInput(t *testing.T) {
	all := sampleRequests()
	_ = FilterRequests(all, RequestFilter{Status: string(StatusPending)})
	assert.Len(t, all, 4)
	assert.Equal(t, "r1", all[0].ID)
}

func TestCategoryOptionsDerivedFromLoadedSet(t *testing.T) {
	opts := CategoryOptions(sampleRequests())

	assert.Equal(t, []string{
		FilterAll,
		string(CategoryPlumbing),
		string(CategoryElectrical),
		string(CategoryRelocation),
	}, opts)
}

func TestCategoryOptionsEmptySet(t *testing.T) {
	assert.Equal(t, []string{FilterAll}, CategoryOptions(nil))
}

func TestRequestStatusTransitionable(t *testing.T) {
	assert.True(t, StatusProcessing.Transitionable())
	assert.True(t, StatusResolved.Transitionable())
	assert.True(t, StatusRejected.Transitionable())
	assert.False(t, StatusPending.Transitionable(), "pending is set only at creation")
	assert.False(t, RequestStatus("archived").Transitionable())
}
