package models

import (
	"strings"
	"time"
)

// Category is one of seven fixed labels describing a request's subject
// area. Labels are stored and compared verbatim, never translated.
type Category string

const (
	CategoryRepair     Category = "Ремонт"
	CategoryPlumbing   Category = "Сантехника"
	CategoryElectrical Category = "Электрика"
	CategoryFurniture  Category = "Мебель"
	CategoryRelocation Category = "Переселение"
	CategoryHousehold  Category = "Бытовые проблемы"
	CategoryOther      Category = "Другое"
)

// Categories lists every known category in presentation order.
var Categories = []Category{
	CategoryRepair,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryFurniture,
	CategoryRelocation,
	CategoryHousehold,
	CategoryOther,
}

// RequestStatus tracks a request through its lifecycle.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusProcessing RequestStatus = "processing"
	StatusResolved   RequestStatus = "resolved"
	StatusRejected   RequestStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Transitionable reports whether an administrator may move a request
// into this status. Pending is set once at creation and never again.
func (s RequestStatus) Transitionable() bool {
	switch s {
	case StatusProcessing, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// StudentRef is the request-embedded view of the submitting student.
type StudentRef struct {
	ID       string `db:"student_id" json:"id"`
	FullName string `db:"student_name" json:"fullName"`
	Room     string `db:"student_room" json:"room"`
}

// Request is a student-submitted maintenance or administrative ticket.
type Request struct {
	ID           string        `db:"id" json:"id"`
	Title        string        `db:"title" json:"title"`
	Description  string        `db:"description" json:"description"`
	Category     Category      `db:"category" json:"category"`
	Status       RequestStatus `db:"status" json:"status"`
	IsUrgent     bool          `db:"is_urgent" json:"isUrgent"`
	AdminComment *string       `db:"admin_comment" json:"adminComment,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
	Student      StudentRef    `json:"student"`
}

// FilterAll is the wildcard value accepted by every filter dimension.
const FilterAll = "all"

// RequestFilter captures the three independent predicates of the admin
// list view. Zero values mean "no restriction".
type RequestFilter struct {
	Search   string
	Status   string
	Category string
}

// Matches reports whether the request satisfies all active predicates.
func (f RequestFilter) Matches(r Request) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		hit := strings.Contains(strings.ToLower(r.Title), term) ||
			strings.Contains(strings.ToLower(r.Description), term) ||
			strings.Contains(strings.ToLower(r.Student.FullName), term)
		if !hit {
			return false
		}
	}
	if f.Status != "" && f.Status != FilterAll && string(r.Status) != f.Status {
		return false
	}
	if f.Category != "" && f.Category != FilterAll && string(r.Category) != f.Category {
		return false
	}
	return true
}

// FilterRequests returns the subset of requests matching the filter,
// preserving input order.
func FilterRequests(requests []Request, f RequestFilter) []Request {
	out := make([]Request, 0, len(requests))
	for _, r := range requests {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// CategoryOptions derives the selectable category filter values from the
// loaded requests: the wildcard followed by each distinct category in
// first-seen order. It deliberately does not enumerate all categories.
func CategoryOptions(requests []Request) []string {
	options := []string{FilterAll}
	seen := make(map[Category]struct{}, len(requests))
	for _, r := range requests {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		options = append(options, string(r.Category))
	}
	return options
}

// CreateRequestPayload is the student submission contract.
type CreateRequestPayload struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Room        string   `json:"room,omitempty"`
	IsUrgent    bool     `json:"isUrgent"`
	Category    Category `json:"category,omitempty"`
}

// UpdateStatusPayload carries an administrator status transition.
type UpdateStatusPayload struct {
	Status RequestStatus `json:"status" validate:"required"`
}

// SaveCommentPayload carries an administrator comment update.
type SaveCommentPayload struct {
	Comment string `json:"comment"`
}
