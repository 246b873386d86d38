package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chgu-campus/dorm-api/internal/models"
)

func TestRequestsClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/requests/classify", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "течет кран в душевой", body["text"])
		_, _ = w.Write(envelopeJSON(t, map[string]string{"category": string(models.CategoryPlumbing)}))
	}))
	defer srv.Close()

	reqs := NewRequests(New(srv.URL))
	category, applied, err := reqs.Classify(context.Background(), "течет кран в душевой")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, models.CategoryPlumbing, category)
}

func TestRequestsClassifyDiscardsStaleCompletion(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["text"] == "first" {
			close(firstStarted)
			<-releaseFirst
			_, _ = w.Write(envelopeJSON(t, map[string]string{"category": string(models.CategoryRepair)}))
			return
		}
		_, _ = w.Write(envelopeJSON(t, map[string]string{"category": string(models.CategoryFurniture)}))
	}))
	defer srv.Close()

	reqs := NewRequests(New(srv.URL))

	type result struct {
		category models.Category
		applied  bool
		err      error
	}
	firstDone := make(chan result, 1)
	go func() {
		c, applied, err := reqs.Classify(context.Background(), "first")
		firstDone <- result{c, applied, err}
	}()

	<-firstStarted
	category, applied, err := reqs.Classify(context.Background(), "second")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, models.CategoryFurniture, category)

	close(releaseFirst)
	first := <-firstDone
	require.NoError(t, first.err)
	assert.False(t, first.applied, "superseded classification must not be applied")
}

func TestRequestsSubmitRejectsOverlap(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(envelopeJSON(t, models.Request{ID: "r1", Status: models.StatusPending}))
	}))
	defer srv.Close()

	reqs := NewRequests(New(srv.URL))
	payload := models.CreateRequestPayload{Title: "Сломан шкаф", Description: "Дверца отвалилась"}

	firstDone := make(chan error, 1)
	go func() {
		_, err := reqs.Submit(context.Background(), payload)
		firstDone <- err
	}()

	<-started
	_, err := reqs.Submit(context.Background(), payload)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-firstDone)

	// The guard releases once the first submission completes.
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(envelopeJSON(t, models.Request{ID: "r2", Status: models.StatusPending}))
	}))
	defer srv2.Close()

	reqs2 := NewRequests(New(srv2.URL))
	created, err := reqs2.Submit(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "r2", created.ID)
}

func TestRequestsListBuildsFilterQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/requests", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = w.Write(envelopeJSON(t, []models.Request{{ID: "r1"}}))
	}))
	defer srv.Close()

	reqs := NewRequests(New(srv.URL))
	out, err := reqs.List(context.Background(), models.RequestFilter{
		Search:   "кран",
		Status:   string(models.StatusPending),
		Category: models.FilterAll,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Contains(t, gotQuery, "status=pending")
	assert.NotContains(t, gotQuery, "category=")
}

func TestRequestsUpdateStatusReturnsPersistedRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/admin/requests/r1/status", r.URL.Path)
		_, _ = w.Write(envelopeJSON(t, models.Request{ID: "r1", Status: models.StatusProcessing}))
	}))
	defer srv.Close()

	reqs := NewRequests(New(srv.URL))
	updated, err := reqs.UpdateStatus(context.Background(), "r1", models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, updated.Status)
}
