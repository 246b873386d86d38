package client

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/chgu-campus/dorm-api/internal/models"
)

// ErrSubmitInFlight is returned when a submission starts while the
// previous one has not completed. The first submission wins; callers
// surface this instead of creating a duplicate request.
var ErrSubmitInFlight = errors.New("request submission already in flight")

// Requests wraps the request endpoints with the two client-side
// concerns the raw HTTP client does not cover: discarding stale
// classification results and rejecting overlapping submissions.
type Requests struct {
	api      *Client
	classify Latest

	mu         sync.Mutex
	submitting bool
}

// NewRequests builds the request workflow facade over an HTTP client.
func NewRequests(api *Client) *Requests {
	return &Requests{api: api}
}

// Classify suggests a category for draft text. The bool result reports
// whether the suggestion is still current: when a newer Classify call
// started while this one was in flight, the result is stale and must
// not be applied to the draft.
func (r *Requests) Classify(ctx context.Context, text string) (models.Category, bool, error) {
	gen := r.classify.Begin()

	var res struct {
		Category models.Category `json:"category"`
	}
	err := r.api.Post(ctx, "/requests/classify", map[string]string{"text": text}, &res)
	if !r.classify.Current(gen) {
		return "", false, nil
	}
	if err != nil {
		return "", true, err
	}
	return res.Category, true, nil
}

// Submit files a new request. Only one submission may be in flight at
// a time.
func (r *Requests) Submit(ctx context.Context, payload models.CreateRequestPayload) (*models.Request, error) {
	r.mu.Lock()
	if r.submitting {
		r.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	r.submitting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.submitting = false
		r.mu.Unlock()
	}()

	var created models.Request
	if err := r.api.Post(ctx, "/requests", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Mine lists the caller's own requests.
func (r *Requests) Mine(ctx context.Context) ([]models.Request, error) {
	var out []models.Request
	if err := r.api.Get(ctx, "/requests/my", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List fetches requests for administration with server-side filtering.
func (r *Requests) List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Status != "" && filter.Status != models.FilterAll {
		q.Set("status", filter.Status)
	}
	if filter.Category != "" && filter.Category != models.FilterAll {
		q.Set("category", filter.Category)
	}
	path := "/admin/requests"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var out []models.Request
	if err := r.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a request through its lifecycle and returns the
// persisted record so the caller can replace any optimistic copy.
func (r *Requests) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) (*models.Request, error) {
	var updated models.Request
	err := r.api.Put(ctx, "/admin/requests/"+id+"/status", models.UpdateStatusPayload{Status: status}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SaveComment stores the administrator comment on a request.
func (r *Requests) SaveComment(ctx context.Context, id, comment string) (*models.Request, error) {
	var updated models.Request
	err := r.api.Put(ctx, "/admin/requests/"+id+"/comment", models.SaveCommentPayload{Comment: comment}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
