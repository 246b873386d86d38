package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chgu-campus/dorm-api/internal/middleware"
	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/repository"
	"github.com/chgu-campus/dorm-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRequestRepo struct {
	stored []*models.Request
}

func (r *stubRequestRepo) Create(_ context.Context, req *models.Request) error {
	clone := *req
	r.stored = append(r.stored, &clone)
	return nil
}

func (r *stubRequestRepo) List(_ context.Context) ([]models.Request, error) {
	out := make([]models.Request, 0, len(r.stored))
	for _, req := range r.stored {
		out = append(out, *req)
	}
	return out, nil
}

func (r *stubRequestRepo) ListByStudent(_ context.Context, studentID string) ([]models.Request, error) {
	var out []models.Request
	for _, req := range r.stored {
		if req.Student.ID == studentID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*models.Request, error) {
	for _, req := range r.stored {
		if req.ID == id {
			clone := *req
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id string, status models.RequestStatus, updatedAt time.Time) error {
	for _, req := range r.stored {
		if req.ID == id {
			req.Status = status
			req.UpdatedAt = updatedAt
			return nil
		}
	}
	return repository.ErrNoRowsAffected
}

func (r *stubRequestRepo) UpdateComment(_ context.Context, id string, comment string, updatedAt time.Time) error {
	for _, req := range r.stored {
		if req.ID == id {
			req.AdminComment = &comment
			req.UpdatedAt = updatedAt
			return nil
		}
	}
	return repository.ErrNoRowsAffected
}

type stubUserRepo struct {
	users map[string]*models.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func authAs(claims *models.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, claims)
		c.Next()
	}
}

func newRequestRouter(t *testing.T) (*gin.Engine, *stubRequestRepo) {
	t.Helper()
	repo := &stubRequestRepo{}
	users := &stubUserRepo{users: map[string]*models.User{
		"stud-1": {ID: "stud-1", FullName: "Иванов Иван", Role: models.RoleStudent},
	}}
	h := NewRequestHandler(service.NewRequestService(repo, users, nil, nil, nil))

	router := gin.New()
	router.Use(authAs(&models.JWTClaims{UserID: "stud-1", Role: models.RoleStudent}))
	router.POST("/requests/classify", h.Classify)
	router.POST("/requests", h.Create)
	router.GET("/requests/my", h.ListMine)
	router.GET("/admin/requests", h.List)
	router.PUT("/admin/requests/:id/status", h.UpdateStatus)
	router.PUT("/admin/requests/:id/comment", h.SaveComment)
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestHandlerClassify(t *testing.T) {
	router, _ := newRequestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/requests/classify", map[string]string{"text": "течет кран в ванной"})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Category string `json:"category"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(models.CategoryPlumbing), envelope.Data.Category)
}

func TestRequestHandlerClassifyEmptyText(t *testing.T) {
	router, _ := newRequestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/requests/classify", map[string]string{"text": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "EMPTY_CLASSIFY_TEXT", envelope.Error.Code)
}

func TestRequestHandlerCreate(t *testing.T) {
	router, repo := newRequestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/requests", models.CreateRequestPayload{
		Title:       "Течет кран",
		Description: "В ванной течет кран",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.stored, 1)

	var envelope struct {
		Data models.Request `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.StatusPending, envelope.Data.Status)
	assert.NotEmpty(t, envelope.Data.ID)
}

func TestRequestHandlerCreateValidation(t *testing.T) {
	router, repo := newRequestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/requests", map[string]string{"title": "Без описания"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.stored)
}

func TestRequestHandlerListWithOptionsMeta(t *testing.T) {
	router, repo := newRequestRouter(t)
	repo.stored = []*models.Request{
		{ID: "r1", Title: "Течет кран", Category: models.CategoryPlumbing, Status: models.StatusPending},
		{ID: "r2", Title: "Нет света", Category: models.CategoryElectrical, Status: models.StatusResolved},
	}

	rec := doJSON(t, router, http.MethodGet, "/admin/requests?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []models.Request       `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "r1", envelope.Data[0].ID)

	options, ok := envelope.Meta["categoryOptions"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, models.FilterAll, options[0])
	assert.Len(t, options, 3)
}

func TestRequestHandlerUpdateStatus(t *testing.T) {
	router, repo := newRequestRouter(t)
	repo.stored = []*models.Request{{ID: "r1", Status: models.StatusPending}}

	rec := doJSON(t, router, http.MethodPut, "/admin/requests/r1/status", models.UpdateStatusPayload{Status: models.StatusProcessing})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.Request `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.StatusProcessing, envelope.Data.Status)
}

func TestRequestHandlerUpdateStatusInvalid(t *testing.T) {
	router, repo := newRequestRouter(t)
	repo.stored = []*models.Request{{ID: "r1", Status: models.StatusPending}}

	rec := doJSON(t, router, http.MethodPut, "/admin/requests/r1/status", map[string]string{"status": "pending"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.StatusPending, repo.stored[0].Status)
}

func TestRequestHandlerUpdateStatusNotFound(t *testing.T) {
	router, _ := newRequestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/admin/requests/missing/status", models.UpdateStatusPayload{Status: models.StatusResolved})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestHandlerSaveComment(t *testing.T) {
	router, repo := newRequestRouter(t)
	repo.stored = []*models.Request{{ID: "r1", Status: models.StatusPending}}

	rec := doJSON(t, router, http.MethodPut, "/admin/requests/r1/comment", models.SaveCommentPayload{Comment: "Передано коменданту"})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.Request `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.AdminComment)
	assert.Equal(t, "Передано коменданту", *envelope.Data.AdminComment)
}

func TestRequestHandlerListMine(t *testing.T) {
	router, repo := newRequestRouter(t)
	repo.stored = []*models.Request{
		{ID: "r1", Student: models.StudentRef{ID: "stud-1"}},
		{ID: "r2", Student: models.StudentRef{ID: "stud-2"}},
	}

	rec := doJSON(t, router, http.MethodGet, "/requests/my", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []models.Request `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "r1", envelope.Data[0].ID)
}
