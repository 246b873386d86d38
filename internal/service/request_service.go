package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chgu-campus/dorm-api/internal/classifier"
	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/repository"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
)

type requestRepo interface {
	Create(ctx context.Context, req *models.Request) error
	List(ctx context.Context) ([]models.Request, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Request, error)
	FindByID(ctx context.Context, id string) (*models.Request, error)
	UpdateStatus(ctx context.Context, id string, status models.RequestStatus, updatedAt time.Time) error
	UpdateComment(ctx context.Context, id string, comment string, updatedAt time.Time) error
}

type requestUserRepo interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RequestListResult bundles the filtered requests with the filter
// options derived from the loaded set.
type RequestListResult struct {
	Requests        []models.Request `json:"requests"`
	CategoryOptions []string         `json:"categoryOptions"`
}

// RequestService owns the request lifecycle: student submission,
// administrator triage and the admin list view.
type RequestService struct {
	repo      requestRepo
	users     requestUserRepo
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRequestService constructs a RequestService.
func NewRequestService(repo requestRepo, users requestUserRepo, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, users: users, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Classify resolves a free-text description to a category.
func (s *RequestService) Classify(text string) (models.Category, error) {
	return classifier.Classify(text)
}

// Submit creates a request on behalf of a student. Status is always
// pending regardless of what the payload carries, the server assigns
// the ID and both timestamps are set to the same instant.
func (s *RequestService) Submit(ctx context.Context, studentID string, payload models.CreateRequestPayload) (*models.Request, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and description are required")
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "submitting user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	category := payload.Category
	if category == "" {
		// Submission without an explicit category falls back to the
		// classifier over the description.
		category, err = classifier.Classify(payload.Description)
		if err != nil {
			category = models.CategoryOther
		}
	}

	room := strings.TrimSpace(payload.Room)
	if room == "" && student.RoomID != nil {
		room = *student.RoomID
	}

	now := s.now().UTC()
	req := &models.Request{
		ID:          uuid.NewString(),
		Title:       payload.Title,
		Description: payload.Description,
		Category:    category,
		Status:      models.StatusPending,
		IsUrgent:    payload.IsUrgent,
		CreatedAt:   now,
		UpdatedAt:   now,
		Student: models.StudentRef{
			ID:       student.ID,
			FullName: student.FullName,
			Room:     room,
		},
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("request submitted",
		zap.String("request_id", req.ID),
		zap.String("category", string(req.Category)),
		zap.Bool("urgent", req.IsUrgent))
	return req, nil
}

// List loads all requests and applies the three ANDed admin filters in
// memory. Category options are derived from the loaded set, not from
// the full enumeration.
func (s *RequestService) List(ctx context.Context, filter models.RequestFilter) (*RequestListResult, error) {
	requests, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return &RequestListResult{
		Requests:        models.FilterRequests(requests, filter),
		CategoryOptions: models.CategoryOptions(requests),
	}, nil
}

// ListByStudent returns one student's own requests.
func (s *RequestService) ListByStudent(ctx context.Context, studentID string) ([]models.Request, error) {
	requests, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student requests")
	}
	return requests, nil
}

// UpdateStatus transitions a request and returns the persisted record.
// Callers must apply the returned state only, never an optimistic
// local copy. Resolved and rejected requests may be re-opened.
func (s *RequestService) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) (*models.Request, error) {
	if !status.Transitionable() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "status must be processing, resolved or rejected")
	}

	updatedAt := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, status, updatedAt); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request status")
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload request")
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("request status updated", zap.String("request_id", id), zap.String("status", string(status)))
	return req, nil
}

// SaveComment sets or replaces the admin comment independent of any
// status transition. Saving identical text still bumps updatedAt.
func (s *RequestService) SaveComment(ctx context.Context, id string, comment string) (*models.Request, error) {
	updatedAt := s.now().UTC()
	if err := s.repo.UpdateComment(ctx, id, comment, updatedAt); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save comment")
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload request")
	}
	return req, nil
}

func (s *RequestService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
