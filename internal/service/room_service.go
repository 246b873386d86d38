package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/repository"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
)

type roomRepo interface {
	List(ctx context.Context) ([]models.Room, error)
	UpdateStatus(ctx context.Context, id string, status models.RoomStatus) error
}

// RoomListResult bundles the filtered rooms with building options
// derived from the loaded set.
type RoomListResult struct {
	Rooms           []models.Room `json:"rooms"`
	BuildingOptions []string      `json:"buildingOptions"`
}

// RoomService serves the read-mostly occupancy view.
type RoomService struct {
	repo   roomRepo
	cache  *CacheService
	logger *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepo, cache *CacheService, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, cache: cache, logger: logger}
}

// List loads all rooms and applies the three ANDed filters in memory.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) (*RoomListResult, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return &RoomListResult{
		Rooms:           models.FilterRooms(rooms, filter),
		BuildingOptions: models.BuildingOptions(rooms),
	}, nil
}

// UpdateStatus sets a room's status directly. The status is an
// administrator decision; it is not derived from occupancy.
func (s *RoomService) UpdateStatus(ctx context.Context, id string, status models.RoomStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrInvalidStatus, "status must be available, full or maintenance")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room status")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}
	s.logger.Info("room status updated", zap.String("room_id", id), zap.String("status", string(status)))
	return nil
}
