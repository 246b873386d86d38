package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/chgu-campus/dorm-api/internal/models"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
)

type dashboardUserRepo interface {
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

type dashboardRequestRepo interface {
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.RequestStatus) (int, error)
	Distribution(ctx context.Context) ([]models.CategoryCount, error)
}

type dashboardRoomRepo interface {
	Counts(ctx context.Context) (total int, occupied int, err error)
}

const dashboardCacheKey = "dash:admin"

// DashboardService composes the admin dashboard payload.
type DashboardService struct {
	users    dashboardUserRepo
	requests dashboardRequestRepo
	rooms    dashboardRoomRepo
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(users dashboardUserRepo, requests dashboardRequestRepo, rooms dashboardRoomRepo, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{users: users, requests: requests, rooms: rooms, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// Summary returns the dashboard payload and indicates cache utilisation.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardResponse, bool, error) {
	if s.cache != nil {
		var cached models.DashboardResponse
		if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	summary, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache store failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*models.DashboardResponse, error) {
	totalStudents, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	totalRooms, occupiedRooms, err := s.rooms.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count rooms")
	}

	totalRequests, err := s.requests.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count requests")
	}

	pendingRequests, err := s.requests.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending requests")
	}

	distribution, err := s.requests.Distribution(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request distribution")
	}
	if distribution == nil {
		distribution = []models.CategoryCount{}
	}

	var occupancyRate float64
	if totalRooms > 0 {
		occupancyRate = math.Round(float64(occupiedRooms)/float64(totalRooms)*1000) / 10
	}

	return &models.DashboardResponse{
		Stats: models.DashboardStats{
			TotalStudents:   totalStudents,
			OccupiedRooms:   occupiedRooms,
			TotalRooms:      totalRooms,
			PendingRequests: pendingRequests,
			TotalRequests:   totalRequests,
			OccupancyRate:   occupancyRate,
		},
		RequestDistribution: distribution,
	}, nil
}
