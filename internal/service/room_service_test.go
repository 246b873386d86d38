package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chgu-campus/dorm-api/internal/models"
	"github.com/chgu-campus/dorm-api/internal/repository"
	appErrors "github.com/chgu-campus/dorm-api/pkg/errors"
)

type fakeRoomRepo struct {
	rooms    []models.Room
	statuses map[string]models.RoomStatus
}

func (r *fakeRoomRepo) List(_ context.Context) ([]models.Room, error) {
	return r.rooms, nil
}

func (r *fakeRoomRepo) UpdateStatus(_ context.Context, id string, status models.RoomStatus) error {
	for _, room := range r.rooms {
		if room.ID == id {
			if r.statuses == nil {
				r.statuses = make(map[string]models.RoomStatus)
			}
			r.statuses[id] = status
			return nil
		}
	}
	return repository.ErrNoRowsAffected
}

func TestRoomServiceListFiltersAndOptions(t *testing.T) {
	repo := &fakeRoomRepo{rooms: []models.Room{
		{ID: "room-1", Number: "101", Building: "Корпус 1", Status: models.RoomFull},
		{ID: "room-2", Number: "203", Building: "Корпус 2", Status: models.RoomAvailable},
	}}
	svc := NewRoomService(repo, nil, nil)

	res, err := svc.List(context.Background(), models.RoomFilter{Building: "Корпус 2"})
	require.NoError(t, err)
	require.Len(t, res.Rooms, 1)
	assert.Equal(t, "room-2", res.Rooms[0].ID)

	// Options reflect every loaded room, not the filtered subset.
	assert.Equal(t, []string{models.FilterAll, "Корпус 1", "Корпус 2"}, res.BuildingOptions)
}

func TestRoomServiceUpdateStatus(t *testing.T) {
	repo := &fakeRoomRepo{rooms: []models.Room{{ID: "room-1", Status: models.RoomAvailable}}}
	svc := NewRoomService(repo, nil, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "room-1", models.RoomMaintenance))
	assert.Equal(t, models.RoomMaintenance, repo.statuses["room-1"])
}

func TestRoomServiceUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := NewRoomService(&fakeRoomRepo{}, nil, nil)

	err := svc.UpdateStatus(context.Background(), "room-1", models.RoomStatus("condemned"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestRoomServiceUpdateStatusNotFound(t *testing.T) {
	svc := NewRoomService(&fakeRoomRepo{}, nil, nil)

	err := svc.UpdateStatus(context.Background(), "missing", models.RoomFull)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
