package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chgu-campus/dorm-api/internal/models"
)

func TestRoomRepositoryListAssemblesStudents(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	mock.ExpectQuery("SELECT r.id, r.number, r.building").
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "building", "floor", "capacity", "occupied", "status"}).
			AddRow("room-1", "101", "Корпус 1", 1, 3, 2, "full").
			AddRow("room-2", "310", "Корпус 2", 3, 2, 0, "maintenance"))

	faculty := "Физический факультет"
	mock.ExpectQuery("SELECT u.room_id, u.id, u.full_name").
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "id", "full_name", "faculty"}).
			AddRow("room-1", "stud-1", "Иванов Иван", faculty).
			AddRow("room-1", "stud-2", "Смирнов Олег", nil))

	rooms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	first := rooms[0]
	assert.Equal(t, "101", first.Number)
	assert.Equal(t, 2, first.Occupied)
	require.Len(t, first.Students, 2)
	assert.Equal(t, "Иванов Иван", first.Students[0].FullName)
	require.NotNil(t, first.Students[0].Faculty)
	assert.Nil(t, first.Students[1].Faculty)

	// A room without assignments still carries an empty slice, not nil.
	assert.NotNil(t, rooms[1].Students)
	assert.Empty(t, rooms[1].Students)
	assert.Equal(t, models.RoomMaintenance, rooms[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	mock.ExpectExec("UPDATE rooms SET status").
		WithArgs("room-1", models.RoomFull).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "room-1", models.RoomFull))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryUpdateStatusMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	mock.ExpectExec("UPDATE rooms SET status").
		WithArgs("missing", models.RoomAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.RoomAvailable)
	assert.ErrorIs(t, err, ErrNoRowsAffected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryCounts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(80))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms r`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))

	total, occupied, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80, total)
	assert.Equal(t, 60, occupied)
	require.NoError(t, mock.ExpectationsWereMet())
}
