package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chgu-campus/dorm-api/internal/models"
)

type roomRow struct {
	ID       string            `db:"id"`
	Number   string            `db:"number"`
	Building string            `db:"building"`
	Floor    int               `db:"floor"`
	Capacity int               `db:"capacity"`
	Occupied int               `db:"occupied"`
	Status   models.RoomStatus `db:"status"`
}

type roomStudentRow struct {
	RoomID   string  `db:"room_id"`
	ID       string  `db:"id"`
	FullName string  `db:"full_name"`
	Faculty  *string `db:"faculty"`
}

// RoomRepository manages persistence for rooms and their assignments.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room with its assigned students. The occupied
// count is derived from the assignment join at read time.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	var rows []roomRow
	query := `SELECT r.id, r.number, r.building, r.floor, r.capacity,
        (SELECT COUNT(*) FROM users u WHERE u.room_id = r.id AND u.role = 'student') AS occupied,
        r.status
        FROM rooms r ORDER BY r.building, r.number`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	var studentRows []roomStudentRow
	studentQuery := `SELECT u.room_id, u.id, u.full_name, u.faculty
        FROM users u WHERE u.room_id IS NOT NULL AND u.role = 'student' ORDER BY u.full_name`
	if err := r.db.SelectContext(ctx, &studentRows, studentQuery); err != nil {
		return nil, fmt.Errorf("list room students: %w", err)
	}

	byRoom := make(map[string][]models.RoomStudent, len(rows))
	for _, s := range studentRows {
		byRoom[s.RoomID] = append(byRoom[s.RoomID], models.RoomStudent{ID: s.ID, FullName: s.FullName, Faculty: s.Faculty})
	}

	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		students := byRoom[row.ID]
		if students == nil {
			students = []models.RoomStudent{}
		}
		rooms = append(rooms, models.Room{
			ID:       row.ID,
			Number:   row.Number,
			Building: row.Building,
			Floor:    row.Floor,
			Capacity: row.Capacity,
			Occupied: row.Occupied,
			Status:   row.Status,
			Students: students,
		})
	}
	return rooms, nil
}

// UpdateStatus sets a room's status.
func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status models.RoomStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE rooms SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("update room status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// Counts returns total rooms and rooms with at least one occupant.
func (r *RoomRepository) Counts(ctx context.Context) (total int, occupied int, err error) {
	if err = r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM rooms"); err != nil {
		return 0, 0, fmt.Errorf("count rooms: %w", err)
	}
	query := `SELECT COUNT(*) FROM rooms r
        WHERE EXISTS (SELECT 1 FROM users u WHERE u.room_id = r.id AND u.role = 'student')`
	if err = r.db.GetContext(ctx, &occupied, query); err != nil {
		return 0, 0, fmt.Errorf("count occupied rooms: %w", err)
	}
	return total, occupied, nil
}
