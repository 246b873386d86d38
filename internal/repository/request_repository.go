package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chgu-campus/dorm-api/internal/models"
)

// requestRow flattens a request joined with its submitting student.
type requestRow struct {
	ID           string               `db:"id"`
	Title        string               `db:"title"`
	Description  string               `db:"description"`
	Category     models.Category      `db:"category"`
	Status       models.RequestStatus `db:"status"`
	IsUrgent     bool                 `db:"is_urgent"`
	AdminComment *string              `db:"admin_comment"`
	CreatedAt    time.Time            `db:"created_at"`
	UpdatedAt    time.Time            `db:"updated_at"`
	StudentID    string               `db:"student_id"`
	StudentName  string               `db:"student_name"`
	StudentRoom  string               `db:"student_room"`
}

func (row requestRow) toModel() models.Request {
	return models.Request{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Category:     row.Category,
		Status:       row.Status,
		IsUrgent:     row.IsUrgent,
		AdminComment: row.AdminComment,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Student: models.StudentRef{
			ID:       row.StudentID,
			FullName: row.StudentName,
			Room:     row.StudentRoom,
		},
	}
}

const requestSelect = `SELECT r.id, r.title, r.description, r.category, r.status, r.is_urgent, r.admin_comment, r.created_at, r.updated_at,
        u.id AS student_id, u.full_name AS student_name, COALESCE(r.room, COALESCE(u.room_id, '')) AS student_room
        FROM requests r JOIN users u ON u.id = r.student_id`

// RequestRepository manages persistence for maintenance requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new request record.
func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	query := `INSERT INTO requests (id, student_id, title, description, category, status, is_urgent, room, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		req.ID, req.Student.ID, req.Title, req.Description, req.Category,
		req.Status, req.IsUrgent, req.Student.Room, req.CreatedAt, req.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// List returns every request with student context, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]models.Request, error) {
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, requestSelect+" ORDER BY r.created_at DESC"); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	requests := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toModel())
	}
	return requests, nil
}

// ListByStudent returns one student's requests, newest first.
func (r *RequestRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Request, error) {
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, requestSelect+" WHERE r.student_id = $1 ORDER BY r.created_at DESC", studentID); err != nil {
		return nil, fmt.Errorf("list requests by student: %w", err)
	}
	requests := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toModel())
	}
	return requests, nil
}

// FindByID fetches a single request with student context.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.Request, error) {
	var row requestRow
	if err := r.db.GetContext(ctx, &row, requestSelect+" WHERE r.id = $1", id); err != nil {
		return nil, err
	}
	req := row.toModel()
	return &req, nil
}

// UpdateStatus moves a request into the given status and bumps updated_at.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status models.RequestStatus, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, "UPDATE requests SET status = $2, updated_at = $3 WHERE id = $1", id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// UpdateComment sets or replaces the admin comment and bumps updated_at.
func (r *RequestRepository) UpdateComment(ctx context.Context, id string, comment string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, "UPDATE requests SET admin_comment = $2, updated_at = $3 WHERE id = $1", id, comment, updatedAt)
	if err != nil {
		return fmt.Errorf("update request comment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// CountByStatus counts requests in the given status.
func (r *RequestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM requests WHERE status = $1", status); err != nil {
		return 0, fmt.Errorf("count requests by status: %w", err)
	}
	return total, nil
}

// Count counts all requests.
func (r *RequestRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM requests"); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return total, nil
}

// Distribution returns request counts grouped by category, largest first.
func (r *RequestRepository) Distribution(ctx context.Context) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	query := "SELECT category, COUNT(*) AS count FROM requests GROUP BY category ORDER BY count DESC"
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("request distribution: %w", err)
	}
	return counts, nil
}
