package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrScheduleNotFound covers both a missing row and a row owned by someone
// else; callers cannot tell the two apart.
var ErrScheduleNotFound = errors.New("schedule not found")

// Schedule is a personal calendar entry.
type Schedule struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
}

// DB is the pgx surface the repository needs; satisfied by *pgxpool.Pool and
// by pgxmock in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	if db == nil {
		panic("schedules: db is required")
	}
	return &Repository{db: db}
}

// List returns the user's schedules, optionally restricted to one date,
// ordered by date then time.
func (r *Repository) List(ctx context.Context, userID int64, date string) ([]Schedule, error) {
	query := `
		SELECT id, user_id, title, descr, sched_date, sched_time
		FROM schedules
		WHERE user_id = $1
	`
	args := []any{userID}
	if date != "" {
		query += " AND sched_date = $2"
		args = append(args, date)
	}
	query += " ORDER BY sched_date, sched_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("schedules: select failed: %w", err)
	}
	defer rows.Close()

	out := []Schedule{}
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Date, &s.Time); err != nil {
			return nil, fmt.Errorf("schedules: scan failed: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Recent returns the user's newest schedules, most recent date first.
func (r *Repository) Recent(ctx context.Context, userID int64, limit int) ([]Schedule, error) {
	query := `
		SELECT id, user_id, title, descr, sched_date, sched_time
		FROM schedules
		WHERE user_id = $1
		ORDER BY sched_date DESC, sched_time DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("schedules: select failed: %w", err)
	}
	defer rows.Close()

	out := []Schedule{}
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.Date, &s.Time); err != nil {
			return nil, fmt.Errorf("schedules: scan failed: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts a schedule and returns it with the assigned id.
func (r *Repository) Create(ctx context.Context, s Schedule) (*Schedule, error) {
	query := `
		INSERT INTO schedules (user_id, title, descr, sched_date, sched_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, s.UserID, s.Title, s.Description, s.Date, s.Time).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("schedules: insert failed: %w", err)
	}
	return &s, nil
}

// Update overwrites a schedule the user owns.
func (r *Repository) Update(ctx context.Context, s Schedule) error {
	query := `
		UPDATE schedules
		SET title = $3, descr = $4, sched_date = $5, sched_time = $6
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, s.ID, s.UserID, s.Title, s.Description, s.Date, s.Time)
	if err != nil {
		return fmt.Errorf("schedules: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// Delete removes a schedule the user owns.
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("schedules: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
