package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the pgx surface the store needs; satisfied by *pgxpool.Pool and by
// pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps reservations in an embedded table, one active
// reservation per user.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("reservations: db is required")
	}
	return &PostgresStore{db: db}
}

// Get fetches the user's reservation, or nil when none exists.
func (s *PostgresStore) Get(ctx context.Context, userID int64) (*Reservation, error) {
	query := `
		SELECT res_date, res_time, purpose, status
		FROM reservations
		WHERE user_id = $1
	`
	var r Reservation
	err := s.db.QueryRow(ctx, query, userID).Scan(&r.Date, &r.Time, &r.Purpose, &r.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reservations: select failed: %w", err)
	}
	return &r, nil
}

// Create books a reservation; fails when the user already holds one.
func (s *PostgresStore) Create(ctx context.Context, userID int64, r Reservation) error {
	status := r.Status
	if status == "" {
		status = "confirmed"
	}
	query := `
		INSERT INTO reservations (user_id, res_date, res_time, purpose, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`
	tag, err := s.db.Exec(ctx, query, userID, r.Date, r.Time, r.Purpose, status)
	if err != nil {
		return fmt.Errorf("reservations: insert failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// Update replaces the user's reservation.
func (s *PostgresStore) Update(ctx context.Context, userID int64, r Reservation) error {
	status := r.Status
	if status == "" {
		status = "confirmed"
	}
	query := `
		UPDATE reservations
		SET res_date = $2, res_time = $3, purpose = $4, status = $5, updated_at = now()
		WHERE user_id = $1
	`
	tag, err := s.db.Exec(ctx, query, userID, r.Date, r.Time, r.Purpose, status)
	if err != nil {
		return fmt.Errorf("reservations: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Cancel deletes the user's reservation.
func (s *PostgresStore) Cancel(ctx context.Context, userID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM reservations WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("reservations: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
