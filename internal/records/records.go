package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrRecordNotFound covers both a missing record and one owned by another
// user.
var ErrRecordNotFound = errors.New("diagnosis record not found")

// Record is a stored skin-lesion diagnosis.
type Record struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ImagePath       string    `json:"image_path"`
	Diagnosis       string    `json:"diagnosis"`
	RiskLevel       string    `json:"risk_level"`
	Description     string    `json:"description"`
	Recommendations string    `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
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
		panic("records: db is required")
	}
	return &Repository{db: db}
}

// Create stores a diagnosis and returns it with the assigned id.
func (r *Repository) Create(ctx context.Context, rec Record) (*Record, error) {
	query := `
		INSERT INTO diagnosis_records (user_id, image_path, diagnosis, risk_level, description, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		rec.UserID, rec.ImagePath, rec.Diagnosis, rec.RiskLevel, rec.Description, rec.Recommendations,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("records: insert failed: %w", err)
	}
	return &rec, nil
}

// ListByUser returns the user's diagnosis history, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Record, error) {
	query := `
		SELECT id, user_id, image_path, diagnosis, risk_level, description, recommendations, created_at
		FROM diagnosis_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("records: select failed: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.ImagePath, &rec.Diagnosis,
			&rec.RiskLevel, &rec.Description, &rec.Recommendations, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("records: scan failed: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record the user owns.
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM diagnosis_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("records: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
