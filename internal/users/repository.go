package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the pgx surface the repository needs; satisfied by *pgxpool.Pool and
// by pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	if db == nil {
		panic("users: db is required")
	}
	return &Repository{db: db}
}

// Create inserts a new account and returns it with the assigned id.
func (r *Repository) Create(ctx context.Context, email, passwordHash, name, phone, birth string) (*User, error) {
	query := `
		INSERT INTO users (email, hashed_password, name, phone, birth)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, hashed_password, name, phone, birth, created_at
	`
	var u User
	err := r.db.QueryRow(ctx, query, email, passwordHash, name, phone, birth).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Birth, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("users: insert failed: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *Repository) getWhere(ctx context.Context, cond string, arg any) (*User, error) {
	query := `
		SELECT id, email, hashed_password, name, phone, birth, created_at
		FROM users
		WHERE ` + cond
	var u User
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Birth, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: select failed: %w", err)
	}
	return &u, nil
}

// UpdateProfile overwrites the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, p Profile) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, birth = $4
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, p.Name, p.Phone, p.Birth)
	if err != nil {
		return fmt.Errorf("users: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
