package users

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Birth        string    `json:"birth,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the mutable subset of a user's account.
type Profile struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Birth string `json:"birth,omitempty"`
}
