// Package reservations provides the appointment capability the chatbot
// dispatches to. Two backends satisfy the same interface: the external
// reservation REST API and an embedded Postgres table.
package reservations

import (
	"context"
	"errors"
)

// Reservation is a user's single active appointment.
type Reservation struct {
	Date    string `json:"date"`    // YYYY-MM-DD
	Time    string `json:"time"`    // HH:00
	Purpose string `json:"purpose"`
	Status  string `json:"status"`
}

var (
	// ErrAlreadyExists is returned when a user already holds a reservation.
	ErrAlreadyExists = errors.New("reservation already exists")

	// ErrNotFound is returned when no reservation exists to update or cancel.
	ErrNotFound = errors.New("reservation not found")
)

// Service is the capability interface the chat router calls. Get returns
// (nil, nil) when the user has no reservation.
type Service interface {
	Get(ctx context.Context, userID int64) (*Reservation, error)
	Create(ctx context.Context, userID int64, r Reservation) error
	Update(ctx context.Context, userID int64, r Reservation) error
	Cancel(ctx context.Context, userID int64) error
}
