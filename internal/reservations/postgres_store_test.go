package reservations

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock), mock
}

func TestPostgresStoreGet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT res_date, res_time, purpose, status").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"res_date", "res_time", "purpose", "status"}).
			AddRow("2026-07-19", "16:00", "진료", "confirmed"))

	r, err := store.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r == nil || r.Time != "16:00" {
		t.Fatalf("unexpected reservation %+v", r)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresStoreGetNone(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT res_date, res_time, purpose, status").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"res_date", "res_time", "purpose", "status"}))

	r, err := store.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil, got %+v", r)
	}
}

func TestPostgresStoreCreateConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(int64(7), "2026-07-19", "16:00", "진료", "confirmed").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := store.Create(context.Background(), 7, Reservation{Date: "2026-07-19", Time: "16:00", Purpose: "진료"})
	if err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPostgresStoreUpdateNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE reservations").
		WithArgs(int64(7), "2026-07-19", "17:00", "진료", "confirmed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.Update(context.Background(), 7, Reservation{Date: "2026-07-19", Time: "17:00", Purpose: "진료"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStoreCancel(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM reservations").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := store.Cancel(context.Background(), 7); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}
