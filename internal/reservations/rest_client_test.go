package reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scancerlabs/scancer-platform/internal/auth"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("collaborator-secret", time.Hour)
}

func TestRESTClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reservations/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("expected bearer token")
		}
		_ = json.NewEncoder(w).Encode(Reservation{
			Date: "2026-07-19", Time: "16:00", Purpose: "진료", Status: "confirmed",
		})
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, testIssuer(), srv.Client())
	r, err := client.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r == nil || r.Date != "2026-07-19" || r.Time != "16:00" {
		t.Fatalf("unexpected reservation %+v", r)
	}
}

func TestRESTClientGetEmptyBodyMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, testIssuer(), srv.Client())
	r, err := client.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil reservation, got %+v", r)
	}
}

func TestRESTClientCreate(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, testIssuer(), srv.Client())
	err := client.Create(context.Background(), 7, Reservation{Date: "2026-07-19", Time: "16:00", Purpose: "진료"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotBody["date"] != "2026-07-19" || gotBody["time"] != "16:00" || gotBody["purpose"] != "진료" {
		t.Errorf("unexpected body %v", gotBody)
	}
}

func TestRESTClientCreateConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, testIssuer(), srv.Client())
	err := client.Create(context.Background(), 7, Reservation{Date: "2026-07-19", Time: "16:00"})
	if err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRESTClientCancelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, testIssuer(), srv.Client())
	if err := client.Cancel(context.Background(), 7); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRESTClientUpdateDefaultsStatus(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, testIssuer(), srv.Client())
	err := client.Update(context.Background(), 7, Reservation{Date: "2026-07-19", Time: "17:00", Purpose: "진료"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotBody["status"] != "confirmed" {
		t.Errorf("expected defaulted status confirmed, got %q", gotBody["status"])
	}
}
