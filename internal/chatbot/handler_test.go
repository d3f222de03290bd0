package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *Service) chi.Router {
	t.Helper()
	h := NewHandler(svc, nil)
	r := chi.NewRouter()
	r.Post("/chat/{userID}", h.Chat)
	r.Get("/history", h.History)
	r.Delete("/history/{sessionID}", h.ClearHistory)
	return r
}

func postChat(t *testing.T, router http.Handler, userID string, body map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/chat/"+userID, bytes.NewReader(raw))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatAssignsSessionID(t *testing.T) {
	svc, _ := newTestService(t, &fakeReservations{}, &fakeModel{reply: "안녕하세요!"})
	router := newTestRouter(t, svc)

	rec := postChat(t, router, "1", map[string]string{"message": "안녕"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "안녕하세요!", resp.Response)

	_, err := uuid.Parse(resp.SessionID)
	assert.NoError(t, err, "anonymous sessions get a fresh UUID")

	var sessionCookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c.Value
		}
		assert.NotEqual(t, "customer_id", c.Name, "no customer cookie for anonymous sessions")
	}
	assert.Equal(t, resp.SessionID, sessionCookie)
}

func TestChatCustomerIDPrecedence(t *testing.T) {
	svc, _ := newTestService(t, &fakeReservations{}, &fakeModel{reply: "답변"})
	router := newTestRouter(t, svc)

	// Body customer_id beats both cookies.
	rec := postChat(t, router, "1",
		map[string]string{"message": "안녕", "customer_id": "customer002aaa"},
		&http.Cookie{Name: "customer_id", Value: "customer003bbb"},
		&http.Cookie{Name: "session_id", Value: "stale-session"},
	)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "customer002aaa", resp.SessionID)

	// Cookie customer_id beats session_id.
	rec = postChat(t, router, "1",
		map[string]string{"message": "안녕"},
		&http.Cookie{Name: "customer_id", Value: "customer003bbb"},
		&http.Cookie{Name: "session_id", Value: "stale-session"},
	)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "customer003bbb", resp.SessionID)

	// session_id cookie is reused when no customer id is present.
	rec = postChat(t, router, "1",
		map[string]string{"message": "안녕"},
		&http.Cookie{Name: "session_id", Value: "kept-session"},
	)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "kept-session", resp.SessionID)
}

func TestChatValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeReservations{}, &fakeModel{})
	router := newTestRouter(t, svc)

	rec := postChat(t, router, "1", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postChat(t, router, "not-a-number", map[string]string{"message": "안녕"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	svc, _ := newTestService(t, &fakeReservations{}, &fakeModel{reply: "보습제를 바르세요."})
	router := newTestRouter(t, svc)

	svc.HandleTurn(context.Background(), "customer003ccc", 1, "피부가 건조해요")

	req := httptest.NewRequest(http.MethodGet, "/history?customer_id=customer003ccc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "customer003ccc", resp.SessionID)
	require.GreaterOrEqual(t, len(resp.Messages), 3)
	assert.Equal(t, "assistant", resp.Messages[len(resp.Messages)-1].Role)
}

func TestClearHistoryEndpoint(t *testing.T) {
	svc, mr := newTestService(t, &fakeReservations{}, &fakeModel{reply: "답변"})
	router := newTestRouter(t, svc)

	svc.HandleTurn(context.Background(), "customer002ddd", 1, "식단 추천해줘")
	require.True(t, mr.Exists("memory:customer002ddd"))

	req := httptest.NewRequest(http.MethodDelete, "/history/ignored-path-id", nil)
	req.AddCookie(&http.Cookie{Name: "customer_id", Value: "customer002ddd"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, mr.Exists("memory:customer002ddd"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
