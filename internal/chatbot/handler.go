package chatbot

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

// Handler serves the chat surface. Session identity travels in cookies so
// stateless web clients keep their conversation across requests.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type chatRequest struct {
	Message    string `json:"message"`
	CustomerID string `json:"customer_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// resolveSessionID picks the conversation key: an explicit customer id (body
// first, then cookie) outranks the session_id cookie; a brand-new visitor
// gets a fresh UUID.
func resolveSessionID(r *http.Request, bodyCustomerID string) string {
	if id := strings.TrimSpace(bodyCustomerID); id != "" {
		return id
	}
	if c, err := r.Cookie("customer_id"); err == nil && c.Value != "" {
		return c.Value
	}
	if c, err := r.Cookie("session_id"); err == nil && c.Value != "" {
		return c.Value
	}
	return uuid.NewString()
}

func setSessionCookies(w http.ResponseWriter, sessionID string, isCustomer bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if isCustomer {
		http.SetCookie(w, &http.Cookie{
			Name:     "customer_id",
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// POST /chat/{userID}
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	sessionID := resolveSessionID(r, req.CustomerID)
	reply := h.svc.HandleTurn(r.Context(), sessionID, userID, req.Message)

	setSessionCookies(w, sessionID, strings.HasPrefix(sessionID, "customer"))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Response: reply, SessionID: sessionID})
}

// GET /history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := resolveSessionID(r, r.URL.Query().Get("customer_id"))

	messages := h.svc.History(r.Context(), sessionID)

	setSessionCookies(w, sessionID, strings.HasPrefix(sessionID, "customer"))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"messages":   messages,
		"session_id": sessionID,
	})
}

// DELETE /history/{sessionID}
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	// A logged-in customer's cookie wins over whatever the client put in the
	// path, so a stale bookmark cannot clear someone else's session.
	if c, err := r.Cookie("customer_id"); err == nil && c.Value != "" {
		sessionID = c.Value
	}
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	h.svc.ClearHistory(r.Context(), sessionID)
	h.logger.Info("chat history cleared", "session_id", sessionID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "대화 기록이 삭제되었습니다.",
	})
}
