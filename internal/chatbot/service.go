package chatbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scancerlabs/scancer-platform/internal/llm"
	"github.com/scancerlabs/scancer-platform/internal/observability/metrics"
	"github.com/scancerlabs/scancer-platform/internal/reservations"
	"github.com/scancerlabs/scancer-platform/internal/session"
	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

// Canned replies for the reservation command paths. These short-circuit the
// language model entirely.
const (
	replyCreatePrompt   = "날짜와 시간을 정확히 입력해 주세요. 예: '7월 19일 16시에 예약해줘'"
	replyUpdatePrompt   = "변경할 예약의 날짜, 기존 시간, 변경할 시간을 정확히 입력해 주세요. 예: '7월 19일 16시 예약을 17시로 바꿔줘'"
	replyCreateRejected = "예약에 실패했습니다. 이미 예약이 있거나 서버 오류입니다."
	replyNoReservation  = "예약 내역이 없습니다."
	replyNoneToCancel   = "취소할 예약이 없습니다."
	replyNoSuchSlot     = "해당 날짜와 시간에 예약이 없습니다."
	replyCancelled      = "예약이 취소되었습니다."
)

// ProfileProvider supplies optional user context for the system preamble.
// A failure here is non-fatal; the turn proceeds without enrichment.
type ProfileProvider interface {
	ProfileContext(ctx context.Context, userID int64) (string, error)
}

// Service is the chat router: it resolves session history, classifies the
// utterance and dispatches to the reservation capability, the FAQ table or
// the language model.
type Service struct {
	sessions     *session.Resolver
	reservations reservations.Service
	model        llm.Client
	profiles     ProfileProvider
	metrics      *metrics.ChatMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewService constructs the chat router. profiles and chatMetrics may be nil.
func NewService(
	sessions *session.Resolver,
	resv reservations.Service,
	model llm.Client,
	profiles ProfileProvider,
	chatMetrics *metrics.ChatMetrics,
	logger *logging.Logger,
) *Service {
	if sessions == nil {
		panic("chatbot: session resolver is required")
	}
	if resv == nil {
		panic("chatbot: reservation service is required")
	}
	if model == nil {
		panic("chatbot: model client is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sessions:     sessions,
		reservations: resv,
		model:        model,
		profiles:     profiles,
		metrics:      chatMetrics,
		logger:       logger,
		now:          time.Now,
	}
}

// HandleTurn processes one chat exchange and returns the assistant's reply.
// It never returns an error: collaborator failures degrade to a per-domain
// apology so the chat surface stays conversational.
func (s *Service) HandleTurn(ctx context.Context, sessionID string, userID int64, message string) string {
	intent := Classify(message)
	domain := DomainOf(sessionID)

	switch intent {
	case IntentQueryReservation:
		return s.handleQuery(ctx, userID, domain, intent)
	case IntentUpdateReservation:
		return s.handleUpdate(ctx, userID, message, domain, intent)
	case IntentCancelReservation:
		return s.handleCancel(ctx, userID, message, domain, intent)
	case IntentCreateReservation:
		return s.handleCreate(ctx, userID, message, domain, intent)
	}

	if answer, ok := LookupFAQ(message); ok {
		s.metrics.ObserveTurn("faq", "ok")
		return answer
	}

	return s.handleModelTurn(ctx, sessionID, userID, message, domain)
}

func (s *Service) degrade(domain Domain, intent Intent, err error) string {
	s.logger.Warn("chatbot: collaborator failure", "intent", intent.String(), "error", err)
	s.metrics.ObserveTurn(intent.String(), "degraded")
	return Apology(domain)
}

func (s *Service) handleQuery(ctx context.Context, userID int64, domain Domain, intent Intent) string {
	r, err := s.reservations.Get(ctx, userID)
	if err != nil {
		return s.degrade(domain, intent, err)
	}
	s.metrics.ObserveTurn(intent.String(), "ok")
	if r == nil {
		return replyNoReservation
	}
	return fmt.Sprintf("예약 내역: %s %s (%s)", r.Date, r.Time, r.Purpose)
}

func (s *Service) handleCreate(ctx context.Context, userID int64, message string, domain Domain, intent Intent) string {
	info, ok := ParseReservation(message, s.now())
	if !ok {
		s.metrics.ObserveTurn(intent.String(), "reprompt")
		return replyCreatePrompt
	}

	err := s.reservations.Create(ctx, userID, reservations.Reservation{
		Date:    info.Date,
		Time:    info.Time,
		Purpose: info.Purpose,
	})
	if errors.Is(err, reservations.ErrAlreadyExists) {
		s.metrics.ObserveTurn(intent.String(), "rejected")
		return replyCreateRejected
	}
	if err != nil {
		return s.degrade(domain, intent, err)
	}
	s.metrics.ObserveTurn(intent.String(), "ok")
	return fmt.Sprintf("%s %s에 예약이 완료되었습니다.", info.Date, info.Time)
}

func (s *Service) handleUpdate(ctx context.Context, userID int64, message string, domain Domain, intent Intent) string {
	info, ok := ParseUpdate(message, s.now())
	if !ok {
		s.metrics.ObserveTurn(intent.String(), "reprompt")
		return replyUpdatePrompt
	}

	current, err := s.reservations.Get(ctx, userID)
	if err != nil {
		return s.degrade(domain, intent, err)
	}
	if current == nil || current.Date != info.Date || current.Time != info.OldTime {
		s.metrics.ObserveTurn(intent.String(), "rejected")
		return replyNoSuchSlot
	}

	err = s.reservations.Update(ctx, userID, reservations.Reservation{
		Date:    info.Date,
		Time:    info.NewTime,
		Purpose: info.Purpose,
		Status:  current.Status,
	})
	if errors.Is(err, reservations.ErrNotFound) {
		s.metrics.ObserveTurn(intent.String(), "rejected")
		return replyNoSuchSlot
	}
	if err != nil {
		return s.degrade(domain, intent, err)
	}
	s.metrics.ObserveTurn(intent.String(), "ok")
	return fmt.Sprintf("%s %s 예약이 %s로 변경되었습니다.", info.Date, info.OldTime, info.NewTime)
}

func (s *Service) handleCancel(ctx context.Context, userID int64, message string, domain Domain, intent Intent) string {
	current, err := s.reservations.Get(ctx, userID)
	if err != nil {
		return s.degrade(domain, intent, err)
	}
	if current == nil {
		s.metrics.ObserveTurn(intent.String(), "rejected")
		return replyNoneToCancel
	}

	// An explicit date/time in the utterance must match the held reservation;
	// without one the current reservation is cancelled.
	if info, ok := ParseReservation(message, s.now()); ok {
		if current.Date != info.Date || current.Time != info.Time {
			s.metrics.ObserveTurn(intent.String(), "rejected")
			return replyNoSuchSlot
		}
	}

	err = s.reservations.Cancel(ctx, userID)
	if errors.Is(err, reservations.ErrNotFound) {
		s.metrics.ObserveTurn(intent.String(), "rejected")
		return replyNoneToCancel
	}
	if err != nil {
		return s.degrade(domain, intent, err)
	}
	s.metrics.ObserveTurn(intent.String(), "ok")
	return replyCancelled
}

func (s *Service) handleModelTurn(ctx context.Context, sessionID string, userID int64, message string, domain Domain) string {
	history := s.sessions.Resolve(ctx, sessionID)

	profileContext := ""
	if s.profiles != nil && userID != 0 {
		summary, err := s.profiles.ProfileContext(ctx, userID)
		if err != nil {
			s.logger.Warn("chatbot: profile enrichment failed", "user_id", userID, "error", err)
		} else {
			profileContext = summary
		}
	}

	msgs := make([]llm.ChatMessage, 0, len(history)+1)
	for _, turn := range history {
		msgs = append(msgs, llm.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleUser, Content: message})

	start := s.now()
	resp, err := s.model.Complete(ctx, llm.Request{
		System:      []string{SystemPreamble(domain, profileContext)},
		Messages:    msgs,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		s.metrics.ObserveLLMLatency("error", time.Since(start).Seconds())
		s.logger.Warn("chatbot: model call failed", "session_id", sessionID, "error", err)
		s.metrics.ObserveTurn(IntentUnknown.String(), "degraded")
		return Apology(domain)
	}
	s.metrics.ObserveLLMLatency("ok", time.Since(start).Seconds())

	history = append(history,
		session.Message{Role: session.RoleUser, Content: message},
		session.Message{Role: session.RoleAssistant, Content: resp.Text},
	)
	s.sessions.Persist(ctx, sessionID, history)

	s.metrics.ObserveTurn(IntentUnknown.String(), "ok")
	return resp.Text
}

// History exposes the resolved conversation history for the session.
func (s *Service) History(ctx context.Context, sessionID string) []session.Message {
	return s.sessions.Resolve(ctx, sessionID)
}

// ClearHistory removes the session's conversation history.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) {
	s.sessions.Clear(ctx, sessionID)
}
