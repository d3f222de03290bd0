package session

import (
	"context"
	"sort"
	"strings"

	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

// greetings maps session-id prefixes to the assistant turn injected on first
// contact. Longest matching prefix wins; sessions without a "customer" prefix
// get no greeting at all.
var greetings = map[string]string{
	"customer":    "안녕하세요! 무엇을 도와드릴까요?",
	"customer002": "안녕하세요! 저는 영양 상담을 도와드리는 영양사입니다. 어떤 영양 관련 고민이 있으신가요?",
	"customer003": "안녕하세요! 저는 피부진단을 도와드리는 SBOT입니다. 어떤 피부 고민이 있으신가요?",
	"customer004": "안녕하세요! 저는 건강 상담을 도와드리는 전문가입니다. 어떤 건강 고민이 있으신가요?",
}

// greetingFor returns the injected greeting for a session id, if any.
func greetingFor(sessionID string) (string, bool) {
	prefixes := make([]string, 0, len(greetings))
	for p := range greetings {
		prefixes = append(prefixes, p)
	}
	// Longest prefix first.
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, p := range prefixes {
		if strings.HasPrefix(sessionID, p) {
			return greetings[p], true
		}
	}
	return "", false
}

// Resolver decides where a session's history physically lives. It prefers the
// remote cache, probing liveness per call, and falls back to the in-process
// store when Redis is down. Losing recent history on a cache outage is
// accepted in exchange for availability; no chat turn ever fails on a
// history write.
type Resolver struct {
	remote *RedisStore
	local  *MemoryStore
	logger *logging.Logger
}

// NewResolver creates a resolver. remote may be nil when Redis is not
// configured at all; local is required.
func NewResolver(remote *RedisStore, local *MemoryStore, logger *logging.Logger) *Resolver {
	if local == nil {
		panic("session: local store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{remote: remote, local: local, logger: logger}
}

// remoteAlive reports whether the remote cache is currently reachable.
func (r *Resolver) remoteAlive(ctx context.Context) bool {
	if r.remote == nil {
		return false
	}
	if err := r.remote.Ping(ctx); err != nil {
		r.logger.Warn("session: redis unreachable, using in-memory history", "error", err)
		return false
	}
	return true
}

// Resolve returns the conversation history for the session, constructing and
// seeding a new one on first contact. Resolving the same id twice yields
// identical content; the greeting is injected exactly once.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) []Message {
	remoteAlive := r.remoteAlive(ctx)

	if remoteAlive {
		history, found, err := r.remote.Load(ctx, sessionID)
		if err != nil {
			r.logger.Warn("session: remote load failed", "session_id", sessionID, "error", err)
		} else if found {
			return history
		}
	}

	if history, found, _ := r.local.Load(ctx, sessionID); found {
		return history
	}

	history := []Message{}
	if greeting, ok := greetingFor(sessionID); ok {
		history = append(history, Message{Role: RoleAssistant, Content: greeting})
	}

	if remoteAlive {
		if err := r.remote.Save(ctx, sessionID, history); err != nil {
			r.logger.Warn("session: failed to seed remote history", "session_id", sessionID, "error", err)
			_ = r.local.Save(ctx, sessionID, history)
		}
	} else {
		_ = r.local.Save(ctx, sessionID, history)
	}
	return history
}

// Persist writes the history back to whichever store is reachable. Failures
// are logged and swallowed: durability here is soft by design.
func (r *Resolver) Persist(ctx context.Context, sessionID string, history []Message) {
	if r.remoteAlive(ctx) {
		err := r.remote.Save(ctx, sessionID, history)
		if err == nil {
			return
		}
		r.logger.Warn("session: remote write-back failed", "session_id", sessionID, "error", err)
	}
	if err := r.local.Save(ctx, sessionID, history); err != nil {
		r.logger.Warn("session: local write-back failed", "session_id", sessionID, "error", err)
	}
}

// Clear removes the session history from both stores. Each deletion failure
// is logged independently; the operation always reports success because the
// local view is authoritative for the response.
func (r *Resolver) Clear(ctx context.Context, sessionID string) {
	if err := r.local.Delete(ctx, sessionID); err != nil {
		r.logger.Warn("session: local delete failed", "session_id", sessionID, "error", err)
	}
	if r.remote != nil {
		if err := r.remote.Delete(ctx, sessionID); err != nil {
			r.logger.Warn("session: remote delete failed", "session_id", sessionID, "error", err)
		}
	}
}
