package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps conversation histories in Redis as JSON blobs under a
// fixed namespace prefix. Entries expire so an abandoned session does not
// live forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed history store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("memory:%s", sessionID)
}

// Ping probes Redis liveness. The resolver calls this per request to decide
// whether to fall back to the in-process store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load returns the stored history for the session, if any.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]Message, bool, error) {
	data, err := s.client.Get(ctx, historyKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("session: failed to load history: %w", err)
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, false, fmt.Errorf("session: failed to decode history: %w", err)
	}
	return history, true, nil
}

// Save overwrites the stored history for the session.
func (s *RedisStore) Save(ctx context.Context, sessionID string, history []Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("session: failed to marshal history: %w", err)
	}
	if err := s.client.Set(ctx, historyKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: failed to persist history: %w", err)
	}
	return nil
}

// Delete removes the stored history for the session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete history: %w", err)
	}
	return nil
}
