package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"survival-quiz/internal/app"
	"survival-quiz/internal/domain"
	"survival-quiz/internal/infra/memory"
)

// releaseName deletes the name reservation only if it still belongs to the session.
var releaseName = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewName extends the reservation held by the session, or takes it again if it has
// already expired. It returns 0 when another session holds the name.
var renewName = redis.NewScript(`
local holder = redis.call("GET", KEYS[1])
if holder == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if not holder then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
return 0
`)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions themselves stay in a local in-memory store; their event loops are
//     process-bound.
//   - Redis reserves the player name across instances with SET NX and a TTL, so two
//     browsers behind different instances cannot play under the same name.
//   - The reservation expires after the TTL unless Touch renews it, so names held by
//     crashed instances come free again.
//   - Redis failures fall back to the local reservation only.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.SessionStore
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewSessionStore(),
	}
}

func (s *SessionStore) Register(ctx context.Context, session *app.Session) error {
	key := s.key(session.Player)
	reserved, err := s.client.SetNX(ctx, key, session.ID, s.ttl).Result()
	if err == nil && !reserved {
		return domain.ErrPlayerNameTaken
	}
	if err := s.local.Register(ctx, session); err != nil {
		if reserved {
			_ = releaseName.Run(ctx, s.client, []string{key}, session.ID).Err()
		}
		return err
	}
	return nil
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	return s.local.Get(id)
}

func (s *SessionStore) Touch(ctx context.Context, id string) error {
	session, ok := s.local.Get(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	renewed, err := renewName.Run(ctx, s.client, []string{s.key(session.Player)}, id, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("renew name reservation: %w", err)
	}
	if renewed == 0 {
		return fmt.Errorf("renew name reservation: %w", domain.ErrPlayerNameTaken)
	}
	return nil
}

func (s *SessionStore) Remove(ctx context.Context, id string) {
	session, ok := s.local.Get(id)
	if !ok {
		return
	}
	s.local.Remove(ctx, id)
	_ = releaseName.Run(ctx, s.client, []string{s.key(session.Player)}, id).Err()
}

func (s *SessionStore) key(player string) string {
	return "quiz:player:" + player
}
