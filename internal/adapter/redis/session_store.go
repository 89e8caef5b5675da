// Package redis keeps sessions in Redis so several API instances can share them.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vijaynvb/fullstackapp/internal/core/domain"
	"github.com/vijaynvb/fullstackapp/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "session:"

// SessionStore stores each session under its token hash with a TTL matching its expiry,
// plus a per-user set of hashes for bulk revocation.
type SessionStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

type storedSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Remember  bool      `json:"remember"`
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(storedSession{
		ID:        session.ID,
		UserID:    session.UserID,
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
		Remember:  session.Remember,
	})
	if err != nil {
		return fmt.Errorf("session marshal error: %w", err)
	}

	userKey := s.userKey(session.UserID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(session.TokenHash), data, ttl)
	pipe.SAdd(ctx, userKey, session.TokenHash)
	// The index lives as long as the longest session it points to.
	pipe.ExpireGT(ctx, userKey, ttl)
	pipe.ExpireNX(ctx, userKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session save error: %w", err)
	}
	return nil
}

func (s *SessionStore) FindByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("session get error: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.Session{}, fmt.Errorf("session unmarshal error: %w", err)
	}
	return domain.Session{
		ID:        stored.ID,
		TokenHash: tokenHash,
		UserID:    stored.UserID,
		IssuedAt:  stored.IssuedAt.UTC(),
		ExpiresAt: stored.ExpiresAt.UTC(),
		Remember:  stored.Remember,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, tokenHash string) error {
	session, err := s.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(tokenHash))
	pipe.SRem(ctx, s.userKey(session.UserID), tokenHash)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session delete error: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	userKey := s.userKey(userID)
	hashes, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("session index error: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, s.sessionKey(hash))
	}
	keys = append(keys, userKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session delete error: %w", err)
	}
	return nil
}

// Ping checks if the Redis connection is healthy.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) sessionKey(tokenHash string) string {
	return s.prefix + tokenHash
}

func (s *SessionStore) userKey(userID string) string {
	return s.prefix + "user:" + userID
}
