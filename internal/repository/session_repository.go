package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// SessionRepository tracks revoked bearer tokens by their jti.
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository returns a Redis backed store. A nil client yields a
// store that never reports a token as revoked.
func NewSessionRepository(client *redis.Client) SessionRepository {
	if client == nil {
		return disabledSessions{}
	}
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *sessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type disabledSessions struct{}

func (disabledSessions) Revoke(context.Context, string, time.Duration) error { return nil }

func (disabledSessions) IsRevoked(context.Context, string) (bool, error) { return false, nil }
