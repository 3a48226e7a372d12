package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type SessionRepository struct{ mock.Mock }

func (m *SessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *SessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
