package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledSessionsNeverRevoke(t *testing.T) {
	store := NewSessionRepository(nil)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "abc", time.Hour))
	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}
