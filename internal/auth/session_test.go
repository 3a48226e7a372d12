package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/mocks"
)

type sessionFixture struct {
	tokens    *TokenManager
	users     *mocks.UserRepository
	sessions  *mocks.SessionRepository
	authority *SessionAuthority
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		tokens:   NewTokenManager("secret", time.Hour),
		users:    new(mocks.UserRepository),
		sessions: new(mocks.SessionRepository),
	}
	f.authority = NewSessionAuthority(f.tokens, f.users, f.sessions)
	return f
}

func (f *sessionFixture) issue(t *testing.T, user *domain.User) (string, *Claims) {
	t.Helper()
	token, claims, err := f.authority.Issue(user)
	require.NoError(t, err)
	return token, claims
}

func TestVerifyReturnsStoredRole(t *testing.T) {
	f := newSessionFixture()
	token, claims := f.issue(t, &domain.User{ID: 7, Role: domain.RoleChef, Active: true})

	f.sessions.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
	f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleAdmin, Active: true}, nil)

	subject, err := f.authority.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.Subject{ID: 7, Role: domain.RoleAdmin, Active: true}, subject)
}

func TestVerifyFailures(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := newSessionFixture().authority.Verify(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := newSessionFixture().authority.Verify(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrMalformedCredential)
	})

	t.Run("expired", func(t *testing.T) {
		f := newSessionFixture()
		past := NewTokenManager("secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.GenerateToken(&domain.User{ID: 7, Role: domain.RoleStaff})
		require.NoError(t, err)

		_, err = f.authority.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredCredential)
	})

	t.Run("revoked", func(t *testing.T) {
		f := newSessionFixture()
		token, claims := f.issue(t, &domain.User{ID: 7, Role: domain.RoleStaff, Active: true})
		f.sessions.On("IsRevoked", mock.Anything, claims.ID).Return(true, nil)

		_, err := f.authority.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrRevokedCredential)
	})

	t.Run("inactive", func(t *testing.T) {
		f := newSessionFixture()
		token, claims := f.issue(t, &domain.User{ID: 7, Role: domain.RoleStaff, Active: true})
		f.sessions.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
		f.users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleStaff, Active: false}, nil)

		_, err := f.authority.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInactiveSubject)
	})

	t.Run("unknown subject", func(t *testing.T) {
		f := newSessionFixture()
		token, claims := f.issue(t, &domain.User{ID: 9, Role: domain.RoleStaff, Active: true})
		f.sessions.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
		f.users.On("GetByID", mock.Anything, int64(9)).Return(nil, pgx.ErrNoRows)

		_, err := f.authority.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInactiveSubject)
	})

	t.Run("revocation store down", func(t *testing.T) {
		f := newSessionFixture()
		token, claims := f.issue(t, &domain.User{ID: 7, Role: domain.RoleStaff, Active: true})
		f.sessions.On("IsRevoked", mock.Anything, claims.ID).Return(false, errors.New("connection refused"))

		_, err := f.authority.Verify(context.Background(), token)
		require.Error(t, err)
		for _, sentinel := range []error{ErrMissingCredential, ErrMalformedCredential, ErrExpiredCredential, ErrRevokedCredential, ErrInactiveSubject} {
			assert.NotErrorIs(t, err, sentinel)
		}
	})
}

func TestRevokeStoresTokenUntilExpiry(t *testing.T) {
	f := newSessionFixture()
	_, claims := f.issue(t, &domain.User{ID: 7, Role: domain.RoleStaff, Active: true})

	f.sessions.On("Revoke", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil)

	require.NoError(t, f.authority.Revoke(context.Background(), claims))
	f.sessions.AssertExpectations(t)
}
