package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/mocks"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *mocks.UserRepository, *mocks.SessionRepository, *mocks.AuditRecorder) {
	t.Helper()
	users := new(mocks.UserRepository)
	sessions := new(mocks.SessionRepository)
	audit := &mocks.AuditRecorder{}
	authority := auth.NewSessionAuthority(auth.NewTokenManager("secret", time.Hour), users, sessions)
	svc := NewAuthService(AuthDependencies{UserRepo: users, Authority: authority, Audit: audit})
	return svc, users, sessions, audit
}

func TestLogin(t *testing.T) {
	svc, users, _, audit := newAuthService(t)
	ctx := context.Background()
	hash, err := auth.HashPassword("pa55word", 4)
	require.NoError(t, err)

	users.On("GetByLogin", mock.Anything, "sam").Return(&domain.User{ID: 7, Role: domain.RoleStaff, PasswordHash: hash, Active: true}, nil)
	users.On("GetByLogin", mock.Anything, "gone@example.com").Return(&domain.User{ID: 8, Role: domain.RoleStaff, PasswordHash: hash, Active: false}, nil)
	users.On("GetByLogin", mock.Anything, "nobody").Return(nil, pgx.ErrNoRows)

	session, err := svc.Login(ctx, "sam", "pa55word")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
	assert.Equal(t, []events.EventType{events.EventLogin}, audit.Actions())

	for _, attempt := range [][2]string{{"sam", "wrong"}, {"gone@example.com", "pa55word"}, {"nobody", "pa55word"}} {
		_, err := svc.Login(ctx, attempt[0], attempt[1])
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"), attempt[0])
	}

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestLogoutRevokesCredential(t *testing.T) {
	svc, users, sessions, audit := newAuthService(t)
	ctx := context.Background()
	user := &domain.User{ID: 7, Role: domain.RoleStaff, Active: true}
	users.On("GetByID", mock.Anything, int64(7)).Return(user, nil)

	session, err := svc.Refresh(ctx, user.Subject())
	require.NoError(t, err)

	var revokedID string
	sessions.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil).Once()
	sessions.On("Revoke", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { revokedID = args.String(1) }).
		Return(nil)

	authority := auth.NewSessionAuthority(auth.NewTokenManager("secret", time.Hour), users, sessions)
	principal, err := authority.Authenticate(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, principal))
	assert.Equal(t, principal.Claims.ID, revokedID)
	assert.Equal(t, []events.EventType{events.EventLogout}, audit.Actions())
}
