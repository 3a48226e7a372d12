package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/repository"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

// Session is an issued credential.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates login and session flows.
type AuthService struct {
	users     repository.UserRepository
	authority *auth.SessionAuthority
	audit     AuditRecorder
	logger    *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	Authority *auth.SessionAuthority
	Audit     AuditRecorder
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     deps.UserRepo,
		authority: deps.Authority,
		audit:     recorderOrNoop(deps.Audit),
		logger:    logger,
	}
}

// Login authenticates by username or email. Unknown, inactive and wrong
// password attempts share one error.
func (s *AuthService) Login(ctx context.Context, login, password string) (*Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		s.logger.Debug("login rejected for inactive account", zap.Int64("user_id", user.ID))
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, events.AuditEntry{ActorID: user.ID, Action: events.EventLogin})
	return session, nil
}

// Logout revokes the credential the principal authenticated with.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if err := s.authority.Revoke(ctx, principal.Claims); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.audit.Record(ctx, events.AuditEntry{ActorID: principal.Subject.ID, Action: events.EventLogout})
	return nil
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, subject domain.Subject) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, subject.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": subject.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Refresh issues a new credential for the caller.
func (s *AuthService) Refresh(ctx context.Context, subject domain.Subject) (*Session, error) {
	user, err := s.Profile(ctx, subject)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account inactive or not found")
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, claims, err := s.authority.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAtTime()}, nil
}
