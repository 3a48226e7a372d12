package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/repository"
)

var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrExpiredCredential   = errors.New("expired credential")
	ErrRevokedCredential   = errors.New("revoked credential")
	ErrInactiveSubject     = errors.New("inactive or unknown subject")
)

// Principal represents the authenticated caller.
type Principal struct {
	Subject domain.Subject
	User    *domain.User
	Claims  *Claims
}

// SessionAuthority resolves bearer credentials into subjects.
type SessionAuthority struct {
	tokens   *TokenManager
	users    repository.UserRepository
	sessions repository.SessionRepository
}

// NewSessionAuthority wires the authority.
func NewSessionAuthority(tokens *TokenManager, users repository.UserRepository, sessions repository.SessionRepository) *SessionAuthority {
	return &SessionAuthority{tokens: tokens, users: users, sessions: sessions}
}

// Issue signs a fresh credential for the user.
func (a *SessionAuthority) Issue(user *domain.User) (string, *Claims, error) {
	return a.tokens.GenerateToken(user)
}

// Verify resolves a credential to the subject it authenticates.
func (a *SessionAuthority) Verify(ctx context.Context, credential string) (domain.Subject, error) {
	principal, err := a.Authenticate(ctx, credential)
	if err != nil {
		return domain.Subject{}, err
	}
	return principal.Subject, nil
}

// Authenticate is Verify returning the loaded account and claims as well.
func (a *SessionAuthority) Authenticate(ctx context.Context, credential string) (*Principal, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	claims, err := a.tokens.ParseToken(credential)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, ErrMalformedCredential
	}

	revoked, err := a.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedCredential
	}

	userID, _ := claims.UserID()
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInactiveSubject
		}
		return nil, fmt.Errorf("load subject: %w", err)
	}
	if !user.Active {
		return nil, ErrInactiveSubject
	}

	return &Principal{Subject: user.Subject(), User: user, Claims: claims}, nil
}

// Revoke invalidates the credential described by claims until it would have expired.
func (a *SessionAuthority) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return a.sessions.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAtTime()))
}
