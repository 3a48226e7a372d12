package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/domain"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	authority *SessionAuthority
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authority *SessionAuthority) *AuthMiddleware {
	return &AuthMiddleware{authority: authority}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	credential, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return credentialError(err)
	}

	principal, err := m.authority.Authenticate(c.UserContext(), credential)
	if err != nil {
		return credentialError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedCredential
	}
	return strings.TrimSpace(parts[1]), nil
}

func credentialError(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return apperrors.NewUnauthorized("missing authorization header")
	case errors.Is(err, ErrMalformedCredential):
		return apperrors.NewUnauthorized("invalid token")
	case errors.Is(err, ErrExpiredCredential):
		return apperrors.NewUnauthorized("token expired")
	case errors.Is(err, ErrRevokedCredential):
		return apperrors.NewUnauthorized("token revoked")
	case errors.Is(err, ErrInactiveSubject):
		return apperrors.NewUnauthorized("account inactive or not found")
	default:
		return apperrors.NewInternalError(err)
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SubjectFromContext is a shorthand for handlers that only need the subject.
func SubjectFromContext(c *fiber.Ctx) (domain.Subject, bool) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return domain.Subject{}, false
	}
	return principal.Subject, true
}
