package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, claims, err := tm.GenerateToken(&domain.User{ID: 42, Role: domain.RoleChef})
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	id, err := parsed.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, domain.RoleChef, parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAtTime(), 5*time.Second)
}

func TestTokenDefaultsToOneDay(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	_, claims, err := tm.GenerateToken(&domain.User{ID: 1, Role: domain.RoleStaff})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAtTime(), 5*time.Second)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	other := NewTokenManager("other", time.Hour)
	token, _, err := other.GenerateToken(&domain.User{ID: 1, Role: domain.RoleStaff})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseTokenRejectsNonNumericSubject(t *testing.T) {
	claims := &Claims{Role: domain.RoleStaff, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "hunter22"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
