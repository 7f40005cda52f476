package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	token, err := m.GenerateAccessToken("user-123", "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
}

func TestJWTWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)
	other := NewJWTManager("other-secret", time.Minute)

	token, err := m.GenerateAccessToken("user-123", "reader@example.com")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken("user-123", "reader@example.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	_, err := m.ParseAndValidate("not-a-token")
	assert.Error(t, err)
}

func TestJWTRejectsUnsignedToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-123"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.Error(t, err, "only HMAC-signed tokens are accepted")
}
