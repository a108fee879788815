package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("test-secret-key", "user-123", "admin@example.com", "sess-1", time.Now().Add(time.Hour))

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = GenerateToken("", "user-123", "admin@example.com", "sess-1", time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(secret, "user-123", "admin@example.com", "sess-1", time.Now().Add(time.Hour))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, "admin@example.com", claims.Email)
		assert.Equal(t, "sess-1", claims.SID)
	})

	t.Run("invalid signature", func(t *testing.T) {
		token, err := GenerateToken("wrong-secret", "user-123", "admin@example.com", "sess-1", time.Now().Add(time.Hour))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken(secret, "user-123", "admin@example.com", "sess-1", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("missing session id", func(t *testing.T) {
		c := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("missing subject", func(t *testing.T) {
		c := Claims{
			SID: "sess-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("sub is read from the registered claim", func(t *testing.T) {
		c := jwt.MapClaims{
			"sub": "user-456",
			"sid": "sess-2",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		require.NoError(t, err)
		assert.Equal(t, "user-456", claims.Subject)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, a, TokenBytes*2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, a, HashToken(a))
	assert.Len(t, HashToken(a), 64)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")

	require.NoError(t, err)
	assert.NotEqual(t, "testpassword123", hash)
	assert.True(t, VerifyPassword(hash, "testpassword123"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
