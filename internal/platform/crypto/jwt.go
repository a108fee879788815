package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of the Bearer carrier. Subject holds the user id and SID
// points at the backing session row, so a token is only as good as that session.
type Claims struct {
	Email string `json:"email"` // user email
	SID   string `json:"sid"`   // session id
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token that expires at expiresAt.
func GenerateToken(secret, userID, email, sessionID string, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("crypto: empty jwt secret")
	}
	now := time.Now()
	c := Claims{
		Email: email,
		SID:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid && claims.SID != "" && claims.Subject != "" {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
