package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and validates session tokens (HS256).
type TokenIssuer struct {
	key      []byte
	duration time.Duration
}

// SessionClaims is the data carried inside a session token.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokenIssuer(key string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(key), duration: duration}
}

// Generate creates a signed session token for a username.
func (t *TokenIssuer) Generate(username string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "chat-hub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

// Validate parses a token string and checks signature and expiration.
func (t *TokenIssuer) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
