package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// JWTProvider verifies HMAC-signed identity tokens. Claims follow the
// provider's shape: "sub" carries the UID, "email" the address when one
// exists, and "anonymous" marks guest sessions.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider builds a verifier over the shared signing secret.
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

// Verify parses and validates the token and extracts the identity.
func (p *JWTProvider) Verify(_ context.Context, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	uid, ok := claims["sub"].(string)
	if !ok || uid == "" {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{UID: uid}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if anon, ok := claims["anonymous"].(bool); ok {
		identity.IsAnonymous = anon
	}
	return identity, nil
}

var _ Provider = (*JWTProvider)(nil)
