// Package auth implements access-token issuance and password hashing.
// Tokens carry the user's id and diary role; the role claim is omitted when
// the user has no profile yet. The rest of the system only reads the claim -
// it never re-derives the role from storage on a per-request basis.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// Claims is the JWT payload of an access token.
type Claims struct {
	// Role is the diary role claim; omitted entirely when the user has no
	// profile.
	Role string `json:"role,omitempty"`

	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret   []byte
	tokenTTL time.Duration
	issuer   string
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, tokenTTL time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		issuer:   issuer,
	}
}

// Issue creates a signed access token for the user. Pass shared.RoleNone for
// users without a profile; the role claim is then left out of the token.
func (m *TokenManager) Issue(userID string, role shared.Role, now time.Time) (string, error) {
	claims := &Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses a token string and returns the identity it carries.
// Any parse, signature or expiry failure maps to shared.ErrUnauthenticated.
func (m *TokenManager) Verify(tokenString string) (shared.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, shared.WrapError("auth", "Verify", shared.ErrUnauthenticated, "invalid token", err)
	}
	if claims.Subject == "" {
		return shared.Identity{}, shared.NewDomainError("auth", "Verify", shared.ErrUnauthenticated, "token has no subject")
	}

	return shared.Identity{
		UserID: claims.Subject,
		Role:   shared.ParseRole(claims.Role),
	}, nil
}
