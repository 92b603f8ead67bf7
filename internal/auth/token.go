package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager. A zero ttl defaults to 24h.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for the identity.
func (m *TokenManager) Issue(id shared.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        id.Email,
		Name:         id.Name,
		Organization: id.Organization,
		Role:         id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the token and returns the embedded identity.
func (m *TokenManager) Parse(tokenString string) (shared.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, fmt.Errorf("auth: parse token: %w", shared.ErrUnauthenticated)
	}
	return shared.Identity{
		UserID:       claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		Organization: claims.Organization,
		Role:         claims.Role,
	}, nil
}
