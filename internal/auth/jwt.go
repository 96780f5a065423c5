// Package auth is the identity boundary. It verifies seeded users, issues
// bearer tokens carrying actor / role / tenant / branch, and turns valid
// tokens back into the Actor the engine trusts. The engine itself never
// re-authenticates.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Claims struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	BranchID string `json:"branch_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, u domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:     u.Name,
		Role:     u.Role,
		TenantID: u.TenantID,
		BranchID: u.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidCredentials
	}
	return claims, nil
}

// Actor converts verified claims into the identity attached to requests.
func (c Claims) Actor() domain.Actor {
	return domain.Actor{
		ID:       c.Subject,
		Name:     c.Name,
		Role:     c.Role,
		TenantID: c.TenantID,
		BranchID: c.BranchID,
	}
}
