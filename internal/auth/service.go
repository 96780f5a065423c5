package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

const tokenTTL = 12 * time.Hour

type Service struct {
	store  store.Store
	secret string
}

func NewService(s store.Store, secret string) *Service {
	return &Service{store: s, secret: secret}
}

// Login checks the password and returns a signed token plus the user record.
// Unknown usernames and bad passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, ErrInvalidCredentials
	}
	token, err := GenerateToken(s.secret, u, tokenTTL)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}
