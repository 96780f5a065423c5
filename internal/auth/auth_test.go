package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/auth"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store/memstore"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	u := domain.User{ID: "u1", Name: "Kasir", Role: domain.RoleCashier, TenantID: "t1", BranchID: "b1"}

	token, err := auth.GenerateToken(secret, u, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := auth.ParseToken(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	actor := claims.Actor()
	if actor.ID != "u1" || actor.TenantID != "t1" || actor.BranchID != "b1" || actor.Role != domain.RoleCashier {
		t.Fatalf("bad actor: %+v", actor)
	}

	if _, err := auth.ParseToken("other-secret", token); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong secret must fail, got %v", err)
	}
	if _, err := auth.ParseToken(secret, "garbage"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("garbage token must fail, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	u := domain.User{ID: "u1", TenantID: "t1"}
	token, err := auth.GenerateToken(secret, u, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ParseToken(secret, token); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expired token must fail, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	st := memstore.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	st.PutUser(domain.User{
		ID: "u1", Username: "kasir", Name: "Kasir",
		PasswordHash: string(hash), Role: domain.RoleCashier,
		TenantID: "t1", BranchID: "b1",
	})
	svc := auth.NewService(st, secret)
	ctx := context.Background()

	token, user, err := svc.Login(ctx, "kasir", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || user.ID != "u1" {
		t.Fatalf("bad login result: token=%q user=%+v", token, user)
	}

	if _, _, err := svc.Login(ctx, "kasir", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password must fail, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "ghost", "Passw0rd!"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown user must fail, got %v", err)
	}
}
