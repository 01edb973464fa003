package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	sharedauth "interview-backend/internal/shared/auth"
)

func newTestService() *Service {
	return &Service{Repo: NewMemoryRepo(), Cost: bcrypt.MinCost}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "  Ada@Example.com ", "secret1", "Ada Lovelace")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.User.Email != "ada@example.com" || session.User.ID == "" {
		t.Fatalf("unexpected user %+v", session.User)
	}
	if session.User.PasswordHash == "secret1" {
		t.Fatalf("password stored in clear text")
	}
	claims, err := sharedauth.VerifyJWT(session.Token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != session.User.ID || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	login, err := svc.Login(ctx, "ADA@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Fatalf("login returned different user %q", login.User.ID)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"missing email", "", "secret1", ErrInvalidInput},
		{"invalid email", "not-an-email", "secret1", ErrInvalidInput},
		{"short password", "a@example.com", "12345", ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.email, tc.password, ""); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := svc.Register(ctx, "a@example.com", "123456", ""); err != nil {
		t.Fatalf("six character password should be accepted: %v", err)
	}
	if _, err := svc.Register(ctx, "A@example.com", "abcdef", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpsertFromAuthLinksExistingEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "grace@example.com", "secret1", "Grace Hopper")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	linked, err := svc.UpsertFromAuth(ctx, User{ID: "google:123", Email: "Grace@example.com", PictureURL: "https://img/p.png"})
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if linked.ID != registered.User.ID || linked.FullName != "Grace Hopper" || linked.PictureURL != "https://img/p.png" {
		t.Fatalf("unexpected linked user %+v", linked)
	}
	if _, err := svc.Login(ctx, "grace@example.com", "secret1"); err != nil {
		t.Fatalf("password login should survive google link: %v", err)
	}

	fresh, err := svc.UpsertFromAuth(ctx, User{ID: "google:456", Email: "new@example.com", FullName: "New"})
	if err != nil {
		t.Fatalf("UpsertFromAuth new: %v", err)
	}
	if fresh.ID != "google:456" {
		t.Fatalf("unexpected id %q", fresh.ID)
	}
	if _, err := svc.Login(ctx, "new@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("google-only account must not accept passwords, got %v", err)
	}
}
