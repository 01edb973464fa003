package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sharedauth "interview-backend/internal/shared/auth"
	"interview-backend/internal/shared/telemetry"
)

const (
	minPasswordRunes = 6
	// bcrypt ignores bytes beyond 72
	maxPasswordBytes = 72
	maxNameRunes     = 200
)

type Service struct {
	Repo Repo
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Session is an authenticated user with a signed bearer token.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates an email/password account and signs a token for it.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (Session, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if err := validateCredentials(email, password); err != nil {
		return Session{}, err
	}
	if utf8.RuneCountInString(fullName) > maxNameRunes {
		return Session{}, fmt.Errorf("%w: full name is too long", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("reload user: %w", err)
	}
	telemetry.Info("users.registered", map[string]any{"user_id": created.ID})
	return s.session(created)
}

// Login verifies the password and signs a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// UpsertFromAuth persists an identity from Google login. A Google identity
// whose email already belongs to an account signs in as that account.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user.Email = normalizeEmail(user.Email)
	if strings.TrimSpace(user.ID) == "" || user.Email == "" {
		return User{}, fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}

	existing, err := s.Repo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		user.ID = existing.ID
		if user.FullName == "" {
			user.FullName = existing.FullName
		}
	case !errors.Is(err, ErrNotFound):
		return User{}, err
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// IssueToken signs a bearer token for the user.
func IssueToken(user User) (string, error) {
	return sharedauth.SignJWT(sharedauth.Claims{
		Email:            user.Email,
		Name:             user.FullName,
		Picture:          user.PictureURL,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	})
}

func (s *Service) session(user User) (Session, error) {
	token, err := IssueToken(user)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func validateCredentials(email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordRunes)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password is too long", ErrInvalidInput)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
