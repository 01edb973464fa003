package users

import "context"

// Repo persists accounts. Emails are stored lower-cased and are unique.
type Repo interface {
	// Create inserts a new account and returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user User) error
	// Upsert inserts or refreshes the profile fields of an account, keeping its password hash.
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
