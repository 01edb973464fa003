package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "a@example.com", "hash", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u2", "a@example.com", "hash", nil, nil).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	if err := repo.Create(context.Background(), User{ID: "u1", Email: "a@example.com", PasswordHash: "hash"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(context.Background(), User{ID: "u2", Email: "a@example.com", PasswordHash: "hash"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "picture_url", "created_at", "updated_at"}).
		AddRow("google:1", "b@example.com", nil, "Bea", nil, now, now)
	mock.ExpectQuery("WHERE lower\\(email\\) = lower\\(\\$1\\)").WithArgs("b@example.com").WillReturnRows(rows)
	mock.ExpectQuery("WHERE lower\\(email\\) = lower\\(\\$1\\)").WithArgs("missing@example.com").WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByEmail(context.Background(), "b@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "google:1" || user.PasswordHash != "" || user.FullName != "Bea" || user.PictureURL != "" {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := repo.GetByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertKeepsPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := &PGRepo{DB: db}

	mock.ExpectExec("ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs("google:1", "b@example.com", "Bea", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), User{ID: "google:1", Email: "b@example.com", FullName: "Bea", PasswordHash: "ignored"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
