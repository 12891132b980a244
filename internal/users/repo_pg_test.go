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

var userColumns = []string{"id", "name", "email", "password_hash", "phone", "created_at", "updated_at"}

func TestPGRepoCreateReturnsGeneratedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Jane", "jane@example.com", "hash", nil, created).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, created, created))

	user, err := repo.Create(context.Background(), User{
		Name:         "Jane",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		CreatedAt:    created,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("expected id 7, got %d", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Create(context.Background(), User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPGRepoGetByEmailScansNullablePhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectQuery("FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "Jane", "jane@example.com", "hash", nil, now, now))

	user, err := repo.GetByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != 3 || user.Phone != nil {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("FROM users").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateWritesPhoneAndHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	phone := "555-0100"
	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE users").
		WithArgs(int64(3), phone, "newhash").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "Jane", "jane@example.com", "newhash", phone, now, now))

	user, err := repo.Update(context.Background(), User{ID: 3, Phone: &phone, PasswordHash: "newhash"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Phone == nil || *user.Phone != phone {
		t.Fatalf("expected phone %q, got %v", phone, user.Phone)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
