package repository

import (
	"context"
	"database/sql"
	"time"

	"book_catalog/internal/models"
)

// Credentials is the credential registry.
type Credentials interface {
	// Create stores a new user. Returns common.ErrDuplicateUser if the username is taken.
	Create(ctx context.Context, u models.User) error
	// Verify reports whether an exact (username, password) pair is registered.
	Verify(ctx context.Context, username, password string) (bool, error)
}

// Catalog holds books and their mutable review maps.
type Catalog interface {
	Load(ctx context.Context, books []models.Book) error
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, isbn string) (models.Book, error)
	PutReview(ctx context.Context, isbn, username, review string) error
	DeleteReview(ctx context.Context, isbn, username string) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, from, to time.Time, typ, username string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Catalog Catalog
	Events  EventRepo
	Auth    Credentials
}

// NewRepository builds SQLite-backed stores sharing one connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Catalog: NewCatalogSQLite(db),
		Events:  NewEventSQLite(db),
		Auth:    NewUserRepository(db),
	}
}

// NewMemoryRepository builds mutex-guarded in-process stores.
func NewMemoryRepository() *Repository {
	return &Repository{
		Catalog: NewMemoryCatalog(),
		Events:  NewMemoryEvents(),
		Auth:    NewMemoryCredentials(),
	}
}
