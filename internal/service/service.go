package service

import (
	"context"
	"time"

	"book_catalog/internal/logger"
	"book_catalog/internal/models"
	"book_catalog/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Reviews mutates a single user's review on a book.
type Reviews interface {
	AddOrModifyReview(ctx context.Context, isbn, username, review string) error
	DeleteReview(ctx context.Context, isbn, username string) error
}

// Catalog exposes read-only lookups over the book store.
type Catalog interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	BookByISBN(ctx context.Context, isbn string) (models.Book, error)
	BooksByAuthor(ctx context.Context, author string) ([]models.Book, error)
	BooksByTitle(ctx context.Context, title string) ([]models.Book, error)
	BookReviews(ctx context.Context, isbn string) (map[string]string, error)
}

// ActivityLog exposes the append-only audit trail with filtering access.
type ActivityLog interface {
	ListActivity(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
}

type Service struct {
	Authorization
	Reviews
	Catalog
	ActivityLog
}

// AuthConfig carries token settings into the auth service.
// Now defaults to time.Now.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
	Now      func() time.Time
}

type options struct {
	log *logger.Logger
}

type Option func(*options)

// WithLogger reports activity log append failures to log.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

func NewService(repos *repository.Repository, auth AuthConfig, opts ...Option) *Service {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	authSvc := NewAuthService(repos.Auth, repos.Events, auth)
	authSvc.events.log = o.log
	reviewSvc := NewReviewService(repos.Catalog, repos.Events)
	reviewSvc.events.log = o.log

	return &Service{
		Authorization: authSvc,
		Reviews:       reviewSvc,
		Catalog:       NewCatalogService(repos.Catalog),
		ActivityLog:   NewActivityService(repos.Events),
	}
}
