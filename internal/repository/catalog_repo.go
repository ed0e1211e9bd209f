package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
)

type CatalogSQLite struct {
	db *sql.DB
}

func NewCatalogSQLite(db *sql.DB) *CatalogSQLite {
	return &CatalogSQLite{db: db}
}

var _ Catalog = (*CatalogSQLite)(nil)

const (
	upsertBookSQL = `
		INSERT INTO books (isbn, title, author) VALUES (?, ?, ?)
		ON CONFLICT(isbn) DO UPDATE SET title=excluded.title, author=excluded.author
	`
	clearReviewsSQL = `DELETE FROM reviews WHERE isbn = ?`

	// the WHERE EXISTS guard turns a missing book into zero affected rows
	upsertReviewSQL = `
		INSERT INTO reviews (isbn, username, review, updated_at)
		SELECT ?, ?, ?, ? WHERE EXISTS (SELECT 1 FROM books WHERE isbn = ?)
		ON CONFLICT(isbn, username) DO UPDATE SET
			review=excluded.review,
			updated_at=excluded.updated_at
	`
	deleteReviewSQL = `DELETE FROM reviews WHERE isbn = ? AND username = ?`

	selectBooksSQL      = `SELECT isbn, title, author FROM books`
	selectAllReviewsSQL = `SELECT isbn, username, review FROM reviews`
	selectBookSQL       = `SELECT isbn, title, author FROM books WHERE isbn = ?`
	selectReviewsSQL    = `SELECT username, review FROM reviews WHERE isbn = ?`
	bookExistsSQL       = `SELECT 1 FROM books WHERE isbn = ?`
)

// Load upserts books and replaces their reviews in a single transaction.
func (r *CatalogSQLite) Load(ctx context.Context, books []models.Book) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := formatTime(time.Now())
	for _, b := range books {
		if _, err := tx.ExecContext(ctx, upsertBookSQL, b.ISBN, b.Title, b.Author); err != nil {
			return fmt.Errorf("upsert book %q: %w", b.ISBN, err)
		}
		if _, err := tx.ExecContext(ctx, clearReviewsSQL, b.ISBN); err != nil {
			return fmt.Errorf("clear reviews of %q: %w", b.ISBN, err)
		}
		for user, text := range b.Reviews {
			if _, err := tx.ExecContext(ctx, upsertReviewSQL, b.ISBN, user, text, now, b.ISBN); err != nil {
				return fmt.Errorf("seed review %q/%q: %w", b.ISBN, user, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog load: %w", err)
	}
	return nil
}

func (r *CatalogSQLite) List(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, selectBooksSQL)
	if err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}
	defer rows.Close()

	byISBN := make(map[string]*models.Book)
	order := make([]string, 0, 16)
	for rows.Next() {
		b := models.Book{Reviews: map[string]string{}}
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author); err != nil {
			return nil, err
		}
		byISBN[b.ISBN] = &b
		order = append(order, b.ISBN)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rrows, err := r.db.QueryContext(ctx, selectAllReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rrows.Close()
	for rrows.Next() {
		var isbn, user, text string
		if err := rrows.Scan(&isbn, &user, &text); err != nil {
			return nil, err
		}
		if b, ok := byISBN[isbn]; ok {
			b.Reviews[user] = text
		}
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Book, 0, len(order))
	for _, isbn := range order {
		out = append(out, *byISBN[isbn])
	}
	models.SortBooks(out)
	return out, nil
}

func (r *CatalogSQLite) Get(ctx context.Context, isbn string) (models.Book, error) {
	b := models.Book{Reviews: map[string]string{}}
	err := r.db.QueryRowContext(ctx, selectBookSQL, isbn).Scan(&b.ISBN, &b.Title, &b.Author)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, common.ErrBookNotFound
		}
		return models.Book{}, fmt.Errorf("select book %q: %w", isbn, err)
	}

	rows, err := r.db.QueryContext(ctx, selectReviewsSQL, isbn)
	if err != nil {
		return models.Book{}, fmt.Errorf("select reviews of %q: %w", isbn, err)
	}
	defer rows.Close()
	for rows.Next() {
		var user, text string
		if err := rows.Scan(&user, &text); err != nil {
			return models.Book{}, err
		}
		b.Reviews[user] = text
	}
	if err := rows.Err(); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func (r *CatalogSQLite) PutReview(ctx context.Context, isbn, username, review string) error {
	res, err := r.db.ExecContext(ctx, upsertReviewSQL, isbn, username, review, formatTime(time.Now()), isbn)
	if err != nil {
		return fmt.Errorf("upsert review %q/%q: %w", isbn, username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for review %q/%q: %w", isbn, username, err)
	}
	if n == 0 {
		return common.ErrBookNotFound
	}
	return nil
}

// DeleteReview removes the user's review. When nothing was deleted it tells
// a missing book apart from a missing review.
func (r *CatalogSQLite) DeleteReview(ctx context.Context, isbn, username string) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, isbn, username)
	if err != nil {
		return fmt.Errorf("delete review %q/%q: %w", isbn, username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for review %q/%q: %w", isbn, username, err)
	}
	if n > 0 {
		return nil
	}

	var one int
	err = r.db.QueryRowContext(ctx, bookExistsSQL, isbn).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrBookNotFound
	case err != nil:
		return fmt.Errorf("select book %q: %w", isbn, err)
	default:
		return common.ErrReviewNotFound
	}
}
