package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Credentials interface at compile time.
var _ Credentials = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password) VALUES (?, ?) ON CONFLICT(username) DO NOTHING`
	selectPasswordByNameSQL = `SELECT password FROM users WHERE username = ?`
)

// Create inserts a new user. The UNIQUE constraint decides races: a losing
// insert affects no rows and is reported as a duplicate.
func (r *UserRepository) Create(ctx context.Context, u models.User) error {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.Password)
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %q: %w", u.Username, err)
	}
	if n == 0 {
		return common.ErrDuplicateUser
	}
	return nil
}

// Verify compares the stored password byte for byte.
func (r *UserRepository) Verify(ctx context.Context, username, password string) (bool, error) {
	var stored string
	err := r.db.QueryRowContext(ctx, selectPasswordByNameSQL, username).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select user %q: %w", username, err)
	}
	return stored == password, nil
}
