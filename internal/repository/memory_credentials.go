package repository

import (
	"context"
	"sync"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
)

// MemoryCredentials keeps users in a map. One lock covers Create and Verify
// so two concurrent registrations of the same name cannot both succeed.
type MemoryCredentials struct {
	mu    sync.RWMutex
	users map[string]string
}

func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{users: make(map[string]string)}
}

var _ Credentials = (*MemoryCredentials)(nil)

func (r *MemoryCredentials) Create(_ context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Username]; exists {
		return common.ErrDuplicateUser
	}
	r.users[u.Username] = u.Password
	return nil
}

func (r *MemoryCredentials) Verify(_ context.Context, username, password string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.users[username]
	return ok && stored == password, nil
}
