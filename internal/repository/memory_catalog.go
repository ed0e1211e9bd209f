package repository

import (
	"context"
	"sync"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
)

// MemoryCatalog guards the ISBN index with an RWMutex and each book's
// review map with its own mutex, so writers on different books never contend.
type MemoryCatalog struct {
	mu    sync.RWMutex
	books map[string]*bookEntry
}

type bookEntry struct {
	mu   sync.Mutex
	book models.Book
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{books: make(map[string]*bookEntry)}
}

var _ Catalog = (*MemoryCatalog)(nil)

// Load inserts or replaces the given books.
func (c *MemoryCatalog) Load(_ context.Context, books []models.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range books {
		c.books[b.ISBN] = &bookEntry{book: b.Clone()}
	}
	return nil
}

func (c *MemoryCatalog) List(_ context.Context) ([]models.Book, error) {
	c.mu.RLock()
	entries := make([]*bookEntry, 0, len(c.books))
	for _, e := range c.books {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	out := make([]models.Book, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	models.SortBooks(out)
	return out, nil
}

func (c *MemoryCatalog) Get(_ context.Context, isbn string) (models.Book, error) {
	e, ok := c.entry(isbn)
	if !ok {
		return models.Book{}, common.ErrBookNotFound
	}
	return e.snapshot(), nil
}

// PutReview sets reviews[username], replacing any earlier review by that user.
func (c *MemoryCatalog) PutReview(_ context.Context, isbn, username, review string) error {
	e, ok := c.entry(isbn)
	if !ok {
		return common.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.book.Reviews == nil {
		e.book.Reviews = make(map[string]string)
	}
	e.book.Reviews[username] = review
	return nil
}

func (c *MemoryCatalog) DeleteReview(_ context.Context, isbn, username string) error {
	e, ok := c.entry(isbn)
	if !ok {
		return common.ErrBookNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.book.Reviews[username]; !exists {
		return common.ErrReviewNotFound
	}
	delete(e.book.Reviews, username)
	return nil
}

func (c *MemoryCatalog) entry(isbn string) (*bookEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.books[isbn]
	return e, ok
}

func (e *bookEntry) snapshot() models.Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Clone()
}
