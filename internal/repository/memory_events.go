package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"book_catalog/internal/models"

	"github.com/google/uuid"
)

type MemoryEvents struct {
	mu     sync.RWMutex
	events []models.ActivityEvent
}

func NewMemoryEvents() *MemoryEvents { return &MemoryEvents{} }

var _ EventRepo = (*MemoryEvents)(nil)

// Append stores e, filling EventID and OccurredAt when empty.
func (r *MemoryEvents) Append(_ context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = strings.ToUpper(strings.TrimSpace(e.Type))

	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// List returns events within [from, to] (zero bounds are open) matching typ
// and username when non-empty, oldest first.
func (r *MemoryEvents) List(_ context.Context, from, to time.Time, typ, username string) ([]models.ActivityEvent, error) {
	typ = strings.ToUpper(strings.TrimSpace(typ))

	r.mu.RLock()
	out := make([]models.ActivityEvent, 0, len(r.events))
	for _, e := range r.events {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		if username != "" && e.Username != username {
			continue
		}
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}
