package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"book_catalog/internal/models"

	"github.com/google/uuid"
)

// sqliteTimeLayout is fixed width so TEXT comparison matches time order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

const (
	insertEventSQL = `
		INSERT INTO activity_events (id, occurred_at, type, username, isbn, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, occurred_at, type, username, isbn, message FROM activity_events`
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

func formatTime(t time.Time) string { return t.UTC().Format(sqliteTimeLayout) }

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *EventSQLite) Append(ctx context.Context, e models.ActivityEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	var isbn *string
	if e.ISBN != "" {
		isbn = &e.ISBN
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		formatTime(e.OccurredAt),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Username,
		isbn,
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.EventID, err)
	}
	return nil
}

// List returns events filtered by [from, to] (inclusive), type and username, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ, username string) ([]models.ActivityEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatTime(to))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if username != "" {
		conds = append(conds, "username = ?")
		args = append(args, username)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ActivityEvent, 0, 64)
	for rows.Next() {
		var (
			ev       models.ActivityEvent
			occurred string
			isbn     sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &occurred, &ev.Type, &ev.Username, &isbn, &ev.Description); err != nil {
			return nil, err
		}
		ev.OccurredAt, err = time.ParseInLocation(sqliteTimeLayout, occurred, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at of %s: %w", ev.EventID, err)
		}
		ev.ISBN = isbn.String
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
