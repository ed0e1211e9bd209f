package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"book_catalog/internal/common"
	"book_catalog/internal/logger"
	"book_catalog/internal/models"
	"book_catalog/internal/repository"
)

type ActivityService struct {
	eventRepo repository.EventRepo
}

func NewActivityService(eventRepo repository.EventRepo) *ActivityService {
	return &ActivityService{eventRepo: eventRepo}
}

var errInvalidTimeRange = fmt.Errorf("%w: from must be <= to", common.ErrValidation)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From:     normalizeToUTC(f.From),
		To:       normalizeToUTC(f.To),
		Type:     normalizeEventType(f.Type),
		Username: strings.TrimSpace(f.Username),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	return out, nil
}

func (s *ActivityService) ListActivity(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, nf.From, nf.To, nf.Type, nf.Username)
}

// eventRecorder appends activity events after a successful change.
// Append failures are logged and never fail the change itself.
type eventRecorder struct {
	repo repository.EventRepo
	log  *logger.Logger
}

func (r *eventRecorder) record(ctx context.Context, typ, username, isbn, desc string) {
	if r.repo == nil {
		return
	}
	err := r.repo.Append(ctx, models.ActivityEvent{
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Username:    username,
		ISBN:        isbn,
		Description: desc,
	})
	if err != nil && r.log != nil {
		r.log.Errorw("activity_append_failed", "type", typ, "username", username, "isbn", isbn, "err", err)
	}
}
