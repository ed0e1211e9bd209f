package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	gotFrom     time.Time
	gotTo       time.Time
	gotType     string
	gotUsername string

	events []models.ActivityEvent
	err    error

	calls int
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ, username string) ([]models.ActivityEvent, error) {
	f.calls++
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	f.gotUsername = username
	return f.events, f.err
}

func (f *fakeEventRepo) Append(context.Context, models.ActivityEvent) error { return nil }

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(time.FixedZone("UTC+3", 3*3600), 2025, time.August, 1, 12, 34, 56),
			want: func(out time.Time) bool {
				exp := time.Date(2025, time.August, 1, 9, 34, 56, 0, time.UTC)
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

func Test_normalizeEventType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in  string
		exp string
	}{
		{in: "", exp: ""},
		{in: "  REVIEW_SET ", exp: "REVIEW_SET"},
		{in: "user_logged_in", exp: "USER_LOGGED_IN"},
	}
	for _, c := range cases {
		if got := normalizeEventType(c.in); got != c.exp {
			t.Fatalf("normalizeEventType(%q) = %q; want %q", c.in, got, c.exp)
		}
	}
}

func TestActivityService_ListActivity_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{events: []models.ActivityEvent{{EventID: "1"}}}
	svc := NewActivityService(frepo)

	fromLocal := mustTimeIn(time.FixedZone("UTC+5", 5*3600), 2025, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(time.FixedZone("UTC-2", -2*3600), 2025, time.October, 1, 12, 30, 0)

	out, err := svc.ListActivity(context.Background(), LogFilter{
		From:     fromLocal,
		To:       toLocal,
		Type:     "  review_set ",
		Username: " alice ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}
	if frepo.calls != 1 {
		t.Fatalf("repo List should be called once, got %d", frepo.calls)
	}

	wantFrom := time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC)
	if !frepo.gotFrom.Equal(wantFrom) {
		t.Fatalf("repo gotFrom=%v; want %v", frepo.gotFrom, wantFrom)
	}
	if !frepo.gotTo.Equal(wantTo) {
		t.Fatalf("repo gotTo=%v; want %v", frepo.gotTo, wantTo)
	}
	if frepo.gotType != models.EventReviewSet {
		t.Fatalf("repo gotType=%q; want %q", frepo.gotType, models.EventReviewSet)
	}
	if frepo.gotUsername != "alice" {
		t.Fatalf("repo gotUsername=%q; want alice", frepo.gotUsername)
	}
}

func TestActivityService_ListActivity_ValidationError(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	svc := NewActivityService(frepo)

	_, err := svc.ListActivity(context.Background(), LogFilter{
		From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called on validation error, calls=%d", frepo.calls)
	}
}

func TestActivityService_ListActivity_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{err: errors.New("db down")}
	svc := NewActivityService(frepo)

	_, err := svc.ListActivity(context.Background(), LogFilter{})
	if !errors.Is(err, frepo.err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
}

func TestService_ScenarioRecordsEventsInOrder(t *testing.T) {
	ctx := context.Background()
	repos := newSeededRepos(t)
	svc := NewService(repos, AuthConfig{Secret: "access", TokenTTL: time.Hour})

	if err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.AddOrModifyReview(ctx, "123", "alice", "great book"); err != nil {
		t.Fatalf("review: %v", err)
	}
	if err := svc.DeleteReview(ctx, "123", "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	events, err := svc.ListActivity(ctx, LogFilter{Username: "alice"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{models.EventUserRegistered, models.EventUserLoggedIn, models.EventReviewSet, models.EventReviewDeleted}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), events)
	}
	for i, typ := range want {
		if events[i].Type != typ {
			t.Fatalf("event %d: got %s, want %s", i, events[i].Type, typ)
		}
	}
}
