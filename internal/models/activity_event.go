package models

import "time"

const (
	EventUserRegistered = "USER_REGISTERED"
	EventUserLoggedIn   = "USER_LOGGED_IN"
	EventReviewSet      = "REVIEW_SET"
	EventReviewDeleted  = "REVIEW_DELETED"
)

// ActivityEvent is a single audit log entry.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // USER_REGISTERED | USER_LOGGED_IN | REVIEW_SET | REVIEW_DELETED
	Username    string    `json:"username"`
	ISBN        string    `json:"isbn,omitempty"`
	Description string    `json:"description"`
}
