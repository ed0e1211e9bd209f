package service

import "time"

// LogFilter narrows activity history by time range, type and user.
type LogFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Type     string    // "", "USER_REGISTERED", "USER_LOGGED_IN", "REVIEW_SET", "REVIEW_DELETED"
	Username string
}
