package handlers

import (
	"errors"
	"net/http"

	"book_catalog/internal/common"

	"github.com/gin-gonic/gin"
)

// Response messages shown to API clients.
const (
	msgMissingFields      = "Username and password required"
	msgInvalidUsername    = "Invalid username"
	msgDuplicateUser      = "Username already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgNotLoggedIn        = "User not logged in"
	msgInvalidToken       = "Invalid or expired token"
	msgBadAuthHeader      = "Invalid Authorization header format"
	msgBookNotFound       = "Book not found"
	msgReviewNotFound     = "Review not found"
	msgNoBooksByAuthor    = "No books found for this author"
	msgNoBooksByTitle     = "No books found with this title"
	msgInternal           = "Internal server error"

	msgRegistered    = "User successfully registered"
	msgLoggedIn      = "User successfully logged in"
	msgLoggedOut     = "User successfully logged out"
	msgReviewDeleted = "Review successfully deleted"

	errInvalidBodyPref = "invalid body: "
)

// messageFor renders a domain error as a client-facing message.
func messageFor(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingFields):
		return msgMissingFields
	case errors.Is(err, common.ErrInvalidUsername):
		return msgInvalidUsername
	case errors.Is(err, common.ErrDuplicateUser):
		return msgDuplicateUser
	case errors.Is(err, common.ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, common.ErrUnauthorized):
		return msgNotLoggedIn
	case errors.Is(err, common.ErrBookNotFound):
		return msgBookNotFound
	case errors.Is(err, common.ErrReviewNotFound):
		return msgReviewNotFound
	default:
		return common.PublicMessage(err)
	}
}

// Centralized error logging and response. Server-side failures log at error
// level; client mistakes at info.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"message": userMsg})
}

// respondError maps err to a status and message and writes it.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code := common.HTTPStatusFromError(err)
	msg := messageFor(err)
	if code == http.StatusInternalServerError {
		msg = msgInternal
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
