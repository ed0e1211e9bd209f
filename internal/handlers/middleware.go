package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUsername = "username"

// sessionMiddleware resolves the caller from the session cookie or a Bearer
// header and stores the username in the Gin context. A cookie that fails to
// parse does not shadow a Bearer header sent with the same request.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	if v, err := c.Cookie(h.session.CookieName); err == nil && v != "" {
		username, err := h.services.ParseToken(v)
		if err == nil {
			h.authenticate(c, username)
			return
		}
		if c.GetHeader("Authorization") == "" {
			h.rejectToken(c, "cookie", err)
			return
		}
	}

	token, ok := bearerToken(c)
	if !ok {
		return
	}
	username, err := h.services.ParseToken(token)
	if err != nil {
		h.rejectToken(c, "bearer", err)
		return
	}
	h.authenticate(c, username)
}

func (h *Handler) authenticate(c *gin.Context, username string) {
	// store in Gin context
	c.Set(ctxUsername, username)
	c.Next()
}

func (h *Handler) rejectToken(c *gin.Context, source string, err error) {
	if h.log != nil {
		h.log.Infow("auth_token_rejected", "path", c.FullPath(), "source", source, "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken})
}

// bearerToken extracts the token from the Authorization header. It aborts
// with 401 and returns false when the header is missing or malformed.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgNotLoggedIn})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgBadAuthHeader})
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxUsername)
}
