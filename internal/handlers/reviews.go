package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// reviewRequest is the PUT body. The key must be present; an empty string is a valid review.
type reviewRequest struct {
	Review *string `json:"review" binding:"required" example:"A timeless classic."`
}

// @Summary      Add or modify the caller's review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        isbn  path      string         true  "ISBN key"
// @Param        body  body      reviewRequest  true  "Review payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/review/{isbn} [put]
// @Security     BearerAuth
func (h *Handler) putReview(c *gin.Context) {
	isbn := c.Param("isbn")
	username := currentUser(c)

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow ?review= for clients that send the text as a query parameter.
		q, ok := c.GetQuery("review")
		if !ok {
			h.logAndJSONError(c, http.StatusBadRequest, errInvalidBodyPref+"review is required",
				"review_bad_request_body", err, "isbn", isbn, "username", username)
			return
		}
		req.Review = &q
	}

	if err := h.services.AddOrModifyReview(c.Request.Context(), isbn, username, *req.Review); err != nil {
		h.respondError(c, err, "review_put_failed", "isbn", isbn, "username", username)
		return
	}

	if h.log != nil {
		h.log.Infow("review_set", "isbn", isbn, "username", username)
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Review for %s successfully added/modified", isbn)})
}

// @Summary      Delete the caller's review
// @Tags         reviews
// @Produce      json
// @Param        isbn  path      string  true  "ISBN key"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/review/{isbn} [delete]
// @Security     BearerAuth
func (h *Handler) deleteReview(c *gin.Context) {
	isbn := c.Param("isbn")
	username := currentUser(c)

	if err := h.services.DeleteReview(c.Request.Context(), isbn, username); err != nil {
		h.respondError(c, err, "review_delete_failed", "isbn", isbn, "username", username)
		return
	}

	if h.log != nil {
		h.log.Infow("review_deleted", "isbn", isbn, "username", username)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgReviewDeleted})
}
