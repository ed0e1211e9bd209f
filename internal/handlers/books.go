package handlers

import (
	"errors"
	"net/http"

	"book_catalog/internal/common"
	"book_catalog/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK      = "ok"
	statusSuccess = "success"
	statusError   = "error"
)

// byISBN renders a book list as the ISBN-keyed object clients expect from "/".
func byISBN(books []models.Book) map[string]models.Book {
	out := make(map[string]models.Book, len(books))
	for _, b := range books {
		out[b.ISBN] = b
	}
	return out
}

// notFoundMessage picks the 404 text for a lookup; other errors keep their mapping.
func notFoundMessage(err error, msg string) string {
	if errors.Is(err, common.ErrBookNotFound) {
		return msg
	}
	return messageFor(err)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List all books
// @Tags         books
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "books keyed by ISBN"
// @Failure      500  {object}  map[string]string
// @Router       / [get]
func (h *Handler) listBooks(c *gin.Context) {
	books, err := h.services.ListBooks(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "books_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": byISBN(books)})
}

// @Summary      Get a book by ISBN
// @Tags         books
// @Produce      json
// @Param        isbn  path      string  true  "ISBN key"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Router       /isbn/{isbn} [get]
func (h *Handler) bookByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	book, err := h.services.BookByISBN(c.Request.Context(), isbn)
	if err != nil {
		h.respondError(c, err, "books_get_failed", "isbn", isbn)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// @Summary      Find books by author
// @Description  Case-insensitive exact match on the author name.
// @Tags         books
// @Produce      json
// @Param        author  path      string  true  "Author name"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]string
// @Router       /author/{author} [get]
func (h *Handler) booksByAuthor(c *gin.Context) {
	author := c.Param("author")
	books, err := h.services.BooksByAuthor(c.Request.Context(), author)
	if err != nil {
		h.logAndJSONError(c, common.HTTPStatusFromError(err), notFoundMessage(err, msgNoBooksByAuthor),
			"books_by_author_failed", err, "author", author)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// @Summary      Find books by title
// @Description  Case-insensitive substring match on the title.
// @Tags         books
// @Produce      json
// @Param        title  path      string  true  "Title fragment"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]string
// @Router       /title/{title} [get]
func (h *Handler) booksByTitle(c *gin.Context) {
	title := c.Param("title")
	books, err := h.services.BooksByTitle(c.Request.Context(), title)
	if err != nil {
		h.logAndJSONError(c, common.HTTPStatusFromError(err), notFoundMessage(err, msgNoBooksByTitle),
			"books_by_title_failed", err, "title", title)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// @Summary      Get reviews of a book
// @Tags         books
// @Produce      json
// @Param        isbn  path      string  true  "ISBN key"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Router       /review/{isbn} [get]
func (h *Handler) bookReviews(c *gin.Context) {
	isbn := c.Param("isbn")
	reviews, err := h.services.BookReviews(c.Request.Context(), isbn)
	if err != nil {
		h.respondError(c, err, "books_reviews_failed", "isbn", isbn)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// asyncError writes the {status, message} envelope used by the async routes.
func (h *Handler) asyncError(c *gin.Context, err error, msg, logKey string, kv ...interface{}) {
	code := common.HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		msg = msgInternal
	}
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Infow(logKey, fields...)
	}
	c.JSON(code, gin.H{"status": statusError, "message": msg})
}

// @Summary      List all books (status envelope)
// @Tags         books-async
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /async/books [get]
func (h *Handler) asyncListBooks(c *gin.Context) {
	books, err := h.services.ListBooks(c.Request.Context())
	if err != nil {
		h.asyncError(c, err, msgInternal, "books_async_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "books": byISBN(books)})
}

// @Summary      Get a book by ISBN (status envelope)
// @Tags         books-async
// @Produce      json
// @Param        isbn  path      string  true  "ISBN key"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Router       /promise/isbn/{isbn} [get]
func (h *Handler) promiseBookByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	book, err := h.services.BookByISBN(c.Request.Context(), isbn)
	if err != nil {
		h.asyncError(c, err, notFoundMessage(err, msgBookNotFound), "books_async_get_failed", "isbn", isbn)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "book": book})
}

// @Summary      Find books by author (status envelope)
// @Tags         books-async
// @Produce      json
// @Param        author  path      string  true  "Author name"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]string
// @Router       /async/author/{author} [get]
func (h *Handler) asyncBooksByAuthor(c *gin.Context) {
	author := c.Param("author")
	books, err := h.services.BooksByAuthor(c.Request.Context(), author)
	if err != nil {
		h.asyncError(c, err, notFoundMessage(err, msgNoBooksByAuthor), "books_async_by_author_failed", "author", author)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "books": books})
}

// @Summary      Find books by title (status envelope)
// @Tags         books-async
// @Produce      json
// @Param        title  path      string  true  "Title fragment"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]string
// @Router       /async/title/{title} [get]
func (h *Handler) asyncBooksByTitle(c *gin.Context) {
	title := c.Param("title")
	books, err := h.services.BooksByTitle(c.Request.Context(), title)
	if err != nil {
		h.asyncError(c, err, notFoundMessage(err, msgNoBooksByTitle), "books_async_by_title_failed", "title", title)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "books": books})
}
