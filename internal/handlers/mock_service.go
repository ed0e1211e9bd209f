package handlers

import (
	"context"
	"net/http"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
	"book_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerErr error
	loginToken  string
	loginErr    error
	parseUser   string
	parseErr    error
	// tokens, when set, maps accepted tokens to usernames; others fail
	tokens      map[string]string

	lastRegisterUsername string
	lastRegisterPassword string
	lastLoginUsername    string
	lastLoginPassword    string
	lastParseToken       string
}

func (m *mockAuth) Register(_ context.Context, username, password string) error {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	if m.tokens != nil {
		if u, ok := m.tokens[token]; ok {
			return u, nil
		}
		return "", common.ErrUnauthorized
	}
	return m.parseUser, m.parseErr
}

type mockReviews struct {
	putErr    error
	deleteErr error

	lastISBN     string
	lastUsername string
	lastReview   string
	putCalls     int
	deleteCalls  int
}

func (m *mockReviews) AddOrModifyReview(_ context.Context, isbn, username, review string) error {
	m.putCalls++
	m.lastISBN, m.lastUsername, m.lastReview = isbn, username, review
	return m.putErr
}

func (m *mockReviews) DeleteReview(_ context.Context, isbn, username string) error {
	m.deleteCalls++
	m.lastISBN, m.lastUsername = isbn, username
	return m.deleteErr
}

type mockCatalog struct {
	books   []models.Book
	book    models.Book
	reviews map[string]string
	err     error

	lastQuery string
}

func (m *mockCatalog) ListBooks(context.Context) ([]models.Book, error) {
	return m.books, m.err
}

func (m *mockCatalog) BookByISBN(_ context.Context, isbn string) (models.Book, error) {
	m.lastQuery = isbn
	return m.book, m.err
}

func (m *mockCatalog) BooksByAuthor(_ context.Context, author string) ([]models.Book, error) {
	m.lastQuery = author
	return m.books, m.err
}

func (m *mockCatalog) BooksByTitle(_ context.Context, title string) ([]models.Book, error) {
	m.lastQuery = title
	return m.books, m.err
}

func (m *mockCatalog) BookReviews(_ context.Context, isbn string) (map[string]string, error) {
	m.lastQuery = isbn
	return m.reviews, m.err
}

type mockActivity struct {
	resp       []models.ActivityEvent
	err        error
	lastFilter service.LogFilter
	calls      int
}

func (m *mockActivity) ListActivity(_ context.Context, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
