package handlers

import (
	"net/http"
	"time"

	"book_catalog/internal/logger"
	"book_catalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultCookieName = "session"
	requestIDHeader   = "X-Request-ID"
)

// SessionConfig controls the cookie that carries the access token.
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	session  SessionConfig
}

type Option func(*Handler)

// WithSession overrides the session cookie settings.
func WithSession(cfg SessionConfig) Option {
	return func(h *Handler) {
		if cfg.CookieName != "" {
			h.session.CookieName = cfg.CookieName
		}
		if cfg.MaxAge > 0 {
			h.session.MaxAge = cfg.MaxAge
		}
		h.session.Secure = cfg.Secure
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		log:      log,
		session:  SessionConfig{CookieName: defaultCookieName, MaxAge: time.Hour},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerSessionRoutes(router)
	h.registerCatalogRoutes(router)

	// Protected endpoints
	h.registerAuthRoutes(router)

	// Review stream (HTTP upgrade) on the same port
	router.GET("/ws/review/:isbn", h.wsReviews)

	return router
}

func (h *Handler) registerSessionRoutes(r *gin.Engine) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
}

func (h *Handler) registerCatalogRoutes(r *gin.Engine) {
	r.GET("/", h.listBooks)
	r.GET("/isbn/:isbn", h.bookByISBN)
	r.GET("/author/:author", h.booksByAuthor)
	r.GET("/title/:title", h.booksByTitle)
	r.GET("/review/:isbn", h.bookReviews)

	r.GET("/async/books", h.asyncListBooks)
	r.GET("/promise/isbn/:isbn", h.promiseBookByISBN)
	r.GET("/async/author/:author", h.asyncBooksByAuthor)
	r.GET("/async/title/:title", h.asyncBooksByTitle)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth", h.sessionMiddleware)
	{
		auth.PUT("/review/:isbn", h.putReview)
		auth.DELETE("/review/:isbn", h.deleteReview)
		auth.GET("/activity", h.getActivity)
	}
}

// requestLogger tags every request with an id and logs its outcome.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	reqID := c.GetHeader(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Header(requestIDHeader, reqID)

	c.Next()

	if h.log == nil {
		return
	}
	status := c.Writer.Status()
	fields := []interface{}{
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"latency", time.Since(start),
	}
	if status >= http.StatusInternalServerError {
		h.log.Errorw("http_request", fields...)
		return
	}
	h.log.Infow("http_request", fields...)
}
