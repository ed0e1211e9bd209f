package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"book_catalog/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type reviewsFrame struct {
	ISBN    string            `json:"isbn"`
	Reviews map[string]string `json:"reviews"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Stream reviews of a book
// @Description  Upgrades to WebSocket and pushes a reviews frame (isbn and reviews) now and every interval.
// @Tags         reviews
// @Param        isbn         path   string  true   "ISBN key"
// @Param        interval     query  string  false  "Go duration, max 10s"  example(2s)
// @Param        interval_ms  query  int     false  "Milliseconds, max 10000"
// @Success      101
// @Failure      404  {object}  map[string]string
// @Router       /ws/review/{isbn} [get]
func (h *Handler) wsReviews(c *gin.Context) {
	isbn := c.Param("isbn")
	interval := h.parseInterval(c)

	// Reject unknown books before the upgrade so clients get a plain 404.
	if _, err := h.services.BookReviews(c.Request.Context(), isbn); err != nil {
		h.respondError(c, err, "ws_book_lookup_failed", "isbn", isbn)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendReviews(ctx, conn, isbn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "isbn", isbn, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendReviews(ctx, conn, isbn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "isbn", isbn, "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: sendReviews writes the current review map. A book that disappears
// mid-stream gets an error frame before the connection closes.
func (h *Handler) sendReviews(ctx context.Context, conn *websocket.Conn, isbn string) error {
	reviews, err := h.services.BookReviews(ctx, isbn)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_reviews_failed", "isbn", isbn, "err", err)
		}
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: common.PublicMessage(err)})
		return err
	}
	return conn.WriteJSON(wsEnvelope{Type: "reviews", Data: reviewsFrame{ISBN: isbn, Reviews: reviews}})
}
