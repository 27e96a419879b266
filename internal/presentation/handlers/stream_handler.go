package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/domain/services"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/metrics"
)

const streamWriteTimeout = 10 * time.Second

// StreamMessage is sent to quote stream clients
type StreamMessage struct {
	Type    string                 `json:"type"` // quotes | error
	Request *entities.QuoteRequest `json:"request,omitempty"`
	Quotes  []entities.Quote       `json:"quotes,omitempty"`
	Best    *entities.Quote        `json:"best,omitempty"`
	At      *time.Time             `json:"at,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// StreamHandler pushes refreshed quotes over a WebSocket. Each message the
// client sends replaces the watched request; an empty inputAmount stops
// the refresh.
type StreamHandler struct {
	watcher  *services.QuoteWatcher
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewStreamHandler(watcher *services.QuoteWatcher, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		watcher: watcher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "stream").Logger(),
	}
}

// streamConn serialises writes; a write for a cancelled watch is dropped
type streamConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *streamConn) send(ctx context.Context, msg StreamMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return c.conn.WriteJSON(msg)
}

// Stream handles GET /api/v1/quotes/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Time{})

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := &streamConn{conn: conn}

	var (
		stopWatch context.CancelFunc
		watchDone chan struct{}
	)
	stop := func() {
		if stopWatch != nil {
			stopWatch()
			<-watchDone
			stopWatch, watchDone = nil, nil
		}
	}
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Msg("stream closed")
			}
			return
		}

		// The previous watch must be fully stopped before a new one starts
		stop()

		var req entities.QuoteRequest
		if err := json.Unmarshal(data, &req); err != nil {
			_ = sc.send(ctx, StreamMessage{Type: "error", Error: "invalid_body", Message: "message must be a JSON quote request"})
			continue
		}
		if req.InputAmount == "" {
			continue
		}

		watchCtx, watchCancel := context.WithCancel(ctx)
		done := make(chan struct{})
		stopWatch, watchDone = watchCancel, done

		go func() {
			defer close(done)
			err := h.watcher.Watch(watchCtx, req, func(u services.QuoteUpdate) {
				at := u.At
				_ = sc.send(watchCtx, StreamMessage{
					Type:    "quotes",
					Request: &u.Request,
					Quotes:  u.Quotes,
					Best:    u.Best,
					At:      &at,
				})
			})
			if err != nil && watchCtx.Err() == nil {
				_ = sc.send(watchCtx, streamError(err))
			}
		}()
	}
}

func streamError(err error) StreamMessage {
	code := "internal_error"
	switch {
	case errors.Is(err, entities.ErrMissingParams):
		code = "missing_params"
	case errors.Is(err, entities.ErrInvalidAmount):
		code = "invalid_amount"
	}
	return StreamMessage{Type: "error", Error: code, Message: err.Error()}
}
