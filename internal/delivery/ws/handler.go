package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vogiaan1904/seatqueue/internal/notify"
	"github.com/vogiaan1904/seatqueue/pkg/logger"
)

const writeWait = 5 * time.Second

// SessionRegistry is the part of notify.Registry the socket endpoint writes to.
type SessionRegistry interface {
	Register(customerID int64, s notify.Session) string
	Unregister(customerID int64, sessionID string)
}

type bindMessage struct {
	CustomerID int64 `json:"customerId"`
}

type eventFrame struct {
	Event string `json:"event"`
}

// Handler upgrades GET /ws and binds each connection to the customer id the
// client announces. A client may rebind by sending another id.
type Handler struct {
	reg      SessionRegistry
	l        logger.Logger
	upgrader websocket.Upgrader
}

func NewHandler(reg SessionRegistry, l logger.Logger) *Handler {
	return &Handler{
		reg: reg,
		l:   l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Warnf(ctx, "delivery.ws.ServeHTTP: %v", err)
		return
	}

	s := &session{conn: conn}
	defer conn.Close()

	h.l.Debug(ctx, "Socket connected", "remote_addr", r.RemoteAddr)
	h.readLoop(ctx, s)
}

func (h *Handler) readLoop(ctx context.Context, s *session) {
	var (
		boundTo   int64
		sessionID string
	)
	defer func() {
		if sessionID != "" {
			h.reg.Unregister(boundTo, sessionID)
		}
		h.l.Debug(ctx, "Socket disconnected", "customer_id", boundTo)
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.l.Warnf(ctx, "delivery.ws.readLoop: %v", err)
			}
			return
		}

		var msg bindMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.CustomerID <= 0 {
			h.l.Debug(ctx, "Ignoring socket message", "payload", string(data))
			continue
		}

		if sessionID != "" {
			h.reg.Unregister(boundTo, sessionID)
		}
		boundTo = msg.CustomerID
		sessionID = h.reg.Register(boundTo, s)

		h.l.Info(ctx, "Socket bound to customer",
			"customer_id", boundTo,
			"session_id", sessionID,
		)
	}
}

// session serialises writes; gorilla connections allow one concurrent writer.
type session struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *session) Send(event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(eventFrame{Event: event})
}
