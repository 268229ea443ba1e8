package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hueweave/hueweave/internal/events"
	"github.com/hueweave/hueweave/internal/infrastructure/logging"
	"github.com/hueweave/hueweave/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // server binds to loopback only
	},
}

// outBuffer bounds per-connection backlog. A client that cannot keep
// up with the event stream is disconnected rather than blocking the
// dispatch path.
const outBuffer = 64

// Message is one event on the wire.
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Handler streams bus events to WebSocket clients.
type Handler struct {
	log     *logging.Logger
	bus     *events.Bus
	metrics *monitoring.Metrics
}

// NewHandler creates a WebSocket handler over the event bus.
func NewHandler(bus *events.Bus, log *logging.Logger) *Handler {
	return &Handler{
		log: log.Component("ws"),
		bus: bus,
	}
}

// WithMetrics adds metrics tracking to the handler.
func (h *Handler) WithMetrics(m *monitoring.Metrics) *Handler {
	h.metrics = m
	return h
}

// HandleConnection upgrades the request and forwards every bus event
// to the client until it disconnects. All writes happen on this
// goroutine; the read loop only signals.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	remote := conn.RemoteAddr().String()
	h.log.Info("client connected", zap.String("remote", remote))

	var (
		out      = make(chan Message, outBuffer)
		slow     = make(chan struct{})
		slowOnce sync.Once
	)
	unsub := h.bus.Subscribe(func(ev events.Event) {
		msg := Message{
			Type:      string(ev.Type),
			Payload:   ev.Payload,
			Timestamp: time.Now().UnixMilli(),
		}
		select {
		case out <- msg:
		default:
			slowOnce.Do(func() { close(slow) })
		}
	})
	defer unsub()

	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go h.readLoop(conn, pings, done)

	h.send(conn, Message{Type: "connected", Timestamp: time.Now().UnixMilli()})

	for {
		select {
		case msg := <-out:
			if err := h.send(conn, msg); err != nil {
				return
			}
		case <-pings:
			if err := h.send(conn, Message{Type: "pong", Timestamp: time.Now().UnixMilli()}); err != nil {
				return
			}
		case <-slow:
			h.log.Warn("client too slow, disconnecting", zap.String("remote", remote))
			return
		case <-done:
			h.log.Info("client disconnected", zap.String("remote", remote))
			return
		}
	}
}

// readLoop consumes client frames. The stream is one-directional apart
// from pings, so anything else is ignored.
func (h *Handler) readLoop(conn *websocket.Conn, pings chan<- struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}
		if msg.Type == "ping" {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg Message) error {
	if err := conn.WriteJSON(msg); err != nil {
		h.log.Debug("websocket write failed", zap.Error(err))
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", msg.Type)
	}
	return nil
}
