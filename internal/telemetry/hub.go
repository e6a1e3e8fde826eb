package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ProgressEvent is one progress update of a running backtest, pushed to all
// connected websocket clients.
type ProgressEvent struct {
	RunID      string  `json:"run_id"`
	Policy     string  `json:"policy"`
	Step       int     `json:"step"`
	TotalSteps int     `json:"total_steps"`
	TotalAsset float64 `json:"total_asset"`
}

// Hub fans progress messages out to websocket subscribers.
type Hub struct {
	log       *zap.Logger
	lock      sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:       log,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 64),
	}
}

// Run pumps broadcast messages to clients until the broadcast channel is
// closed. Run in its own goroutine.
func (h *Hub) Run() {
	for message := range h.broadcast {
		h.lock.Lock()
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.lock.Unlock()
	}
}

// Publish serializes and broadcasts a progress event. Drops the event when
// the broadcast buffer is full rather than stalling the backtest.
func (h *Hub) Publish(ev ProgressEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Debug("progress event dropped, broadcast buffer full")
	}
}

// Handler upgrades an HTTP request to a websocket subscription.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		h.lock.Lock()
		h.clients[conn] = true
		h.lock.Unlock()
	}
}
