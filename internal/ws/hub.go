package ws

import (
	"encoding/json"
	"sync"

	"magazine-pro-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// ChangeEvent mirrors the per-table change notification a hosted realtime
// store would deliver: clients resubscribe on connect and refresh their
// local mirror whenever an event for a table they watch arrives.
type ChangeEvent struct {
	Table   string      `json:"table"`
	Event   string      `json:"event"` // INSERT, UPDATE, DELETE
	Payload interface{} `json:"payload,omitempty"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

// Publish broadcasts a row-change event to every connected client. Safe to
// call on a nil hub (tests wire services without one).
func (h *Hub) Publish(table, event string, payload interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(ChangeEvent{Table: table, Event: event, Payload: payload})
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		// Slow consumer backlog; drop rather than block the mutation path.
		logger.Logger.Warn().Str("table", table).Msg("change feed backlog, event dropped")
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Logger.Info().Msg("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
