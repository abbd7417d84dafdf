package ws

import (
	"encoding/json"
	"log"
	"sync"

	"go-forklift-catalog/internal/events"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/contrib/websocket"
)

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
		Broadcast:  make(chan []byte),
	}
}

// RelayBus forwards catalog invalidation events to connected clients as
// refresh hints. Delivery is at-least-once with no ordering guarantee;
// clients respond with a full re-fetch of the affected list. Product writes
// are broadcast by the catalog service itself (with actor info), so only
// content and full-refresh hints are relayed here.
func (h *Hub) RelayBus(bus EventBus.Bus) {
	bus.Subscribe(events.TopicContentChanged, func() {
		msg, _ := json.Marshal(map[string]interface{}{"type": "content_update"})
		h.Broadcast <- msg
	})
	bus.Subscribe(events.TopicRefreshAll, func() {
		msg, _ := json.Marshal(map[string]interface{}{"type": "refresh_all"})
		h.Broadcast <- msg
	})
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

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
