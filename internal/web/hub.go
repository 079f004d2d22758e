package web

import (
	"log"
	"net/http"
	"reflect"
	"sync"

	"github.com/gorilla/websocket"

	"trivia-app/internal/scores"
)

// hub fans scoreboard views out to websocket subscribers. All writes go
// through mu, since a connection allows a single concurrent writer.
type hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    *scores.View
}

func newHub(allowedOrigins []string) *hub {
	return &hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *hub) add(conn *websocket.Conn, view scores.View) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := conn.WriteJSON(view); err != nil {
		return err
	}
	h.clients[conn] = true
	return nil
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// broadcast pushes view to every subscriber unless it equals the last one
// sent.
func (h *hub) broadcast(view scores.View) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.last != nil && reflect.DeepEqual(*h.last, view) {
		return
	}
	h.last = &view

	for client := range h.clients {
		if err := client.WriteJSON(view); err != nil {
			log.Printf("[web] websocket write: %v", err)
			delete(h.clients, client)
			client.Close()
		}
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, candidate := range allowed {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}
