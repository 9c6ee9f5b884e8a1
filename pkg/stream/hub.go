package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/waedt/gbvideo/pkg/log"
)

// Hub fans a broadcast channel out to every connected Client, mirroring
// the teacher's web.hub register/unregister/broadcast loop.
type Hub struct {
	upgrader websocket.Upgrader

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	log log.Logger

	mu sync.Mutex
}

// NewHub creates a Hub and starts its broadcast loop in the background.
func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.New()
	}
	h := &Hub{
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		log:        logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// slow consumer: drop the frame rather than block the
					// PPU's frame-end path.
				}
			}
			h.mu.Unlock()
		}
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers
// the resulting Client, spawning its read/write pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("stream: upgrade failed: %v", err)
		return
	}

	c := newClient(h, conn, h.log)
	h.register <- c

	go c.WritePump()
	go c.ReadPump()
}

// send queues message for every currently connected client.
func (h *Hub) send(message []byte) {
	h.broadcast <- message
}

// ClientCount reports how many clients are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
