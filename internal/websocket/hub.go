package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Client merepresentasikan satu koneksi WebSocket milik seorang user.
type Client struct {
	UserID int
	Conn   *websocket.Conn
	Mu     sync.Mutex
}

// Event adalah pesan yang dikirim ke semua koneksi milik satu user.
type Event struct {
	UserID  int
	Payload []byte
}

// Hub mengelola koneksi WebSocket dan fan-out notifikasi per user.
type Hub struct {
	Clients    map[*Client]bool
	Notify     chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Notify:     make(chan Event, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Push mengantrikan payload untuk semua koneksi milik user tersebut.
func (h *Hub) Push(userID int, payload []byte) {
	h.Notify <- Event{UserID: userID, Payload: payload}
}

// Run menjalankan loop Hub untuk mengelola register, unregister, dan notify.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case event := <-h.Notify:
			for client := range h.Clients {
				if client.UserID != event.UserID {
					continue
				}
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, event.Payload)
				client.Mu.Unlock()
				if err != nil {
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}
