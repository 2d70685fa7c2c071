// Package websocket implements a Hub for pushing live leaderboard updates.
// Players standing on the course keep the leaderboard open; when anyone saves scores
// the server recomputes that game's board and pushes it to every open connection
// watching the game, so nobody has to refresh.
package websocket

import (
	"context"
	"sync"
)

// Client is a single connected viewer.
type Client struct {
	GameID string      // Which game this client is watching
	Send   chan []byte // Outgoing messages; the Hub writes here, the connection's writer drains it
}

// NewClient returns a client for gameID with a small send buffer.
func NewClient(gameID string) *Client {
	return &Client{GameID: gameID, Send: make(chan []byte, 16)}
}

// Message is a payload for everyone watching one game.
type Message struct {
	GameID string
	Data   []byte
}

// Hub tracks connected clients grouped by game. All changes to the client map go
// through Run's goroutine via channels; mu only guards reads from Count.
type Hub struct {
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates an idle Hub. Start it with Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's event loop. It must be called in a goroutine ("go hub.Run(ctx)")
// and returns when ctx is cancelled, closing every client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for gameID, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.clients, gameID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.GameID] == nil {
				h.clients[client.GameID] = make(map[*Client]bool)
			}
			h.clients[client.GameID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.GameID] {
				select {
				case client.Send <- msg.Data:
				default:
					// Too slow to keep up: drop the client rather than stall everyone else.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove deletes client and closes its Send channel. Caller holds mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.GameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.GameID)
	}
}

// BroadcastToGame queues data for every client watching gameID.
func (h *Hub) BroadcastToGame(gameID string, data []byte) {
	h.broadcast <- &Message{GameID: gameID, Data: data}
}

// Register starts delivering broadcasts for the client's game to it.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister stops delivery and closes the client's Send channel.
// Unregistering a client the Hub already dropped is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Count returns how many clients are watching gameID.
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}
