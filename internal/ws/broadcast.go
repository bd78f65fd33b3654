package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mohammad-meeta/skaters/internal/progress"
)

// WSMessage is the envelope for every message pushed to clients.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const MsgSnapshot = "snapshot"

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}
	go c.writePump()
	return c
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Broadcaster pushes full state snapshots to connected WebSocket clients.
// The state tree is small and mutations are user-paced, so every change
// ships the whole snapshot; there is no delta protocol.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*client]bool)}
}

// AddClient registers conn and immediately sends it the given snapshot.
func (b *Broadcaster) AddClient(conn *websocket.Conn, snap *progress.Snapshot) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	if data, err := encodeSnapshot(snap); err == nil {
		select {
		case c.send <- data:
		default:
			// Client too slow, drop the snapshot.
		}
	}

	return c
}

func (b *Broadcaster) RemoveClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
	b.mu.Unlock()
}

// Broadcast sends snap to every connected client. Slow clients miss the
// update; they catch up on the next one.
func (b *Broadcaster) Broadcast(snap *progress.Snapshot) {
	data, err := encodeSnapshot(snap)
	if err != nil {
		log.Printf("Failed to encode snapshot: %v", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func encodeSnapshot(snap *progress.Snapshot) ([]byte, error) {
	return json.Marshal(WSMessage{Type: MsgSnapshot, Payload: snap})
}
