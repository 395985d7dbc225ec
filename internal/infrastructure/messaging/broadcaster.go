// Package messaging pushes live feedback updates to connected sysop
// dashboard clients over websockets.
package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/supportcentre/supportcentre-go/internal/domain/entities/feedback"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
)

// Client represents a single connected dashboard client.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// UpdatePayload is the message sent to dashboard clients on every vote or
// comment and on each periodic tick.
type UpdatePayload struct {
	Kind          string                     `json:"kind"` // "vote", "comment", or "snapshot"
	ResourceID    string                     `json:"resourceId,omitempty"`
	Feedback      map[string]feedback.Totals `json:"feedback"`
	ResourceCount int                        `json:"resourceCount"`
	TotalLikes    int64                      `json:"totalLikes"`
	TotalDislikes int64                      `json:"totalDislikes"`
	TotalComments int                        `json:"totalComments"`
	Timestamp     time.Time                  `json:"timestamp"`
}

// SnapshotFunc supplies the current feedback totals for broadcast.
type SnapshotFunc func() (map[string]feedback.Totals, error)

// Broadcaster manages connected clients and fan-out of feedback updates.
type Broadcaster struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	updates    chan UpdatePayload
	snapshot   SnapshotFunc
	interval   time.Duration
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewBroadcaster creates a broadcaster. The snapshot function is invoked on
// each periodic tick while at least one client is connected.
func NewBroadcaster(snapshot SnapshotFunc, interval time.Duration, logger *logging.ChanneledLogger) *Broadcaster {
	return &Broadcaster{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		updates:    make(chan UpdatePayload, 64),
		snapshot:   snapshot,
		interval:   interval,
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. Should be run as a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			count := len(b.clients)
			b.mu.Unlock()
			if b.logger != nil {
				b.logger.SysOp().Info("Dashboard client registered", "clients", count)
			}

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			count := len(b.clients)
			b.mu.Unlock()
			if b.logger != nil {
				b.logger.SysOp().Info("Dashboard client unregistered", "clients", count)
			}

		case payload := <-b.updates:
			b.send(payload)

		case <-ticker.C:
			b.broadcastSnapshot()
		}
	}
}

// Register queues a client for registration.
func (b *Broadcaster) Register(client *Client) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *Broadcaster) Unregister(client *Client) {
	b.unregister <- client
}

// Publish queues a feedback update for fan-out. Non-blocking; updates are
// dropped when the queue is saturated, the next tick resynchronizes clients.
func (b *Broadcaster) Publish(kind, resourceID string) {
	if !b.hasClients() {
		return
	}

	totals, err := b.snapshot()
	if err != nil {
		if b.logger != nil {
			b.logger.SysOp().Error("Failed to build feedback snapshot for broadcast", "error", err.Error())
		}
		return
	}

	payload := buildPayload(kind, resourceID, totals)
	select {
	case b.updates <- payload:
	default:
	}
}

func (b *Broadcaster) hasClients() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients) > 0
}

func (b *Broadcaster) broadcastSnapshot() {
	if !b.hasClients() {
		return
	}

	totals, err := b.snapshot()
	if err != nil {
		if b.logger != nil {
			b.logger.SysOp().Error("Failed to build periodic feedback snapshot", "error", err.Error())
		}
		return
	}

	b.send(buildPayload("snapshot", "", totals))
}

func (b *Broadcaster) send(payload UpdatePayload) {
	message, err := json.Marshal(payload)
	if err != nil {
		if b.logger != nil {
			b.logger.SysOp().Error("Failed to marshal broadcast payload", "error", err.Error())
		}
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients {
		close(client.Send)
		delete(b.clients, client)
	}
}

func buildPayload(kind, resourceID string, totals map[string]feedback.Totals) UpdatePayload {
	payload := UpdatePayload{
		Kind:       kind,
		ResourceID: resourceID,
		Feedback:   totals,
		Timestamp:  time.Now().UTC(),
	}
	payload.ResourceCount = len(totals)
	for _, t := range totals {
		payload.TotalLikes += t.Likes
		payload.TotalDislikes += t.Dislikes
		payload.TotalComments += t.CommentCount
	}
	return payload
}

// WritePump drains a client's send channel onto its websocket connection.
// Runs as a goroutine per client; returns when the channel closes or a
// write fails.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
