// Package api provides the HTTP and WebSocket surface that broadcasts
// emitted step records to live subscribers, adapted from the teacher's
// Hub/Client broadcaster.
package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// MessageType distinguishes server-pushed WebSocket frames.
type MessageType string

const (
	MsgTypeSessionStart MessageType = "session_start"
	MsgTypeStep         MessageType = "step"
	MsgTypeHeartbeat    MessageType = "heartbeat"
)

// WSMessage is the envelope every frame is wrapped in.
type WSMessage struct {
	Type      MessageType     `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Client is a single WebSocket subscriber.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session headers and step records out to every connected
// WebSocket client, implementing pipeline.EmissionSink. It carries no
// per-subject filtering: every client sees every subject's stream,
// since access control is an external collaborator's concern.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

// NewHub returns a Hub. Call Run in its own goroutine before serving
// connections.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

// Run is the hub's event loop; it blocks until stop is closed.
func (h *Hub) Run(stop <-chan struct{}) {
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-stop:
			return

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

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.RUnlock()

		case <-heartbeat.C:
			h.publish(WSMessage{Type: MsgTypeHeartbeat, Timestamp: time.Now().UnixMilli()})
		}
	}
}

// OnHeader implements pipeline.EmissionSink.
func (h *Hub) OnHeader(hdr session.Header) {
	data, err := json.Marshal(hdr)
	if err != nil {
		h.logger.Error("failed to marshal session header", zap.Error(err))
		return
	}
	h.publish(WSMessage{Type: MsgTypeSessionStart, SessionID: hdr.SessionID, Data: data, Timestamp: time.Now().UnixMilli()})
}

// OnStep implements pipeline.EmissionSink.
func (h *Hub) OnStep(sessionID string, rec types.StepRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		h.logger.Error("failed to marshal step record", zap.Error(err))
		return
	}
	h.publish(WSMessage{Type: MsgTypeStep, SessionID: sessionID, Data: data, Timestamp: time.Now().UnixMilli()})
}

func (h *Hub) publish(msg WSMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.logger.Warn("broadcast channel full, dropping message")
	}
}

// serve registers a new connection and starts its pump goroutines.
func (h *Hub) serve(conn *websocket.Conn) {
	c := &Client{id: conn.RemoteAddr().String(), hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
