package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kitchensim/internal/logger"
	"kitchensim/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one frame pushed to websocket clients
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data"`
}

// Message types
const (
	MessageSnapshot = "snapshot"
	MessageAction   = "action"
	MessageEnded    = "ended"
)

// Hub fans session updates out to the websocket clients watching them
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
	log     *logger.Logger
}

type wsClient struct {
	hub       *Hub
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
	snapshot  func() interface{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*wsClient]struct{}),
		log:     log,
	}
}

// RecordAction pushes an action log entry to the session's clients
func (h *Hub) RecordAction(sessionID string, entry models.ActionLogEntry) {
	h.Broadcast(sessionID, MessageAction, entry)
}

// Broadcast sends a message to every client of a session. Slow clients
// lose messages rather than block the sender.
func (h *Hub) Broadcast(sessionID, msgType string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[sessionID]
	if len(clients) == 0 {
		return
	}
	payload, err := json.Marshal(Message{Type: msgType, SessionID: sessionID, Data: data})
	if err != nil {
		h.log.Error("marshaling %s message: %v", msgType, err)
		return
	}
	for c := range clients {
		select {
		case c.send <- payload:
		default:
			h.log.Warn("websocket buffer full for session %s, dropping message", sessionID)
		}
	}
}

// ClientCount returns how many clients watch a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Serve upgrades the request and streams the session to the client. The
// client receives snapshot() on connect and whenever it sends a
// {"type":"snapshot"} request.
func (h *Hub) Serve(c *gin.Context, sessionID string, snapshot func() interface{}) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade connection: %v", err)
		return
	}

	client := &wsClient{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		snapshot:  snapshot,
	}
	h.register(client)
	client.push(MessageSnapshot, snapshot())

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.sessionID] == nil {
		h.clients[c.sessionID] = make(map[*wsClient]struct{})
	}
	h.clients[c.sessionID][c] = struct{}{}
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.sessionID)
	}
}

// push queues a message for this client only
func (c *wsClient) push(msgType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: msgType, SessionID: c.sessionID, Data: data})
	if err != nil {
		c.hub.log.Error("marshaling %s message: %v", msgType, err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c.sessionID][c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.hub.log.Warn("websocket buffer full for session %s, dropping message", c.sessionID)
	}
}

// readPump handles client requests until the connection fails
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket error: %v", err)
			}
			return
		}

		var req struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &req); err != nil {
			c.hub.log.Debug("ignoring malformed websocket message: %v", err)
			continue
		}
		if req.Type == MessageSnapshot {
			c.push(MessageSnapshot, c.snapshot())
		}
	}
}

// writePump pumps queued messages and pings to the connection
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
