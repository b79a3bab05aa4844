package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/unspace/backend/internal/cache"
	"github.com/unspace/backend/internal/models"
	"github.com/unspace/backend/internal/repository"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 10240 // 10KB
)

// Client represents a WebSocket client
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	userID      uuid.UUID
	connectedAt time.Time

	msgRepo  *repository.MessageRepository
	convRepo *repository.ConversationRepository
	redis    *cache.RedisClient

	// simple in-memory token bucket for inbound frames
	tokens       int
	maxTokens    int
	refillPeriod time.Duration
	lastRefill   time.Time
}

// NewClient creates a new WebSocket client
func NewClient(
	hub *Hub,
	conn *websocket.Conn,
	userID uuid.UUID,
	msgRepo *repository.MessageRepository,
	convRepo *repository.ConversationRepository,
	redis *cache.RedisClient,
) *Client {
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, 256),
		userID:       userID,
		connectedAt:  time.Now(),
		msgRepo:      msgRepo,
		convRepo:     convRepo,
		redis:        redis,
		tokens:       20,
		maxTokens:    20,
		refillPeriod: time.Second,
		lastRefill:   time.Now(),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		now := time.Now()
		elapsed := now.Sub(c.lastRefill)
		if elapsed >= c.refillPeriod {
			c.tokens += int(elapsed / c.refillPeriod)
			if c.tokens > c.maxTokens {
				c.tokens = c.maxTokens
			}
			c.lastRefill = now
		}

		if c.tokens <= 0 {
			c.sendError("rate_limited")
			continue
		}
		c.tokens--

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

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

// handleMessage handles incoming WebSocket messages
func (c *Client) handleMessage(data []byte) {
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		c.sendError("Invalid message format")
		return
	}

	switch event.Event {
	case models.EventMessageSend:
		c.handleMessageSend(event.Payload)

	case models.EventConversationRead:
		c.handleConversationRead(event.Payload)

	default:
		c.sendError("Unknown event type")
	}
}

// handleMessageSend appends a message through the same path as the REST
// endpoint: participant check, durable insert, preview update, publish.
func (c *Client) handleMessageSend(payload interface{}) {
	data, _ := json.Marshal(payload)
	var req models.WSMessageSendPayload
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid message payload")
		return
	}
	if req.Body == "" {
		c.sendError("Message body must not be empty")
		return
	}

	isParticipant, err := c.convRepo.IsParticipant(req.ConversationID, c.userID)
	if err != nil || !isParticipant {
		c.sendError("Access denied")
		return
	}

	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: req.ConversationID,
		SenderID:       c.userID,
		Body:           req.Body,
		Type:           models.MessageTypeText,
	}

	if err := c.msgRepo.Create(message); err != nil {
		c.sendError("Failed to send message")
		return
	}

	c.redis.PublishEvent(models.Event{
		Event:          models.EventMessageNew,
		ConversationID: req.ConversationID,
		Payload:        message,
	})

	if err := c.convRepo.UpdatePreview(req.ConversationID, message.Body, c.userID, message.CreatedAt); err != nil {
		log.Printf("Failed to update conversation preview: %v", err)
	}
}

// handleConversationRead flips unread messages for the reader
func (c *Client) handleConversationRead(payload interface{}) {
	data, _ := json.Marshal(payload)
	var req models.WSConversationReadPayload
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid read payload")
		return
	}

	isParticipant, err := c.convRepo.IsParticipant(req.ConversationID, c.userID)
	if err != nil || !isParticipant {
		c.sendError("Access denied")
		return
	}

	if _, err := c.msgRepo.MarkConversationRead(req.ConversationID, c.userID); err != nil {
		c.sendError("Failed to mark conversation as read")
		return
	}

	c.redis.PublishEvent(models.Event{
		Event:          models.EventConversationRead,
		ConversationID: req.ConversationID,
		Payload:        req,
	})
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	errorMsg := models.Event{
		Event: models.EventError,
		Payload: models.WSErrorPayload{
			Message: message,
		},
	}

	data, _ := json.Marshal(errorMsg)
	select {
	case c.send <- data:
	default:
	}
}
