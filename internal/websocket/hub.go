package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/cache"
	"github.com/unspace/backend/internal/models"
	"github.com/unspace/backend/internal/repository"
)

// Hub maintains the set of connected clients and routes events to them.
// Conversation events are delivered to participants only; notification
// events to their addressee; presence updates to everyone.
type Hub struct {
	// Registered clients keyed by user ID
	clients map[uuid.UUID]*Client

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Redis client for pub/sub
	redis *cache.RedisClient

	// Resolves conversation participants for routing
	convRepo *repository.ConversationRepository

	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(redis *cache.RedisClient, convRepo *repository.ConversationRepository) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      redis,
		convRepo:   convRepo,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	go h.subscribeToRedis()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

			h.redis.SetUserOnline(client.userID)
			h.redis.PublishPresence(models.UserPresence{
				UserID:   client.userID,
				Status:   "online",
				LastSeen: client.connectedAt,
			})

			log.Printf("Client registered: %s", client.userID)

		case client := <-h.unregister:
			if !h.removeClient(client) {
				// Stale connection of a user who reconnected; the
				// live entry stays and the user remains online
				continue
			}

			h.redis.SetUserOffline(client.userID)
			h.redis.PublishPresence(models.UserPresence{
				UserID: client.userID,
				Status: "offline",
			})

			log.Printf("Client unregistered: %s", client.userID)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.userID] = client
	h.mu.Unlock()
}

// removeClient drops the client and reports whether it still owned the
// map entry. A reconnect replaces the entry, so a stale connection's
// unregister must not evict the live one.
func (h *Hub) removeClient(client *Client) bool {
	h.mu.Lock()
	active := h.clients[client.userID] == client
	if active {
		delete(h.clients, client.userID)
	}
	h.mu.Unlock()

	close(client.send)
	return active
}

// subscribeToRedis receives published events and routes them to clients
func (h *Hub) subscribeToRedis() {
	eventPubSub := h.redis.SubscribeToEvents()
	defer eventPubSub.Close()
	eventChan := eventPubSub.Channel()

	presencePubSub := h.redis.SubscribeToPresence()
	defer presencePubSub.Close()
	presenceChan := presencePubSub.Channel()

	for {
		select {
		case msg := <-eventChan:
			var event models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Failed to decode event: %v", err)
				continue
			}
			h.route(event, []byte(msg.Payload))

		case presence := <-presenceChan:
			h.broadcastAll([]byte(presence.Payload))
		}
	}
}

// route delivers an event to its audience
func (h *Hub) route(event models.Event, data []byte) {
	switch {
	case event.ToUserID != nil:
		h.sendToUser(*event.ToUserID, data)

	case event.ConversationID != "":
		participants, err := h.convRepo.GetParticipants(event.ConversationID)
		if err != nil {
			log.Printf("Failed to resolve participants for %s: %v", event.ConversationID, err)
			return
		}
		h.mu.RLock()
		for _, p := range participants {
			if client, ok := h.clients[p.ID]; ok {
				select {
				case client.send <- data:
				default:
					// Client's send channel is full, skip
				}
			}
		}
		h.mu.RUnlock()

	default:
		h.broadcastAll(data)
	}
}

func (h *Hub) sendToUser(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if ok {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, skip
		}
	}
}

func (h *Hub) broadcastAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, skip
		}
	}
}

// SendToUser sends an event to a specific connected user
func (h *Hub) SendToUser(userID uuid.UUID, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.sendToUser(userID, data)
	return nil
}

// GetOnlineUsers returns the list of online user IDs
func (h *Hub) GetOnlineUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userIDs := make([]uuid.UUID, 0, len(h.clients))
	for userID := range h.clients {
		userIDs = append(userIDs, userID)
	}

	return userIDs
}

// IsUserOnline checks if a user is online
func (h *Hub) IsUserOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID]
	return ok
}
