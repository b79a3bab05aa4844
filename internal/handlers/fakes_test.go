package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unspace/backend/internal/models"
	"github.com/unspace/backend/internal/repository"
)

// newTestRouter builds a router whose requests all carry the given
// caller identity, the way AuthMiddleware would set it.
func newTestRouter(uid uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uid)
		c.Next()
	})
	return router
}

type fakeConversationStore struct {
	conversations map[string]*models.Conversation
	participants  map[string]map[uuid.UUID]bool
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: make(map[string]*models.Conversation),
		participants:  make(map[string]map[uuid.UUID]bool),
	}
}

func (s *fakeConversationStore) addMember(conversationID string, userID uuid.UUID) {
	set := s.participants[conversationID]
	if set == nil {
		set = make(map[uuid.UUID]bool)
		s.participants[conversationID] = set
	}
	set[userID] = true
}

func (s *fakeConversationStore) Create(conversation *models.Conversation, participantIDs []uuid.UUID) error {
	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	s.conversations[conversation.ID] = conversation
	for _, id := range participantIDs {
		s.addMember(conversation.ID, id)
	}
	return nil
}

func (s *fakeConversationStore) GetByID(id string) (*models.Conversation, error) {
	conversation, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, repository.ErrNotFound)
	}
	return conversation, nil
}

func (s *fakeConversationStore) GetByUserID(userID uuid.UUID, limit int) ([]models.Conversation, error) {
	result := []models.Conversation{}
	for id, conversation := range s.conversations {
		if s.participants[id][userID] {
			result = append(result, *conversation)
		}
	}
	return result, nil
}

func (s *fakeConversationStore) AddParticipant(conversationID string, userID uuid.UUID) error {
	s.addMember(conversationID, userID)
	return nil
}

func (s *fakeConversationStore) GetParticipants(conversationID string) ([]models.User, error) {
	users := []models.User{}
	for id := range s.participants[conversationID] {
		users = append(users, models.User{ID: id})
	}
	return users, nil
}

func (s *fakeConversationStore) IsParticipant(conversationID string, userID uuid.UUID) (bool, error) {
	return s.participants[conversationID][userID], nil
}

func (s *fakeConversationStore) UpdatePreview(conversationID, body string, senderID uuid.UUID, at time.Time) error {
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, repository.ErrNotFound)
	}
	conversation.LastMessage = &body
	conversation.LastMessageAt = &at
	conversation.LastMessageSenderID = &senderID
	conversation.UpdatedAt = at
	return nil
}

type fakeMessageStore struct {
	messages []*models.Message
}

func (s *fakeMessageStore) Create(message *models.Message) error {
	message.CreatedAt = time.Now()
	message.Read = false
	s.messages = append(s.messages, message)
	return nil
}

func (s *fakeMessageStore) GetByConversationID(conversationID string, limit int, after *time.Time) ([]models.Message, error) {
	result := []models.Message{}
	for _, m := range s.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func (s *fakeMessageStore) MarkConversationRead(conversationID string, readerID uuid.UUID) (int64, error) {
	var flipped int64
	for _, m := range s.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.Read {
			m.Read = true
			flipped++
		}
	}
	return flipped, nil
}

func (s *fakeMessageStore) GetUnreadCount(conversationID string, userID uuid.UUID) (int, error) {
	count := 0
	for _, m := range s.messages {
		if m.ConversationID == conversationID && m.SenderID != userID && !m.Read {
			count++
		}
	}
	return count, nil
}

type fakeItemStore struct {
	items map[uuid.UUID]*models.Item
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: make(map[uuid.UUID]*models.Item)}
}

func (s *fakeItemStore) Create(item *models.Item) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = item
	return nil
}

func (s *fakeItemStore) GetByID(id uuid.UUID) (*models.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, repository.ErrNotFound)
	}
	return item, nil
}

func (s *fakeItemStore) List(itemType string, limit, offset int) ([]models.Item, error) {
	result := []models.Item{}
	for _, item := range s.items {
		if itemType == "" || item.ItemType == itemType {
			result = append(result, *item)
		}
	}
	return result, nil
}

type fakeUserStore struct {
	ids map[uuid.UUID]bool
}

func (s *fakeUserStore) Exists(id uuid.UUID) (bool, error) {
	return s.ids[id], nil
}

type fakeNotificationStore struct {
	created []*models.Notification
}

func (s *fakeNotificationStore) Create(notification *models.Notification) error {
	s.created = append(s.created, notification)
	return nil
}
