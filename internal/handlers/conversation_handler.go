package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unspace/backend/internal/cache"
	"github.com/unspace/backend/internal/models"
	"github.com/unspace/backend/internal/notify"
	"github.com/unspace/backend/internal/repository"
)

type ConversationHandler struct {
	convRepo ConversationStore
	msgRepo  MessageStore
	userRepo UserStore
	redis    *cache.RedisClient
	emitter  *notify.Emitter
}

func NewConversationHandler(
	convRepo ConversationStore,
	msgRepo MessageStore,
	userRepo UserStore,
	redis *cache.RedisClient,
	emitter *notify.Emitter,
) *ConversationHandler {
	return &ConversationHandler{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
		redis:    redis,
		emitter:  emitter,
	}
}

// CreateConversation finds or creates the thread between the caller and a
// recipient about an item. The deterministic ID makes creation idempotent
// for the same (itemType, itemId, initiator, recipient) tuple.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, CodeInvalidArgument, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if req.RecipientID == uid {
		ErrorResponse(c, CodeInvalidArgument, "Cannot start a conversation with yourself")
		return
	}

	recipientExists, err := h.userRepo.Exists(req.RecipientID)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to check recipient")
		return
	}
	if !recipientExists {
		ErrorResponse(c, CodeNotFound, "Recipient not found")
		return
	}

	conversationID := models.ConversationKey(req.ItemType, req.ItemID, uid, req.RecipientID)

	exists := true
	_, err = h.convRepo.GetByID(conversationID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, CodeInternal, "Failed to check conversation")
			return
		}
		exists = false
	}

	if !exists {
		conversation := &models.Conversation{
			ID:        conversationID,
			ItemType:  req.ItemType,
			ItemID:    req.ItemID,
			ItemTitle: req.ItemTitle,
		}
		if err := h.convRepo.Create(conversation, []uuid.UUID{uid, req.RecipientID}); err != nil {
			ErrorResponse(c, CodeInternal, "Failed to create conversation")
			return
		}
	}

	if req.InitialMessage != nil && *req.InitialMessage != "" {
		if _, err := appendMessage(h.msgRepo, h.convRepo, h.redis, conversationID, uid, *req.InitialMessage, models.MessageTypeText); err != nil {
			ErrorResponse(c, CodeInternal, "Failed to send initial message")
			return
		}

		h.emitter.Emit(req.RecipientID, uid, models.NotificationTypeContact,
			"Someone contacted you about your item", &req.ItemType, &req.ItemID)
	}

	c.JSON(http.StatusOK, models.CreateConversationResponse{
		ConversationID: conversationID,
		Exists:         exists,
	})
}

// GetConversations returns the caller's conversations, most recently
// active first, with unread counts.
func (h *ConversationHandler) GetConversations(c *gin.Context) {
	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	conversations, err := h.convRepo.GetByUserID(uid, 50)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to get conversations")
		return
	}

	result := make([]models.ConversationWithDetails, 0, len(conversations))
	for i := range conversations {
		participants, _ := h.convRepo.GetParticipants(conversations[i].ID)
		conversations[i].Participants = participants

		unread, _ := h.msgRepo.GetUnreadCount(conversations[i].ID, uid)
		result = append(result, models.ConversationWithDetails{
			Conversation: conversations[i],
			UnreadCount:  unread,
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": result})
}

// GetConversation returns one conversation the caller participates in
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID := c.Param("id")

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	conversation, err := h.convRepo.GetByID(conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, CodeNotFound, "Conversation not found")
			return
		}
		ErrorResponse(c, CodeInternal, "Failed to get conversation")
		return
	}

	isParticipant, err := h.convRepo.IsParticipant(conversationID, uid)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to check participation")
		return
	}
	if !isParticipant {
		ErrorResponse(c, CodePermissionDenied, "Not a participant of this conversation")
		return
	}

	participants, _ := h.convRepo.GetParticipants(conversationID)
	conversation.Participants = participants

	c.JSON(http.StatusOK, conversation)
}
