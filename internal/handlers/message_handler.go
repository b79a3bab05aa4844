package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unspace/backend/internal/cache"
	"github.com/unspace/backend/internal/models"
	"github.com/unspace/backend/internal/notify"
	"github.com/unspace/backend/internal/repository"
)

type MessageHandler struct {
	msgRepo  MessageStore
	convRepo ConversationStore
	redis    *cache.RedisClient
	emitter  *notify.Emitter
}

func NewMessageHandler(
	msgRepo MessageStore,
	convRepo ConversationStore,
	redis *cache.RedisClient,
	emitter *notify.Emitter,
) *MessageHandler {
	return &MessageHandler{
		msgRepo:  msgRepo,
		convRepo: convRepo,
		redis:    redis,
		emitter:  emitter,
	}
}

// appendMessage records a message and then refreshes the conversation's
// preview fields. The two writes are sequential and not atomic: the
// message is durable before the preview update is attempted, and a
// preview failure is returned without undoing the insert.
func appendMessage(
	msgRepo MessageStore,
	convRepo ConversationStore,
	redis *cache.RedisClient,
	conversationID string,
	senderID uuid.UUID,
	body, messageType string,
) (*models.Message, error) {
	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		Type:           messageType,
	}

	if err := msgRepo.Create(message); err != nil {
		return nil, err
	}

	if redis != nil {
		redis.PublishEvent(models.Event{
			Event:          models.EventMessageNew,
			ConversationID: conversationID,
			Payload:        message,
		})
	}

	if err := convRepo.UpdatePreview(conversationID, body, senderID, message.CreatedAt); err != nil {
		return message, err
	}

	return message, nil
}

// GetMessages returns messages for a conversation in creation order
func (h *MessageHandler) GetMessages(c *gin.Context) {
	var req models.GetMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, CodeInvalidArgument, err.Error())
		return
	}

	var after *time.Time
	if req.After != "" {
		parsed, err := time.Parse(time.RFC3339Nano, req.After)
		if err != nil {
			ErrorResponse(c, CodeInvalidArgument, "Invalid after cursor")
			return
		}
		after = &parsed
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if _, err := h.convRepo.GetByID(req.ConversationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, CodeNotFound, "Conversation not found")
			return
		}
		ErrorResponse(c, CodeInternal, "Failed to get conversation")
		return
	}

	isParticipant, err := h.convRepo.IsParticipant(req.ConversationID, uid)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to check participation")
		return
	}
	if !isParticipant {
		ErrorResponse(c, CodePermissionDenied, "Not a participant of this conversation")
		return
	}

	messages, err := h.msgRepo.GetByConversationID(req.ConversationID, req.Limit, after)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to get messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage appends a text message to a conversation
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, CodeInvalidArgument, err.Error())
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		ErrorResponse(c, CodeInvalidArgument, "Message body must not be empty")
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if _, err := h.convRepo.GetByID(req.ConversationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, CodeNotFound, "Conversation not found")
			return
		}
		ErrorResponse(c, CodeInternal, "Failed to get conversation")
		return
	}

	isParticipant, err := h.convRepo.IsParticipant(req.ConversationID, uid)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to check participation")
		return
	}
	if !isParticipant {
		ErrorResponse(c, CodePermissionDenied, "Not a participant of this conversation")
		return
	}

	message, err := appendMessage(h.msgRepo, h.convRepo, h.redis, req.ConversationID, uid, req.Body, models.MessageTypeText)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to send message")
		return
	}

	// Best-effort notifications to the other participants
	participants, err := h.convRepo.GetParticipants(req.ConversationID)
	if err == nil {
		for _, p := range participants {
			if p.ID == uid {
				continue
			}
			h.emitter.Emit(p.ID, uid, models.NotificationTypeMessage, "New message: "+truncate(req.Body, 80), nil, nil)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}

// MarkAsRead flips the read flag on every message in the conversation
// not sent by the caller. Idempotent.
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	conversationID := c.Param("id")

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if _, err := h.convRepo.GetByID(conversationID); err != nil {
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

	if _, err := h.msgRepo.MarkConversationRead(conversationID, uid); err != nil {
		ErrorResponse(c, CodeInternal, "Failed to mark conversation as read")
		return
	}

	if h.redis != nil {
		h.redis.PublishEvent(models.Event{
			Event:          models.EventConversationRead,
			ConversationID: conversationID,
			Payload: models.WSConversationReadPayload{
				ConversationID: conversationID,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// truncate cuts s to at most n runes. Cutting by byte could split a
// multibyte character in the preview.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
