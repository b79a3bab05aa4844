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

// defaultClaimMessage opens a claim thread when the claimant sends no text
const defaultClaimMessage = "I'd like to claim this item."

type ItemHandler struct {
	itemRepo ItemStore
	convRepo ConversationStore
	msgRepo  MessageStore
	redis    *cache.RedisClient
	emitter  *notify.Emitter
}

func NewItemHandler(
	itemRepo ItemStore,
	convRepo ConversationStore,
	msgRepo MessageStore,
	redis *cache.RedisClient,
	emitter *notify.Emitter,
) *ItemHandler {
	return &ItemHandler{
		itemRepo: itemRepo,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		redis:    redis,
		emitter:  emitter,
	}
}

// CreateItem posts a new item record
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, CodeInvalidArgument, err.Error())
		return
	}

	if err := models.ValidateItemType(req.ItemType); err != nil {
		ErrorResponse(c, CodeInvalidArgument, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	item := &models.Item{
		ID:          uuid.New(),
		OwnerID:     uid,
		ItemType:    req.ItemType,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ItemStatusOpen,
	}

	if err := h.itemRepo.Create(item); err != nil {
		ErrorResponse(c, CodeInternal, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItem returns a single item
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, CodeInvalidArgument, "Invalid item ID")
		return
	}

	item, err := h.itemRepo.GetByID(itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, CodeNotFound, "Item not found")
			return
		}
		ErrorResponse(c, CodeInternal, "Failed to get item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListItems returns items, optionally filtered by type
func (h *ItemHandler) ListItems(c *gin.Context) {
	var req models.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, CodeInvalidArgument, err.Error())
		return
	}

	items, err := h.itemRepo.List(req.ItemType, req.Limit, req.Offset)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to list items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ClaimItem opens (or joins) the shared claim thread for a lost-and-found
// item. The thread is keyed on the item alone, so every claimant lands in
// one conversation with the poster; re-claiming is a no-op on the
// participant set.
func (h *ItemHandler) ClaimItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, CodeInvalidArgument, "Invalid item ID")
		return
	}

	// Body is optional; a bare POST claims with the default message
	var req models.ClaimItemRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, CodeInvalidArgument, err.Error())
			return
		}
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	item, err := h.itemRepo.GetByID(itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ErrorResponse(c, CodeNotFound, "Item not found")
			return
		}
		ErrorResponse(c, CodeInternal, "Failed to get item")
		return
	}

	if item.ItemType != models.ClaimItemType {
		ErrorResponse(c, CodeInvalidArgument, "Only lost-and-found items can be claimed")
		return
	}
	if item.OwnerID == uid {
		ErrorResponse(c, CodeInvalidArgument, "Cannot claim your own item")
		return
	}

	conversationID := models.ClaimConversationKey(item.ID.String())

	_, err = h.convRepo.GetByID(conversationID)
	switch {
	case err == nil:
		if err := h.convRepo.AddParticipant(conversationID, uid); err != nil {
			ErrorResponse(c, CodeInternal, "Failed to join claim conversation")
			return
		}
	case errors.Is(err, repository.ErrNotFound):
		conversation := &models.Conversation{
			ID:        conversationID,
			ItemType:  models.ClaimItemType,
			ItemID:    item.ID.String(),
			ItemTitle: &item.Title,
		}
		if err := h.convRepo.Create(conversation, []uuid.UUID{uid, item.OwnerID}); err != nil {
			ErrorResponse(c, CodeInternal, "Failed to create claim conversation")
			return
		}
	default:
		ErrorResponse(c, CodeInternal, "Failed to check claim conversation")
		return
	}

	body := defaultClaimMessage
	if req.Message != nil && *req.Message != "" {
		body = *req.Message
	}

	if _, err := appendMessage(h.msgRepo, h.convRepo, h.redis, conversationID, uid, body, models.MessageTypeClaim); err != nil {
		ErrorResponse(c, CodeInternal, "Failed to send claim message")
		return
	}

	itemIDStr := item.ID.String()
	h.emitter.Emit(item.OwnerID, uid, models.NotificationTypeClaim,
		"Someone claimed your lost item: "+item.Title, &item.ItemType, &itemIDStr)

	c.JSON(http.StatusOK, gin.H{"success": true, "conversation_id": conversationID})
}
