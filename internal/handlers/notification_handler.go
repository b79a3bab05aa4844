package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unspace/backend/internal/repository"
)

type NotificationHandler struct {
	notifRepo *repository.NotificationRepository
}

func NewNotificationHandler(notifRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo}
}

// GetNotifications returns the caller's notifications with the unread count
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	notifications, err := h.notifRepo.GetByUserID(uid, 50)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to get notifications")
		return
	}

	unread, err := h.notifRepo.GetUnreadCount(uid)
	if err != nil {
		ErrorResponse(c, CodeInternal, "Failed to get unread count")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread_count": unread})
}

// MarkAllRead marks every notification for the caller as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if err := h.notifRepo.MarkAllRead(uid); err != nil {
		ErrorResponse(c, CodeInternal, "Failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
