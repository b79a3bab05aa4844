package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/models"
	"github.com/unspace/backend/internal/notify"
)

func newMessageHandlerFixture() (*MessageHandler, *fakeConversationStore, *fakeMessageStore) {
	convStore := newFakeConversationStore()
	msgStore := &fakeMessageStore{}
	emitter := notify.NewEmitter(&fakeNotificationStore{}, nil)
	return NewMessageHandler(msgStore, convStore, nil, emitter), convStore, msgStore
}

func TestSendMessage_NonParticipant(t *testing.T) {
	h, convStore, msgStore := newMessageHandlerFixture()

	a := uuid.New()
	b := uuid.New()
	outsider := uuid.New()

	conversationID := models.ConversationKey("listing", "L1", a, b)
	convStore.Create(&models.Conversation{ID: conversationID, ItemType: "listing", ItemID: "L1"}, []uuid.UUID{a, b})

	router := newTestRouter(outsider)
	router.POST("/messages", h.SendMessage)

	body := strings.NewReader(`{"conversation_id":"` + conversationID + `","body":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["code"] != CodePermissionDenied {
		t.Errorf("Expected code %s, got %s", CodePermissionDenied, resp["code"])
	}

	if len(msgStore.messages) != 0 {
		t.Errorf("Expected no message recorded, got %d", len(msgStore.messages))
	}
}

func TestSendMessage_AppendsAndUpdatesPreview(t *testing.T) {
	h, convStore, msgStore := newMessageHandlerFixture()

	a := uuid.New()
	b := uuid.New()

	conversationID := models.ConversationKey("listing", "L1", a, b)
	convStore.Create(&models.Conversation{ID: conversationID, ItemType: "listing", ItemID: "L1"}, []uuid.UUID{a, b})

	router := newTestRouter(a)
	router.POST("/messages", h.SendMessage)

	body := strings.NewReader(`{"conversation_id":"` + conversationID + `","body":"is this still available?"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	if len(msgStore.messages) != 1 {
		t.Fatalf("Expected one message recorded, got %d", len(msgStore.messages))
	}
	msg := msgStore.messages[0]
	if msg.SenderID != a || msg.Type != models.MessageTypeText {
		t.Errorf("Unexpected message: sender %s type %s", msg.SenderID, msg.Type)
	}

	conversation := convStore.conversations[conversationID]
	if conversation.LastMessage == nil || *conversation.LastMessage != "is this still available?" {
		t.Errorf("Expected conversation preview to carry the message body")
	}
	if conversation.LastMessageSenderID == nil || *conversation.LastMessageSenderID != a {
		t.Errorf("Expected preview sender to be the caller")
	}
}

func TestGetMessages_NonParticipant(t *testing.T) {
	h, convStore, msgStore := newMessageHandlerFixture()

	a := uuid.New()
	b := uuid.New()
	outsider := uuid.New()

	conversationID := models.ConversationKey("listing", "L1", a, b)
	convStore.Create(&models.Conversation{ID: conversationID, ItemType: "listing", ItemID: "L1"}, []uuid.UUID{a, b})
	msgStore.Create(&models.Message{ID: uuid.New(), ConversationID: conversationID, SenderID: a, Body: "hi", Type: models.MessageTypeText})

	router := newTestRouter(outsider)
	router.GET("/messages", h.GetMessages)

	req := httptest.NewRequest(http.MethodGet, "/messages?conversation_id="+conversationID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["code"] != CodePermissionDenied {
		t.Errorf("Expected code %s, got %s", CodePermissionDenied, resp["code"])
	}
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	h, convStore, msgStore := newMessageHandlerFixture()

	a := uuid.New()
	b := uuid.New()

	conversationID := models.ConversationKey("listing", "L1", a, b)
	convStore.Create(&models.Conversation{ID: conversationID, ItemType: "listing", ItemID: "L1"}, []uuid.UUID{a, b})
	msgStore.Create(&models.Message{ID: uuid.New(), ConversationID: conversationID, SenderID: b, Body: "one", Type: models.MessageTypeText})
	msgStore.Create(&models.Message{ID: uuid.New(), ConversationID: conversationID, SenderID: b, Body: "two", Type: models.MessageTypeText})

	markRead := func() *httptest.ResponseRecorder {
		router := newTestRouter(a)
		router.PUT("/conversations/:id/read", h.MarkAsRead)
		req := httptest.NewRequest(http.MethodPut, "/conversations/"+conversationID+"/read", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := markRead(); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if unread, _ := msgStore.GetUnreadCount(conversationID, a); unread != 0 {
		t.Fatalf("Expected every message read, %d still unread", unread)
	}

	// A second call matches no rows and still succeeds
	if w := markRead(); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on repeat, got %d: %s", w.Code, w.Body.String())
	}
	if flipped, _ := msgStore.MarkConversationRead(conversationID, a); flipped != 0 {
		t.Errorf("Expected nothing left to flip, got %d", flipped)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 80); got != "short" {
		t.Errorf("Expected short string unchanged, got %q", got)
	}

	long := strings.Repeat("é", 100)
	got := truncate(long, 80)
	if !utf8.ValidString(got) {
		t.Fatalf("Expected a valid UTF-8 cut, got %q", got)
	}
	if got != strings.Repeat("é", 80)+"..." {
		t.Errorf("Expected 80 runes plus ellipsis, got %q", got)
	}
}
