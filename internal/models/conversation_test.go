package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestConversationKey_Deterministic(t *testing.T) {
	initiator := uuid.New()
	recipient := uuid.New()

	first := ConversationKey("listing", "L1", initiator, recipient)
	second := ConversationKey("listing", "L1", initiator, recipient)

	if first != second {
		t.Errorf("Expected identical keys for the same tuple, got %q and %q", first, second)
	}

	expected := fmt.Sprintf("listing_L1_%s_%s", initiator, recipient)
	if first != expected {
		t.Errorf("Expected key %q, got %q", expected, first)
	}
}

// Swapping initiator and recipient yields a different key. This asymmetry
// is deliberate: each side initiating contact about the same item gets its
// own thread.
func TestConversationKey_AsymmetricPair(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	forward := ConversationKey("listing", "L1", a, b)
	reverse := ConversationKey("listing", "L1", b, a)

	if forward == reverse {
		t.Errorf("Expected distinct keys for swapped initiator/recipient, both were %q", forward)
	}
}

func TestConversationKey_DistinctItems(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	byItem := ConversationKey("listing", "L1", a, b)
	otherItem := ConversationKey("listing", "L2", a, b)
	otherType := ConversationKey("book", "L1", a, b)

	if byItem == otherItem {
		t.Error("Expected different keys for different item IDs")
	}
	if byItem == otherType {
		t.Error("Expected different keys for different item types")
	}
}

func TestClaimConversationKey(t *testing.T) {
	key := ClaimConversationKey("item-42")
	if key != "lostfound_item-42" {
		t.Errorf("Expected lostfound_item-42, got %q", key)
	}

	// Keyed on the item alone so every claimant shares one thread
	if ClaimConversationKey("item-42") != key {
		t.Error("Expected claim key to be deterministic")
	}
}
