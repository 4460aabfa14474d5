package bot

import (
	"testing"
	"time"

	"github.com/siamware/chatshop-backend/internal/models"
)

func TestGetCreatesFreshSession(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	defer store.Stop()

	session := store.Get("u1")
	if session.Step != StepBrowse {
		t.Errorf("new session step = %s, want %s", session.Step, StepBrowse)
	}
	if len(session.Cart) != 0 {
		t.Errorf("new session cart not empty")
	}
	if session.Pending.EditLine != -1 {
		t.Errorf("new session EditLine = %d, want -1", session.Pending.EditLine)
	}

	// Same session comes back on the next call.
	if again := store.Get("u1"); again != session {
		t.Error("Get must return the existing session")
	}
}

func TestAddCartLineMergesSameVariant(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	defer store.Stop()

	line := models.CartLine{
		ProductID:       "PRD00001",
		Name:            "Canvas Tote",
		Price:           390,
		Quantity:        2,
		SelectedOptions: map[string]string{"Color": "Black"},
	}
	store.AddCartLine("u1", line)

	line.Quantity = 3
	session := store.AddCartLine("u1", line)

	if len(session.Cart) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(session.Cart))
	}
	if session.Cart[0].Quantity != 5 {
		t.Errorf("merged quantity = %d, want 5", session.Cart[0].Quantity)
	}
}

func TestAddCartLineKeepsVariantsSeparate(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	defer store.Stop()

	store.AddCartLine("u1", models.CartLine{
		ProductID: "PRD00001", Quantity: 1,
		SelectedOptions: map[string]string{"Color": "Black"},
	})
	store.AddCartLine("u1", models.CartLine{
		ProductID: "PRD00001", Quantity: 1,
		SelectedOptions: map[string]string{"Color": "Cream"},
	})
	session := store.AddCartLine("u1", models.CartLine{
		ProductID: "PRD00001", Quantity: 1, UnitLabel: "Pair",
		SelectedOptions: map[string]string{"Color": "Black"},
	})

	if len(session.Cart) != 3 {
		t.Fatalf("different options/units must not merge: got %d lines", len(session.Cart))
	}
}

func TestClearRemovesSession(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	defer store.Stop()

	store.AddCartLine("u1", models.CartLine{ProductID: "PRD00001", Quantity: 1})
	store.Clear("u1")

	session := store.Get("u1")
	if len(session.Cart) != 0 || session.Step != StepBrowse {
		t.Errorf("cleared session should start fresh, got step=%s cart=%d", session.Step, len(session.Cart))
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	defer store.Stop()

	session := store.Get("idle")
	session.LastActive = time.Now().Add(-2 * time.Minute)

	fresh := store.Get("fresh")
	fresh.LastActive = time.Now()

	store.sweepOnce()

	if len(store.Active()) != 1 {
		t.Fatalf("expected 1 surviving session, got %d", len(store.Active()))
	}
	if store.Active()[0].UserID != "fresh" {
		t.Errorf("wrong session evicted")
	}
}
