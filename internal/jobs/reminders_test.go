package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/siamware/chatshop-backend/internal/bot"
	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/services"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(userID string, msg services.Message) error {
	r.sent = append(r.sent, userID)
	return nil
}

func TestReminderTargetsOnlyAbandonedCarts(t *testing.T) {
	sessions := bot.NewMemorySessionStore(7 * 24 * time.Hour)
	defer sessions.Stop()
	sender := &recordingSender{}
	job := NewReminderJob(sessions, sender)

	// Idle long enough, cart full: should be nudged.
	abandoned := sessions.AddCartLine("abandoned", models.CartLine{ProductID: "PRD00001", Quantity: 1})
	abandoned.LastActive = time.Now().Add(-7 * time.Hour)

	// Recently active: leave alone.
	recent := sessions.AddCartLine("recent", models.CartLine{ProductID: "PRD00001", Quantity: 1})
	recent.LastActive = time.Now()

	// Idle but nothing in the cart: nothing to remind about.
	empty := sessions.Get("empty")
	empty.LastActive = time.Now().Add(-7 * time.Hour)

	job.checkAbandonedCarts()

	if len(sender.sent) != 1 || sender.sent[0] != "abandoned" {
		t.Fatalf("expected one reminder to the abandoned cart, got %v", sender.sent)
	}

	// A second pass must not nudge again.
	abandoned.LastActive = time.Now().Add(-7 * time.Hour)
	job.checkAbandonedCarts()
	if len(sender.sent) != 1 {
		t.Errorf("session reminded twice: %v", sender.sent)
	}
}

// Exercised with -race: the reminder scan reads session fields while
// cart activity mutates them, and both sides must go through the
// per-user session lock.
func TestReminderScanConcurrentWithCartActivity(t *testing.T) {
	sessions := bot.NewMemorySessionStore(7 * 24 * time.Hour)
	defer sessions.Stop()
	sender := &recordingSender{}
	job := NewReminderJob(sessions, sender)

	session := sessions.AddCartLine("u1", models.CartLine{ProductID: "PRD00001", Quantity: 1})
	session.LastActive = time.Now().Add(-7 * time.Hour)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			unlock := sessions.Lock("u1")
			sessions.AddCartLine("u1", models.CartLine{ProductID: "PRD00001", Quantity: 1})
			unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			job.checkAbandonedCarts()
		}
	}()
	wg.Wait()

	unlock := sessions.Lock("u1")
	defer unlock()
	if got := sessions.Get("u1").Cart[0].Quantity; got != 101 {
		t.Errorf("cart quantity = %d, want 101", got)
	}
}

func TestNewCartLineRearmsReminder(t *testing.T) {
	sessions := bot.NewMemorySessionStore(7 * 24 * time.Hour)
	defer sessions.Stop()
	sender := &recordingSender{}
	job := NewReminderJob(sessions, sender)

	session := sessions.AddCartLine("u1", models.CartLine{ProductID: "PRD00001", Quantity: 1})
	session.LastActive = time.Now().Add(-7 * time.Hour)
	job.checkAbandonedCarts()

	// Adding to the cart clears the reminded flag, so another long idle
	// period earns another nudge.
	sessions.AddCartLine("u1", models.CartLine{ProductID: "PRD00002", Quantity: 1})
	session.LastActive = time.Now().Add(-7 * time.Hour)
	job.checkAbandonedCarts()

	if len(sender.sent) != 2 {
		t.Errorf("expected a second reminder after new cart activity, got %d", len(sender.sent))
	}
}
