package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/siamware/chatshop-backend/internal/bot"
	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/services"
)

const (
	// abandonedAfter is how long a cart may sit untouched before the
	// owner gets a nudge. Each session is nudged at most once.
	abandonedAfter = 6 * time.Hour
	checkInterval  = 30 * time.Minute
)

// ReminderJob sends abandoned-cart reminders
type ReminderJob struct {
	sessions  bot.SessionStore
	sender    bot.Sender
	isRunning bool
	stop      chan struct{}
}

// NewReminderJob creates a new reminder job scheduler
func NewReminderJob(sessions bot.SessionStore, sender bot.Sender) *ReminderJob {
	return &ReminderJob{
		sessions: sessions,
		sender:   sender,
		stop:     make(chan struct{}),
	}
}

// Start begins the scheduled reminder loop
func (r *ReminderJob) Start() {
	if r.isRunning {
		log.Println("Reminder job already running")
		return
	}
	r.isRunning = true
	log.Println("Starting abandoned-cart reminder job...")

	go r.run()
}

// Stop halts the reminder loop
func (r *ReminderJob) Stop() {
	if !r.isRunning {
		return
	}
	r.isRunning = false
	log.Println("Stopping abandoned-cart reminder job...")
	close(r.stop)
}

func (r *ReminderJob) run() {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.checkAbandonedCarts()
		}
	}
}

// checkAbandonedCarts nudges users who walked away mid-cart
func (r *ReminderJob) checkAbandonedCarts() {
	sentCount := 0
	for _, session := range r.sessions.Active() {
		if r.remindOne(session) {
			sentCount++
		}
	}

	if sentCount > 0 {
		log.Printf("Abandoned-cart reminders sent: %d", sentCount)
	}
}

// remindOne inspects and nudges a single session. The engine mutates
// session fields under the per-user lock, so the job takes the same
// lock before reading them.
func (r *ReminderJob) remindOne(session *bot.Session) bool {
	unlock := r.sessions.Lock(session.UserID)
	defer unlock()

	if len(session.Cart) == 0 || session.Reminded {
		return false
	}
	if time.Since(session.LastActive) < abandonedAfter {
		return false
	}

	msg := services.QuickReplyMessage(
		fmt.Sprintf("You still have %s in your cart. Ready to check out?", cartSummary(session.Cart)),
		services.Choice("🛒 View cart", bot.PayloadShowCart),
		services.Choice("✅ Checkout", bot.PayloadCheckout),
	)
	if err := r.sender.Send(session.UserID, msg); err != nil {
		log.Printf("Failed to send cart reminder to %s: %v", session.UserID, err)
		return false
	}

	session.Reminded = true
	r.sessions.Save(session)
	return true
}

func cartSummary(cart []models.CartLine) string {
	if len(cart) == 1 {
		return cart[0].Name
	}
	return fmt.Sprintf("%d items", len(cart))
}
