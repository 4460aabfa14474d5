package bot

import (
	"log"
	"sync"
	"time"

	"github.com/siamware/chatshop-backend/internal/models"
)

// DefaultSessionTTL is how long an idle session survives before the
// sweeper evicts it. Long enough that a cart survives a night's sleep.
const DefaultSessionTTL = 72 * time.Hour

const sweepInterval = 10 * time.Minute

// Pending holds the in-progress selections of a multi-step flow.
// Which fields are meaningful depends on the session step; handlers
// check for nil/zero before trusting them, since a pending reference
// can outlive the catalog data it points at.
type Pending struct {
	Product *models.Product
	Unit    *models.ProductUnit
	Options map[string]string
	OptIdx  int

	// EditLine is the cart index being edited, -1 when not editing.
	EditLine int

	Name          string
	Address       string
	PaymentMethod string
	SlipRef       string
}

func newPending() Pending {
	return Pending{Options: make(map[string]string), EditLine: -1}
}

// Session is the per-user conversational state.
type Session struct {
	UserID     string
	Step       Step
	Cart       []models.CartLine
	Pending    Pending
	Reminded   bool
	CreatedAt  time.Time
	LastActive time.Time
}

// ResetPending drops the in-progress selections without touching the cart.
func (s *Session) ResetPending() {
	s.Pending = newPending()
}

// SessionStore is the pluggable session backing. The in-memory
// implementation suits a single-instance deployment; a multi-instance
// deployment swaps in an external key-value store behind this interface.
type SessionStore interface {
	// Lock serializes access to one user's session. Anything that reads
	// or writes Session fields must hold it; the returned func releases.
	Lock(userID string) func()
	// Get returns the session for a user, creating one at the browse
	// step when none exists. Never fails.
	Get(userID string) *Session
	// Save persists the session and refreshes its activity timestamp.
	Save(session *Session)
	// AddCartLine merges the line into the cart: same-variant lines add
	// quantities, anything else appends. Returns the updated session.
	AddCartLine(userID string, line models.CartLine) *Session
	// Clear removes the session entirely.
	Clear(userID string)
	// Active returns a snapshot of all live sessions.
	Active() []*Session
}

// MemorySessionStore keeps sessions in a mutex-guarded map with a
// periodic TTL sweep. The map mutex guards membership only; the fields
// of a Session are guarded by its per-user lock.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once

	lockMu    sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewMemorySessionStore creates the store and starts its sweep routine
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &MemorySessionStore{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		done:      make(chan struct{}),
		userLocks: make(map[string]*sync.Mutex),
	}
	go s.sweepLoop()
	return s
}

// Lock acquires the per-user session lock. Out-of-order handling of two
// events for the same user could corrupt in-progress selections, and the
// reminder job reads carts concurrently with the engine, so both go
// through here.
func (s *MemorySessionStore) Lock(userID string) func() {
	s.lockMu.Lock()
	lock, exists := s.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *MemorySessionStore) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[userID]; exists {
		session.LastActive = time.Now()
		return session
	}

	session := &Session{
		UserID:     userID,
		Step:       StepBrowse,
		Pending:    newPending(),
		CreatedAt:  time.Now(),
		LastActive: time.Now(),
	}
	s.sessions[userID] = session
	return session
}

func (s *MemorySessionStore) Save(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.LastActive = time.Now()
	s.sessions[session.UserID] = session
}

func (s *MemorySessionStore) AddCartLine(userID string, line models.CartLine) *Session {
	session := s.Get(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range session.Cart {
		if session.Cart[i].SameVariant(line) {
			session.Cart[i].Quantity += line.Quantity
			session.Reminded = false
			return session
		}
	}
	session.Cart = append(session.Cart, line)
	session.Reminded = false
	return session
}

func (s *MemorySessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *MemorySessionStore) Active() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Stop halts the sweep routine
func (s *MemorySessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *MemorySessionStore) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.done:
			return
		}
	}
}

func (s *MemorySessionStore) sweepOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, session := range s.sessions {
		if time.Since(session.LastActive) > s.ttl {
			delete(s.sessions, userID)
			log.Printf("Evicted idle session for %s", userID)
		}
	}
}
