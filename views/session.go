package views

import (
	"sync"
	"time"

	"github.com/andrewpaige1/flashcards-api/models"
)

// Session holds one user's screens. Callers hold the lock for the whole of an operation
// so that a store write resolves before its result is mirrored into the state.
type Session struct {
	mu sync.Mutex

	Collections CollectionState
	Flashcards  FlashcardState
	Generation  GenerationState

	lastUsed time.Time
}

func newSession(flipByID bool, now time.Time) *Session {
	return &Session{
		Collections: CollectionState{Collections: []models.Collection{}},
		Flashcards:  NewFlashcardState(flipByID),
		Generation:  NewGenerationState(),
		lastUsed:    now,
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Sessions maps user ids to their screens.
type Sessions struct {
	mu       sync.Mutex
	byUser   map[string]*Session
	flipByID bool
	now      func() time.Time
}

func NewSessions(flipByID bool) *Sessions {
	return &Sessions{byUser: map[string]*Session{}, flipByID: flipByID, now: time.Now}
}

// Get returns the session for userID, creating it on first use.
func (m *Sessions) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byUser[userID]
	if !ok {
		s = newSession(m.flipByID, m.now())
		m.byUser[userID] = s
	}
	s.lastUsed = m.now()
	return s
}

// Drop forgets the session of userID, for example on sign out.
func (m *Sessions) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUser, userID)
}

// Sweep drops sessions idle for longer than ttl and returns how many were removed.
func (m *Sessions) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-ttl)
	n := 0
	for id, s := range m.byUser {
		if s.lastUsed.Before(cutoff) {
			delete(m.byUser, id)
			n++
		}
	}
	return n
}

func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byUser)
}
