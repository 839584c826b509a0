// Package memstore is an in-memory store.Store used for local development and tests.
// Batches are applied to a copy of the state that replaces the live state only when
// every write succeeded.
package memstore

import (
	"context"
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

type cardKey struct {
	user       string
	collection string
}

type state struct {
	records map[string][]models.Collection
	cards   map[cardKey][]models.Flashcard
}

func (s state) clone() state {
	c := state{
		records: make(map[string][]models.Collection, len(s.records)),
		cards:   make(map[cardKey][]models.Flashcard, len(s.cards)),
	}
	for k, v := range s.records {
		c.records[k] = append([]models.Collection(nil), v...)
	}
	for k, v := range s.cards {
		c.cards[k] = append([]models.Flashcard(nil), v...)
	}
	return c
}

// Counters records how many writes reached the store.
type Counters struct {
	RecordWrites int
	CardWrites   int
	CardDeletes  int
	Commits      int
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state state
	count Counters

	// FailOn, when set, is consulted before every write. A non-nil error aborts the
	// write (and the whole batch when inside Commit).
	FailOn func(op store.Op) error
	// FailReads, when set, makes every read return this error.
	FailReads error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{state: state{
		records: map[string][]models.Collection{},
		cards:   map[cardKey][]models.Flashcard{},
	}}
}

// Counters returns a snapshot of the write counters.
func (s *Store) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) ReadUserRecord(_ context.Context, userID string) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads != nil {
		return nil, s.FailReads
	}
	cols, ok := s.state.records[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &models.UserRecord{ID: userID, Collections: append([]models.Collection{}, cols...)}, nil
}

func (s *Store) WriteUserRecord(_ context.Context, userID string, collections []models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	op := store.Op{Kind: store.OpSetUserRecord, Collections: collections}
	if err := s.check(op); err != nil {
		return err
	}
	s.apply(&s.state, userID, op)
	return nil
}

func (s *Store) ReadCollectionCards(_ context.Context, userID, collection string) ([]models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads != nil {
		return nil, s.FailReads
	}
	return append([]models.Flashcard{}, s.state.cards[cardKey{userID, collection}]...), nil
}

func (s *Store) CreateCard(_ context.Context, userID, collection string, card models.Flashcard) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op := store.Op{Kind: store.OpCreateCard, Collection: collection, Card: card}
	if err := s.check(op); err != nil {
		return "", err
	}
	return s.apply(&s.state, userID, op)
}

func (s *Store) DeleteCard(_ context.Context, userID, collection, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	op := store.Op{Kind: store.OpDeleteCard, Collection: collection, CardID: cardID}
	if err := s.check(op); err != nil {
		return err
	}
	_, err := s.apply(&s.state, userID, op)
	return err
}

func (s *Store) Commit(_ context.Context, b *store.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	pending := Counters{Commits: 1}
	for i, op := range b.Ops {
		if err := s.check(op); err != nil {
			return fmt.Errorf("batch op %d: %w", i, err)
		}
		if _, err := s.applyCounted(&next, &pending, b.UserID, op); err != nil {
			return fmt.Errorf("batch op %d: %w", i, err)
		}
	}

	s.state = next
	s.count.RecordWrites += pending.RecordWrites
	s.count.CardWrites += pending.CardWrites
	s.count.CardDeletes += pending.CardDeletes
	s.count.Commits += pending.Commits
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) check(op store.Op) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op)
}

func (s *Store) apply(st *state, userID string, op store.Op) (string, error) {
	return s.applyCounted(st, &s.count, userID, op)
}

func (s *Store) applyCounted(st *state, count *Counters, userID string, op store.Op) (string, error) {
	switch op.Kind {
	case store.OpSetUserRecord:
		st.records[userID] = append([]models.Collection{}, op.Collections...)
		count.RecordWrites++
		return "", nil
	case store.OpCreateCard:
		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}
		card := op.Card
		card.ID = id
		card.UserID = userID
		card.Collection = op.Collection
		key := cardKey{userID, op.Collection}
		st.cards[key] = append(st.cards[key], card)
		count.CardWrites++
		return id, nil
	case store.OpDeleteCollectionCards:
		key := cardKey{userID, op.Collection}
		count.CardDeletes += len(st.cards[key])
		delete(st.cards, key)
		return "", nil
	case store.OpDeleteCard:
		key := cardKey{userID, op.Collection}
		cards := st.cards[key]
		for i, c := range cards {
			if c.ID == op.CardID {
				st.cards[key] = append(cards[:i:i], cards[i+1:]...)
				count.CardDeletes++
				return "", nil
			}
		}
		return "", store.ErrNotFound
	default:
		return "", fmt.Errorf("unknown batch op %d", op.Kind)
	}
}
