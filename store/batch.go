package store

import "github.com/andrewpaige1/flashcards-api/models"

// OpKind identifies a write inside a Batch.
type OpKind int

const (
	OpSetUserRecord OpKind = iota
	OpCreateCard
	OpDeleteCollectionCards
	OpDeleteCard
)

// Op is one write queued on a Batch.
type Op struct {
	Kind        OpKind
	Collections []models.Collection
	Collection  string
	Card        models.Flashcard
	CardID      string
}

// Batch collects writes for a single user that must commit together.
type Batch struct {
	UserID string
	Ops    []Op
}

// NewBatch starts an empty batch for userID.
func NewBatch(userID string) *Batch {
	return &Batch{UserID: userID}
}

// SetUserRecord queues a merge-write of the collection sequence.
func (b *Batch) SetUserRecord(collections []models.Collection) *Batch {
	cols := make([]models.Collection, len(collections))
	copy(cols, collections)
	b.Ops = append(b.Ops, Op{Kind: OpSetUserRecord, Collections: cols})
	return b
}

// CreateCard queues a new card in collection; the store assigns its id on commit.
func (b *Batch) CreateCard(collection string, card models.Flashcard) *Batch {
	card.ID = ""
	b.Ops = append(b.Ops, Op{Kind: OpCreateCard, Collection: collection, Card: card})
	return b
}

// DeleteCollectionCards queues removal of every card in collection.
func (b *Batch) DeleteCollectionCards(collection string) *Batch {
	b.Ops = append(b.Ops, Op{Kind: OpDeleteCollectionCards, Collection: collection})
	return b
}

// DeleteCard queues removal of one card from collection.
func (b *Batch) DeleteCard(collection, cardID string) *Batch {
	b.Ops = append(b.Ops, Op{Kind: OpDeleteCard, Collection: collection, CardID: cardID})
	return b
}

// Len returns the number of queued writes.
func (b *Batch) Len() int {
	return len(b.Ops)
}
