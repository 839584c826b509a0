// Package store defines the remote document store the views read from and write to.
//
// A user owns one record holding the ordered collection sequence, and one card sub-store
// per collection name. Implementations live in the sqlstore, firestorestore and memstore
// subpackages.
package store

import (
	"context"
	"errors"

	"github.com/andrewpaige1/flashcards-api/models"
)

// ErrNotFound is returned when a user record or card does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the remote store contract consumed by the views.
type Store interface {
	// ReadUserRecord returns ErrNotFound when the user has no record yet.
	ReadUserRecord(ctx context.Context, userID string) (*models.UserRecord, error)
	// WriteUserRecord merge-writes the collection sequence, creating the record if needed.
	WriteUserRecord(ctx context.Context, userID string, collections []models.Collection) error
	ReadCollectionCards(ctx context.Context, userID, collection string) ([]models.Flashcard, error)
	// CreateCard stores one card and returns the id the store assigned to it.
	CreateCard(ctx context.Context, userID, collection string, card models.Flashcard) (string, error)
	DeleteCard(ctx context.Context, userID, collection, cardID string) error
	// Commit applies every write in b atomically: all of them or none.
	Commit(ctx context.Context, b *Batch) error
	Close() error
}
