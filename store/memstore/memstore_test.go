package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
	"github.com/andrewpaige1/flashcards-api/store/storetest"
)

func TestMemStoreCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestCommitFailureLeavesStateUntouched(t *testing.T) {
	s := New()
	ctx := context.Background()

	created := 0
	s.FailOn = func(op store.Op) error {
		if op.Kind == store.OpCreateCard {
			created++
			if created == 2 {
				return errors.New("unavailable")
			}
		}
		return nil
	}

	b := store.NewBatch("u1").SetUserRecord([]models.Collection{{Name: "History"}})
	b.CreateCard("History", models.Flashcard{Front: "1066", Back: "Hastings"})
	b.CreateCard("History", models.Flashcard{Front: "1815", Back: "Waterloo"})

	require.Error(t, s.Commit(ctx, b))

	_, err := s.ReadUserRecord(ctx, "u1")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	cards, err := s.ReadCollectionCards(ctx, "u1", "History")
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, Counters{}, s.Counters())
}
