// Package storetest holds a compliance suite shared by the store.Store implementations.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

// Run exercises the store contract against a fresh store returned by makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("absent user record", func(t *testing.T) {
		s := makeStore(t)
		_, err := s.ReadUserRecord(context.Background(), "u-"+uuid.NewString())
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("user record round trip keeps order", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()

		cols := []models.Collection{{Name: "Biology"}, {Name: "Algebra"}, {Name: "Chemistry"}}
		require.NoError(t, s.WriteUserRecord(ctx, userID, cols))

		rec, err := s.ReadUserRecord(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, cols, rec.Collections)

		require.NoError(t, s.WriteUserRecord(ctx, userID, cols[:1]))
		rec, err = s.ReadUserRecord(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, cols[:1], rec.Collections)
	})

	t.Run("cards are scoped by user and collection", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()

		id, err := s.CreateCard(ctx, userID, "Biology", models.Flashcard{Front: "cell", Back: "unit of life"})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		_, err = s.CreateCard(ctx, userID, "Algebra", models.Flashcard{Front: "x", Back: "y"})
		require.NoError(t, err)
		_, err = s.CreateCard(ctx, "other-"+userID, "Biology", models.Flashcard{Front: "a", Back: "b"})
		require.NoError(t, err)

		cards, err := s.ReadCollectionCards(ctx, userID, "Biology")
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, id, cards[0].ID)
		assert.Equal(t, "cell", cards[0].Front)

		require.NoError(t, s.DeleteCard(ctx, userID, "Biology", id))
		cards, err = s.ReadCollectionCards(ctx, userID, "Biology")
		require.NoError(t, err)
		assert.Empty(t, cards)

		err = s.DeleteCard(ctx, userID, "Biology", id)
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("batch commits record and cards together", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()

		b := store.NewBatch(userID).SetUserRecord([]models.Collection{{Name: "Physics"}})
		for _, front := range []string{"force", "mass", "velocity"} {
			b.CreateCard("Physics", models.Flashcard{Front: front, Back: "def"})
		}
		require.NoError(t, s.Commit(ctx, b))

		rec, err := s.ReadUserRecord(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []models.Collection{{Name: "Physics"}}, rec.Collections)

		cards, err := s.ReadCollectionCards(ctx, userID, "Physics")
		require.NoError(t, err)
		require.Len(t, cards, 3)
		for _, c := range cards {
			assert.NotEmpty(t, c.ID)
		}

		purge := store.NewBatch(userID).SetUserRecord(nil).DeleteCollectionCards("Physics")
		require.NoError(t, s.Commit(ctx, purge))
		cards, err = s.ReadCollectionCards(ctx, userID, "Physics")
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("failed batch leaves nothing", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()

		before := []models.Collection{{Name: "Biology"}}
		require.NoError(t, s.WriteUserRecord(ctx, userID, before))

		b := store.NewBatch(userID).
			SetUserRecord([]models.Collection{{Name: "Biology"}, {Name: "Chemistry"}}).
			CreateCard("Chemistry", models.Flashcard{Front: "H2O", Back: "water"})
		b.Ops = append(b.Ops, store.Op{Kind: store.OpKind(99)})
		require.Error(t, s.Commit(ctx, b))

		rec, err := s.ReadUserRecord(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before, rec.Collections)

		cards, err := s.ReadCollectionCards(ctx, userID, "Chemistry")
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("batch deletes a single card", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		userID := "u-" + uuid.NewString()

		keep, err := s.CreateCard(ctx, userID, "Biology", models.Flashcard{Front: "cell", Back: "unit of life"})
		require.NoError(t, err)
		drop, err := s.CreateCard(ctx, userID, "Biology", models.Flashcard{Front: "atp", Back: "energy"})
		require.NoError(t, err)

		require.NoError(t, s.Commit(ctx, store.NewBatch(userID).DeleteCard("Biology", drop)))

		cards, err := s.ReadCollectionCards(ctx, userID, "Biology")
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, keep, cards[0].ID)
	})
}
