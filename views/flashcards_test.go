package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
	"github.com/andrewpaige1/flashcards-api/store/memstore"
)

func loadedState(t *testing.T, v *FlashcardView, collection string) FlashcardState {
	t.Helper()
	s, err := v.Load(context.Background(), NewFlashcardState(false).Select(collection), alice)
	require.NoError(t, err)
	return s
}

func TestFlashcardLoad(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seedCard(t, st, "alice", "Biology", "Osmosis", "water moves")
	seedCard(t, st, "alice", "Biology", "Cell", "basic unit")
	seedCard(t, st, "alice", "Chemistry", "H2O", "water")
	v := NewFlashcardView(st, nopLog)

	t.Run("no selection leaves state", func(t *testing.T) {
		s := NewFlashcardState(false)
		got, err := v.Load(ctx, s, alice)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	})

	t.Run("sorted by name", func(t *testing.T) {
		s := loadedState(t, v, "Biology")
		assert.Equal(t, []string{"Cell", "Osmosis"}, fronts(s.Cards))
	})

	t.Run("query filters", func(t *testing.T) {
		s, err := v.Load(ctx, NewFlashcardState(false).Select("Biology").SetQuery("WATER"), alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"Osmosis"}, fronts(s.Cards))
	})

	t.Run("switching collection replaces list", func(t *testing.T) {
		s := loadedState(t, v, "Biology").Select("Chemistry")
		assert.Empty(t, s.Cards)
		s, err := v.Load(ctx, s, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"H2O"}, fronts(s.Cards))
	})
}

func TestFlashcardCreate(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name, front, back string
	}{
		{"empty front", "", "back"},
		{"empty back", "front", ""},
		{"both empty", "", ""},
	} {
		t.Run(tc.name+" does not call the store", func(t *testing.T) {
			st := memstore.New()
			calls := 0
			st.FailOn = func(store.Op) error { calls++; return nil }
			v := NewFlashcardView(st, nopLog)

			s := NewFlashcardState(false).Select("Biology")
			got, err := v.Create(ctx, s, alice, tc.front, tc.back)
			assert.ErrorIs(t, err, ErrEmptyCard)
			assert.Equal(t, s, got)
			assert.Zero(t, calls)
			assert.Zero(t, st.Counters().CardWrites)
		})
	}

	t.Run("requires a selected collection", func(t *testing.T) {
		st := memstore.New()
		v := NewFlashcardView(st, nopLog)
		_, err := v.Create(ctx, NewFlashcardState(false), alice, "a", "b")
		assert.ErrorIs(t, err, ErrNoCollection)
		assert.Zero(t, st.Counters().CardWrites)
	})

	t.Run("requires a signed in user", func(t *testing.T) {
		st := memstore.New()
		v := NewFlashcardView(st, nopLog)
		_, err := v.Create(ctx, NewFlashcardState(false).Select("Biology"), nobody, "a", "b")
		assert.ErrorIs(t, err, ErrNotSignedIn)
		assert.Zero(t, st.Counters().CardWrites)
	})

	t.Run("appends card with store id", func(t *testing.T) {
		st := memstore.New()
		v := NewFlashcardView(st, nopLog)
		s := NewFlashcardState(false).Select("Biology").OpenDialog().SetDraft("Cell", "unit")

		s, err := v.Create(ctx, s, alice, "Cell", "unit")
		require.NoError(t, err)
		require.Len(t, s.Cards, 1)
		assert.NotEmpty(t, s.Cards[0].ID)
		assert.False(t, s.DialogOpen)
		assert.Equal(t, CardDraft{}, s.Draft)

		stored, err := st.ReadCollectionCards(ctx, "alice", "Biology")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, stored[0].ID, s.Cards[0].ID)
	})

	t.Run("failed write keeps list", func(t *testing.T) {
		st := memstore.New()
		st.FailOn = func(store.Op) error { return errDown }
		v := NewFlashcardView(st, nopLog)
		s := NewFlashcardState(false).Select("Biology")

		got, err := v.Create(ctx, s, alice, "Cell", "unit")
		assert.ErrorIs(t, err, errDown)
		assert.Empty(t, got.Cards)
		assert.NotEmpty(t, got.Notice)
	})
}

func TestFlashcardDelete(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	id := seedCard(t, st, "alice", "Biology", "Cell", "unit")
	seedCard(t, st, "alice", "Biology", "Osmosis", "water")
	v := NewFlashcardView(st, nopLog)
	s := loadedState(t, v, "Biology")

	s, err := v.Delete(ctx, s, alice, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Osmosis"}, fronts(s.Cards))

	stored, err := st.ReadCollectionCards(ctx, "alice", "Biology")
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// already gone
	s, err = v.Delete(ctx, s, alice, id)
	require.NoError(t, err)
	assert.Len(t, s.Cards, 1)

	t.Run("store failure keeps cards", func(t *testing.T) {
		keep := s.Cards[0].ID
		st.FailOn = func(op store.Op) error {
			if op.Kind == store.OpDeleteCard {
				return errDown
			}
			return nil
		}
		defer func() { st.FailOn = nil }()

		got, err := v.Delete(ctx, s, alice, keep)
		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, s.Cards, got.Cards)
		assert.Equal(t, "Could not delete flashcard", got.Notice)

		stored, err := st.ReadCollectionCards(ctx, "alice", "Biology")
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})
}

func TestFlipByPosition(t *testing.T) {
	s := NewFlashcardState(false).WithCards([]models.Flashcard{
		{ID: "a", Front: "1"}, {ID: "b", Front: "2"}, {ID: "c", Front: "3"},
	})

	s = s.Flip(1)
	assert.False(t, s.IsFlipped(0))
	assert.True(t, s.IsFlipped(1))
	assert.False(t, s.IsFlipped(2))

	s = s.Flip(2).Flip(1)
	assert.False(t, s.IsFlipped(1))
	assert.True(t, s.IsFlipped(2))

	assert.Equal(t, s, s.Flip(7), "out of range is ignored")

	// position keyed: the mark stays at index 2 after the list changes
	s = s.WithCards([]models.Flashcard{{ID: "c"}, {ID: "b"}, {ID: "a"}})
	assert.True(t, s.IsFlipped(2))
	assert.False(t, s.IsFlipped(0))
}

func TestFlipByID(t *testing.T) {
	s := NewFlashcardState(true).WithCards([]models.Flashcard{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	s = s.Flip(2)

	s = s.WithCards([]models.Flashcard{{ID: "c"}, {ID: "b"}, {ID: "a"}})
	assert.True(t, s.IsFlipped(0))
	assert.False(t, s.IsFlipped(2))
}

func TestFlipDoesNotShareMap(t *testing.T) {
	s := NewFlashcardState(false).WithCards([]models.Flashcard{{ID: "a"}, {ID: "b"}})
	flipped := s.Flip(0)
	assert.False(t, s.IsFlipped(0))
	assert.True(t, flipped.IsFlipped(0))
}

func TestTogglesDoNotTouchStore(t *testing.T) {
	st := memstore.New()
	seedCard(t, st, "alice", "Biology", "Cell", "unit")
	v := NewFlashcardView(st, nopLog)
	s := loadedState(t, v, "Biology")
	before := st.Counters()

	s = s.ToggleDeleteMode()
	assert.True(t, s.DeleteMode)
	assert.True(t, s.Render()[0].ShowDelete)
	s = s.ToggleDeleteMode().ToggleAudio().ToggleSortMenu().ToggleColorMenu().OpenDialog()
	assert.False(t, s.DeleteMode)
	assert.True(t, s.AudioMode)
	assert.True(t, s.SortMenuOpen)
	assert.True(t, s.ColorMenuOpen)
	assert.True(t, s.DialogOpen)

	assert.Equal(t, before, st.Counters())
}

func TestAudioTapDoesNotFlip(t *testing.T) {
	s := NewFlashcardState(false).WithCards([]models.Flashcard{{ID: "a"}}).ToggleAudio()
	s = s.Flip(0).PlayAudio("a")
	assert.Equal(t, "a", s.LastSpoken)
	assert.True(t, s.IsFlipped(0))

	s = s.PlayAudio("b")
	assert.Equal(t, "b", s.LastSpoken)
	assert.True(t, s.IsFlipped(0))
}

func TestSetSortClosesMenu(t *testing.T) {
	s := NewFlashcardState(false).ToggleSortMenu().SetSort(SortByDate)
	assert.Equal(t, SortByDate, s.Sort)
	assert.False(t, s.SortMenuOpen)
}

func TestRenderUsesColors(t *testing.T) {
	s := NewFlashcardState(false).
		WithCards([]models.Flashcard{{ID: "a", Front: "Q", Back: "A"}}).
		SetColors("#000000", "")

	v := s.Render()[0]
	assert.Equal(t, "Q", v.Text)
	assert.Equal(t, "#000000", v.Color)

	v = s.Flip(0).Render()[0]
	assert.Equal(t, "A", v.Text)
	assert.Equal(t, DefaultBackColor, v.Color)
}
