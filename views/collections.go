package views

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

// CollectionState is the collection list screen.
type CollectionState struct {
	Collections []models.Collection `json:"collections"`
	Loaded      bool                `json:"loaded"`
	Selected    string              `json:"selected,omitempty"`
	DialogOpen  bool                `json:"dialogOpen"`
	Draft       string              `json:"draft"`
	Notice      string              `json:"notice,omitempty"`
}

func (s CollectionState) WithCollections(cols []models.Collection) CollectionState {
	s.Collections = slices.Clone(cols)
	if s.Collections == nil {
		s.Collections = []models.Collection{}
	}
	s.Loaded = true
	s.Notice = ""
	return s
}

// Navigate selects the collection the flashcard screen shows. It never touches the store.
func (s CollectionState) Navigate(name string) CollectionState {
	s.Selected = name
	return s
}

func (s CollectionState) OpenDialog() CollectionState {
	s.DialogOpen = true
	return s
}

func (s CollectionState) CloseDialog() CollectionState {
	s.DialogOpen = false
	return s
}

func (s CollectionState) SetDraft(name string) CollectionState {
	s.Draft = name
	return s
}

func (s CollectionState) WithNotice(msg string) CollectionState {
	s.Notice = msg
	return s
}

// CollectionView loads and mutates a user's collection list.
type CollectionView struct {
	store   store.Store
	cascade bool
	log     zerolog.Logger
}

// NewCollectionView returns a view over st. When cascadeDelete is set, deleting a
// collection also removes its cards in the same atomic batch.
func NewCollectionView(st store.Store, cascadeDelete bool, log zerolog.Logger) *CollectionView {
	return &CollectionView{store: st, cascade: cascadeDelete, log: log.With().Str("view", "collections").Logger()}
}

// readCollections treats an absent user record as an empty sequence.
func readCollections(ctx context.Context, st store.Store, userID string) ([]models.Collection, error) {
	rec, err := st.ReadUserRecord(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return []models.Collection{}, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Collections, nil
}

func (v *CollectionView) Load(ctx context.Context, s CollectionState, user models.Identity) (CollectionState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	cols, err := readCollections(ctx, v.store, user.ID)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error loading collections")
		return s.WithNotice("Could not load collections"), remote("load collections", err)
	}
	return s.WithCollections(cols), nil
}

// Create appends name to the stored sequence. Empty and duplicate names are rejected
// without a write.
func (v *CollectionView) Create(ctx context.Context, s CollectionState, user models.Identity, name string) (CollectionState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	if name == "" {
		return s, ErrEmptyName
	}
	if models.HasCollection(s.Collections, name) {
		return s, ErrDuplicateCollection
	}

	cols, err := readCollections(ctx, v.store, user.ID)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error creating collection")
		return s.WithNotice("Could not create collection"), remote("create collection", err)
	}
	if models.HasCollection(cols, name) {
		return s, ErrDuplicateCollection
	}

	updated := append(slices.Clone(cols), models.Collection{Name: name})
	if err := v.store.WriteUserRecord(ctx, user.ID, updated); err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Str("collection", name).Msg("Error creating collection")
		return s.WithNotice("Could not create collection"), remote("create collection", err)
	}

	v.log.Info().Str("user", user.ID).Str("collection", name).Msg("Created collection")
	return s.WithCollections(updated).SetDraft("").CloseDialog(), nil
}

// Delete removes the entry matching name. A name that is not stored is a no-op.
func (v *CollectionView) Delete(ctx context.Context, s CollectionState, user models.Identity, name string) (CollectionState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}

	cols, err := readCollections(ctx, v.store, user.ID)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error deleting collection")
		return s.WithNotice("Could not delete collection"), remote("delete collection", err)
	}

	idx := slices.IndexFunc(cols, func(c models.Collection) bool { return c.Name == name })
	if idx < 0 {
		return s, nil
	}
	updated := slices.Delete(slices.Clone(cols), idx, idx+1)

	if v.cascade {
		b := store.NewBatch(user.ID).SetUserRecord(updated).DeleteCollectionCards(name)
		err = v.store.Commit(ctx, b)
	} else {
		err = v.store.WriteUserRecord(ctx, user.ID, updated)
	}
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Str("collection", name).Msg("Error deleting collection")
		return s.WithNotice("Could not delete collection"), remote("delete collection", err)
	}

	v.log.Info().Str("user", user.ID).Str("collection", name).Bool("cascade", v.cascade).Msg("Deleted collection")
	if s.Selected == name {
		s = s.Navigate("")
	}
	return s.WithCollections(updated), nil
}
