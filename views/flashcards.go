package views

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

const (
	DefaultFrontColor = "#0F9ED5"
	DefaultBackColor  = "#E54792"
)

// CardDraft holds the create-card form.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardState is the flashcard browsing screen for one selected collection.
//
// Flip state is keyed by position in Cards unless FlipByID is set, so re-filtering or
// re-sorting leaves the flip marks on whatever card now sits at that position.
type FlashcardState struct {
	Collection    string             `json:"collection"`
	Query         string             `json:"query"`
	Sort          SortOrder          `json:"sort"`
	Cards         []models.Flashcard `json:"cards"`
	Flipped       map[string]bool    `json:"flipped"`
	FlipByID      bool               `json:"flipById"`
	FrontColor    string             `json:"frontColor"`
	BackColor     string             `json:"backColor"`
	AudioMode     bool               `json:"audioMode"`
	DeleteMode    bool               `json:"deleteMode"`
	SortMenuOpen  bool               `json:"sortMenuOpen"`
	ColorMenuOpen bool               `json:"colorMenuOpen"`
	DialogOpen    bool               `json:"dialogOpen"`
	Draft         CardDraft          `json:"draft"`
	LastSpoken    string             `json:"lastSpoken,omitempty"`
	Notice        string             `json:"notice,omitempty"`
}

// NewFlashcardState returns the screen with its initial controls.
func NewFlashcardState(flipByID bool) FlashcardState {
	return FlashcardState{
		Sort:       SortByName,
		Cards:      []models.Flashcard{},
		Flipped:    map[string]bool{},
		FlipByID:   flipByID,
		FrontColor: DefaultFrontColor,
		BackColor:  DefaultBackColor,
	}
}

// Select switches to another collection. The visible list is emptied until the next Load.
func (s FlashcardState) Select(name string) FlashcardState {
	if s.Collection != name {
		s.Cards = []models.Flashcard{}
	}
	s.Collection = name
	return s
}

func (s FlashcardState) SetQuery(q string) FlashcardState {
	s.Query = q
	return s
}

// SetSort picks a sort order and closes the sort menu.
func (s FlashcardState) SetSort(order SortOrder) FlashcardState {
	s.Sort = order
	s.SortMenuOpen = false
	return s
}

// WithCards replaces the visible list in full.
func (s FlashcardState) WithCards(cards []models.Flashcard) FlashcardState {
	s.Cards = cards
	s.Notice = ""
	return s
}

func (s FlashcardState) flipKey(index int) string {
	if s.FlipByID && s.Cards[index].ID != "" {
		return s.Cards[index].ID
	}
	return strconv.Itoa(index)
}

// Flip toggles the card at index. Out of range indexes are ignored.
func (s FlashcardState) Flip(index int) FlashcardState {
	if index < 0 || index >= len(s.Cards) {
		return s
	}
	flipped := maps.Clone(s.Flipped)
	if flipped == nil {
		flipped = map[string]bool{}
	}
	key := s.flipKey(index)
	flipped[key] = !flipped[key]
	s.Flipped = flipped
	return s
}

func (s FlashcardState) IsFlipped(index int) bool {
	if index < 0 || index >= len(s.Cards) {
		return false
	}
	return s.Flipped[s.flipKey(index)]
}

func (s FlashcardState) ToggleAudio() FlashcardState {
	s.AudioMode = !s.AudioMode
	return s
}

func (s FlashcardState) ToggleDeleteMode() FlashcardState {
	s.DeleteMode = !s.DeleteMode
	return s
}

func (s FlashcardState) ToggleSortMenu() FlashcardState {
	s.SortMenuOpen = !s.SortMenuOpen
	return s
}

func (s FlashcardState) ToggleColorMenu() FlashcardState {
	s.ColorMenuOpen = !s.ColorMenuOpen
	return s
}

// SetColors changes the card colors; empty values keep the current color.
func (s FlashcardState) SetColors(front, back string) FlashcardState {
	if front != "" {
		s.FrontColor = front
	}
	if back != "" {
		s.BackColor = back
	}
	return s
}

func (s FlashcardState) OpenDialog() FlashcardState {
	s.DialogOpen = true
	return s
}

func (s FlashcardState) CloseDialog() FlashcardState {
	s.DialogOpen = false
	return s
}

func (s FlashcardState) SetDraft(front, back string) FlashcardState {
	s.Draft = CardDraft{Front: front, Back: back}
	return s
}

func (s FlashcardState) WithNotice(msg string) FlashcardState {
	s.Notice = msg
	return s
}

// PlayAudio records the text of a speak-aloud tap. Flip state is left alone.
func (s FlashcardState) PlayAudio(text string) FlashcardState {
	s.LastSpoken = text
	return s
}

// CardView is one rendered card with the affordances the current modes allow.
type CardView struct {
	Index      int              `json:"index"`
	Card       models.Flashcard `json:"card"`
	Flipped    bool             `json:"flipped"`
	Text       string           `json:"text"`
	Color      string           `json:"color"`
	ShowAudio  bool             `json:"showAudio"`
	ShowDelete bool             `json:"showDelete"`
}

// Render projects the visible list into per-card views.
func (s FlashcardState) Render() []CardView {
	out := make([]CardView, 0, len(s.Cards))
	for i, c := range s.Cards {
		cv := CardView{
			Index:      i,
			Card:       c,
			Flipped:    s.IsFlipped(i),
			Text:       c.Front,
			Color:      s.FrontColor,
			ShowAudio:  s.AudioMode,
			ShowDelete: s.DeleteMode && c.ID != "",
		}
		if cv.Flipped {
			cv.Text = c.Back
			cv.Color = s.BackColor
		}
		out = append(out, cv)
	}
	return out
}

// FlashcardView loads and mutates the cards of the selected collection.
type FlashcardView struct {
	store store.Store
	log   zerolog.Logger
}

func NewFlashcardView(st store.Store, log zerolog.Logger) *FlashcardView {
	return &FlashcardView{store: st, log: log.With().Str("view", "flashcards").Logger()}
}

// Load reads every card of the selected collection and replaces the visible list with
// the filtered and sorted projection. Without a selection the state is returned as is.
func (v *FlashcardView) Load(ctx context.Context, s FlashcardState, user models.Identity) (FlashcardState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	if s.Collection == "" {
		return s, nil
	}

	cards, err := v.store.ReadCollectionCards(ctx, user.ID, s.Collection)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Str("collection", s.Collection).Msg("Error loading flashcards")
		return s.WithNotice("Could not load flashcards"), remote("load flashcards", err)
	}
	return s.WithCards(Derive(cards, s.Query, s.Sort)), nil
}

// Create writes one card and appends it, with the id the store assigned, once the
// write has resolved.
func (v *FlashcardView) Create(ctx context.Context, s FlashcardState, user models.Identity, front, back string) (FlashcardState, error) {
	if front == "" || back == "" {
		return s, ErrEmptyCard
	}
	if s.Collection == "" {
		return s, ErrNoCollection
	}
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}

	card := models.Flashcard{Front: front, Back: back}
	id, err := v.store.CreateCard(ctx, user.ID, s.Collection, card)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Str("collection", s.Collection).Msg("Error creating flashcard")
		return s.WithNotice("Could not create flashcard"), remote("create flashcard", err)
	}
	card.ID = id

	cards := append(slices.Clone(s.Cards), card)
	return s.WithCards(cards).SetDraft("", "").CloseDialog(), nil
}

// Delete removes the card with id from the store and from the visible list.
func (v *FlashcardView) Delete(ctx context.Context, s FlashcardState, user models.Identity, id string) (FlashcardState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	if s.Collection == "" {
		return s, ErrNoCollection
	}

	err := v.store.DeleteCard(ctx, user.ID, s.Collection, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		v.log.Error().Err(err).Str("user", user.ID).Str("card", id).Msg("Error deleting flashcard")
		return s.WithNotice("Could not delete flashcard"), remote("delete flashcard", err)
	}

	cards := slices.DeleteFunc(slices.Clone(s.Cards), func(c models.Flashcard) bool { return c.ID == id })
	return s.WithCards(cards), nil
}
