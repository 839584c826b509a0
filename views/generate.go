package views

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/extract"
	"github.com/andrewpaige1/flashcards-api/generation"
	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store"
)

// GenerationParams are the controls of the generation form.
type GenerationParams struct {
	Lang          string       `json:"lang"`
	NumFlashcards int          `json:"numFlashcards"`
	Difficulty    string       `json:"difficulty"`
	AnswerType    string       `json:"answerType"`
	InputType     extract.Kind `json:"inputType"`
}

func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Lang:          "English",
		NumFlashcards: 10,
		Difficulty:    "Medium",
		AnswerType:    "True or False",
		InputType:     extract.KindTopic,
	}
}

// Merge overlays the non-zero fields of p onto base.
func (base GenerationParams) Merge(p GenerationParams) GenerationParams {
	if p.Lang != "" {
		base.Lang = p.Lang
	}
	if p.NumFlashcards > 0 {
		base.NumFlashcards = p.NumFlashcards
	}
	if p.Difficulty != "" {
		base.Difficulty = p.Difficulty
	}
	if p.AnswerType != "" {
		base.AnswerType = p.AnswerType
	}
	if p.InputType != "" {
		base.InputType = p.InputType
	}
	return base
}

// GenerationState is the generation screen.
type GenerationState struct {
	Params           GenerationParams   `json:"params"`
	RecommendedTopic string             `json:"recommendedTopic"`
	Cards            []models.Flashcard `json:"flashcards"`
	Flipped          map[int]bool       `json:"flipped"`
	DialogOpen       bool               `json:"dialogOpen"`
	Name             string             `json:"name"`
	Notice           string             `json:"notice,omitempty"`
	SavedCollection  string             `json:"savedCollection,omitempty"`
}

func NewGenerationState() GenerationState {
	return GenerationState{
		Params:  DefaultGenerationParams(),
		Cards:   []models.Flashcard{},
		Flipped: map[int]bool{},
	}
}

func (s GenerationState) SetParams(p GenerationParams) GenerationState {
	s.Params = s.Params.Merge(p)
	return s
}

// WithCards replaces the generated list and resets its flip marks.
func (s GenerationState) WithCards(cards []models.Flashcard) GenerationState {
	s.Cards = cards
	s.Flipped = map[int]bool{}
	s.Notice = ""
	return s
}

func (s GenerationState) Flip(index int) GenerationState {
	if index < 0 || index >= len(s.Cards) {
		return s
	}
	flipped := maps.Clone(s.Flipped)
	if flipped == nil {
		flipped = map[int]bool{}
	}
	flipped[index] = !flipped[index]
	s.Flipped = flipped
	return s
}

func (s GenerationState) OpenDialog() GenerationState {
	s.DialogOpen = true
	return s
}

func (s GenerationState) CloseDialog() GenerationState {
	s.DialogOpen = false
	return s
}

func (s GenerationState) SetName(name string) GenerationState {
	s.Name = name
	return s
}

func (s GenerationState) WithNotice(msg string) GenerationState {
	s.Notice = msg
	return s
}

// Route is where the client should navigate after a successful save.
func (s GenerationState) Route() string {
	if s.SavedCollection == "" {
		return ""
	}
	return "/flashcards?id=" + s.SavedCollection
}

// Upload is one generation form submission.
type Upload struct {
	Topic string
	Data  []byte
}

// GenerationView drives the generation screen.
type GenerationView struct {
	store     store.Store
	generator generation.Generator
	extractor extract.Router
	log       zerolog.Logger
}

func NewGenerationView(st store.Store, gen generation.Generator, ex extract.Router, log zerolog.Logger) *GenerationView {
	return &GenerationView{store: st, generator: gen, extractor: ex, log: log.With().Str("view", "generation").Logger()}
}

// Recommend asks the generation service for a topic related to the user's collections.
func (v *GenerationView) Recommend(ctx context.Context, s GenerationState, user models.Identity) (GenerationState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	cols, err := readCollections(ctx, v.store, user.ID)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error loading collections for recommendation")
		return s.WithNotice("Could not load collections"), remote("recommend topic", err)
	}

	topic, err := v.generator.Recommend(ctx, strings.Join(models.CollectionNames(cols), ", "))
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error fetching recommended topic")
		return s.WithNotice("Could not fetch a recommended topic"), remote("recommend topic", err)
	}
	s.RecommendedTopic = topic
	return s, nil
}

// Generate extracts the submission's text and replaces the generated list with the
// service's cards. Any failure leaves the previous cards in place.
func (v *GenerationView) Generate(ctx context.Context, s GenerationState, user models.Identity, params GenerationParams, in Upload) (GenerationState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	s = s.SetParams(params)

	text, err := v.extractor.Extract(ctx, s.Params.InputType, in.Topic, in.Data)
	if err != nil {
		v.log.Warn().Err(err).Str("user", user.ID).Str("kind", string(s.Params.InputType)).Msg("Error extracting upload")
		return s, &ExtractionError{Kind: string(s.Params.InputType), Err: err}
	}

	req := generation.Request{
		Data:          text,
		Lang:          s.Params.Lang,
		NumFlashcards: s.Params.NumFlashcards,
		Difficulty:    s.Params.Difficulty,
		AnswerType:    s.Params.AnswerType,
	}
	if s.Params.InputType != extract.KindTopic {
		req.FileType = string(s.Params.InputType)
	}

	cards, err := v.generator.Generate(ctx, req)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error generating flashcards")
		return s.WithNotice("Could not generate flashcards"), remote("generate flashcards", err)
	}

	v.log.Info().Str("user", user.ID).Int("count", len(cards)).Msg("Generated flashcards")
	s.SavedCollection = ""
	return s.WithCards(cards), nil
}

// Save stores the generated cards as a new collection named name. The collection entry
// and every card are written in one atomic batch.
func (v *GenerationView) Save(ctx context.Context, s GenerationState, user models.Identity, name string) (GenerationState, error) {
	if !user.IsSignedIn {
		return s, ErrNotSignedIn
	}
	if name == "" {
		return s, ErrEmptyName
	}

	cols, err := readCollections(ctx, v.store, user.ID)
	if err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Msg("Error saving generated flashcards")
		return s.WithNotice("Could not save flashcards"), remote("save flashcards", err)
	}
	if models.HasCollection(cols, name) {
		return s, ErrDuplicateCollection
	}

	b := store.NewBatch(user.ID).SetUserRecord(append(slices.Clone(cols), models.Collection{Name: name}))
	for _, c := range s.Cards {
		b.CreateCard(name, models.Flashcard{Front: c.Front, Back: c.Back, Date: c.Date, Thematic: c.Thematic})
	}
	if err := v.store.Commit(ctx, b); err != nil {
		v.log.Error().Err(err).Str("user", user.ID).Str("collection", name).Msg("Error saving generated flashcards")
		return s.WithNotice("Could not save flashcards"), remote("save flashcards", err)
	}

	v.log.Info().Str("user", user.ID).Str("collection", name).Int("cards", len(s.Cards)).Msg("Saved generated flashcards")
	s.SavedCollection = name
	return s.SetName("").CloseDialog(), nil
}
