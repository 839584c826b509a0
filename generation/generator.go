// Package generation talks to the flashcard generation service.
package generation

import (
	"context"
	"errors"

	"github.com/andrewpaige1/flashcards-api/models"
)

// ErrNoFlashcards is returned when the service answers without any cards.
var ErrNoFlashcards = errors.New("generation: no flashcards returned")

// Request is the body of POST /generate.
type Request struct {
	Data          string `json:"data" validate:"required"`
	Lang          string `json:"lang"`
	NumFlashcards int    `json:"numFlashcards" validate:"min=1,max=50"`
	Difficulty    string `json:"difficulty"`
	AnswerType    string `json:"answerType"`
	FileType      string `json:"fileType,omitempty"`
}

// Generator creates flashcards and suggests study topics.
type Generator interface {
	// Recommend suggests one topic given the comma-joined names of existing collections.
	Recommend(ctx context.Context, topics string) (string, error)
	Generate(ctx context.Context, req Request) ([]models.Flashcard, error)
}

// GenerateResponse is the reply of POST /generate.
type GenerateResponse struct {
	Flashcards []models.Flashcard `json:"flashcards,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// RecommendResponse is the reply of GET /generate.
type RecommendResponse struct {
	RecommendedTopic string `json:"recommendedTopic"`
}
