package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/andrewpaige1/flashcards-api/models"
)

type failingGenerator struct{ calls int }

func (f *failingGenerator) Recommend(context.Context, string) (string, error) {
	f.calls++
	return "", errors.New("down")
}

func (f *failingGenerator) Generate(context.Context, Request) ([]models.Flashcard, error) {
	f.calls++
	return nil, errors.New("down")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingGenerator{}
	b := NewBreaker(inner, zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := b.Generate(context.Background(), Request{})
		assert.Error(t, err)
	}
	_, err := b.Recommend(context.Background(), "")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, inner.calls)
}
