package generation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/andrewpaige1/flashcards-api/models"
)

// Breaker fails fast while the wrapped generator keeps failing. It never retries.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

var _ Generator = (*Breaker)(nil)

func NewBreaker(next Generator, log zerolog.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "generation",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Recommend(ctx context.Context, topics string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Recommend(ctx, topics)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *Breaker) Generate(ctx context.Context, req Request) ([]models.Flashcard, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.Flashcard), nil
}
