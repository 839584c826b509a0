package views

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/generation"
	"github.com/andrewpaige1/flashcards-api/models"
	"github.com/andrewpaige1/flashcards-api/store/memstore"
)

var (
	alice   = models.Identity{ID: "alice", IsSignedIn: true, IsLoaded: true}
	nobody  = models.Identity{IsLoaded: true}
	errDown = errors.New("store unavailable")
)

func seedCollections(t *testing.T, st *memstore.Store, user string, names ...string) {
	t.Helper()
	cols := make([]models.Collection, len(names))
	for i, n := range names {
		cols[i] = models.Collection{Name: n}
	}
	require.NoError(t, st.WriteUserRecord(context.Background(), user, cols))
}

func seedCard(t *testing.T, st *memstore.Store, user, collection, front, back string) string {
	t.Helper()
	id, err := st.CreateCard(context.Background(), user, collection, models.Flashcard{Front: front, Back: back})
	require.NoError(t, err)
	return id
}

func storedNames(t *testing.T, st *memstore.Store, user string) []string {
	t.Helper()
	rec, err := st.ReadUserRecord(context.Background(), user)
	require.NoError(t, err)
	return models.CollectionNames(rec.Collections)
}

type stubGenerator struct {
	topics   string
	topic    string
	requests []generation.Request
	cards    []models.Flashcard
	err      error
}

func (g *stubGenerator) Recommend(_ context.Context, topics string) (string, error) {
	g.topics = topics
	return g.topic, g.err
}

func (g *stubGenerator) Generate(_ context.Context, req generation.Request) ([]models.Flashcard, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.cards, nil
}

var nopLog = zerolog.Nop()
