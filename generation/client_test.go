package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientRecommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Biology, Algebra", r.URL.Query().Get("topics"))
		_ = json.NewEncoder(w).Encode(RecommendResponse{RecommendedTopic: "Genetics"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 5*time.Second)
	topic, err := c.Recommend(context.Background(), "Biology, Algebra")
	require.NoError(t, err)
	assert.Equal(t, "Genetics", topic)
}

func TestHTTPClientGenerate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"flashcards":[{"front":"H2O","back":"water"},{"front":"NaCl","back":"salt"}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 5*time.Second)
	cards, err := c.Generate(context.Background(), Request{
		Data: "chemistry", Lang: "English", NumFlashcards: 2, Difficulty: "Easy", AnswerType: "Short",
	})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "H2O", cards[0].Front)
	assert.Equal(t, "salt", cards[1].Back)
	assert.Equal(t, 2, got.NumFlashcards)
	assert.Equal(t, "chemistry", got.Data)
}

func TestHTTPClientGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model overloaded"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), Request{Data: "x", NumFlashcards: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestParseFlashcards(t *testing.T) {
	cards, err := parseFlashcards(`{"flashcards":[{"front":"a","back":"b"},{"front":"","back":"skip"}]}`)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	_, err = parseFlashcards(`{"flashcards":[]}`)
	assert.ErrorIs(t, err, ErrNoFlashcards)

	_, err = parseFlashcards(`not json`)
	assert.Error(t, err)
}

func TestOpenAIGeneratorNoAPIKey(t *testing.T) {
	g := NewOpenAIGenerator("", "")
	_, err := g.Generate(context.Background(), Request{Data: "x", NumFlashcards: 1})
	require.Error(t, err)
	assert.Equal(t, "OpenAI API key not found", err.Error())
}

func TestBuildPromptMentionsParameters(t *testing.T) {
	p := buildPrompt(Request{Data: "photosynthesis", Lang: "French", NumFlashcards: 7, FileType: "word"})
	assert.Contains(t, p, "7 flashcards in French")
	assert.Contains(t, p, "word upload")
	assert.Contains(t, p, "Medium")
	assert.Contains(t, p, "photosynthesis")
}
