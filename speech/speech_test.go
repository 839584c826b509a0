package speech

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSpeakRejectsEmptyText(t *testing.T) {
	s := NewOpenAISpeaker("key", "")
	_, _, err := s.Speak(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSpeakWithoutKey(t *testing.T) {
	s := NewOpenAISpeaker("", "nova")
	_, _, err := s.Speak(context.Background(), "hello")
	assert.EqualError(t, err, "OpenAI API key not found")
}

func TestTruncateKeepsWholeRunes(t *testing.T) {
	long := strings.Repeat("é", maxInput+10)
	got := truncate(long, maxInput)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxInput, utf8.RuneCountInString(got))

	assert.Equal(t, "short", truncate("short", maxInput))
}
