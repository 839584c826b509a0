// Package speech reads flashcard text aloud for the audio mode of the flashcard screen.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
)

// maxInput is the longest text the speech endpoint accepts.
const maxInput = 4096

var ErrEmptyText = errors.New("no text to speak")

// Speaker synthesizes text into audio.
type Speaker interface {
	// Speak returns the audio bytes and their content type.
	Speak(ctx context.Context, text string) ([]byte, string, error)
}

// OpenAISpeaker uses the OpenAI text to speech endpoint.
type OpenAISpeaker struct {
	apiKey string
	voice  openai.SpeechVoice
	client *openai.Client
}

var _ Speaker = (*OpenAISpeaker)(nil)

func NewOpenAISpeaker(apiKey, voice string) *OpenAISpeaker {
	v := openai.SpeechVoice(voice)
	if v == "" {
		v = openai.VoiceAlloy
	}
	return &OpenAISpeaker{apiKey: apiKey, voice: v, client: openai.NewClient(apiKey)}
}

func (s *OpenAISpeaker) Speak(ctx context.Context, text string) ([]byte, string, error) {
	if text == "" {
		return nil, "", ErrEmptyText
	}
	text = truncate(text, maxInput)
	if s.apiKey == "" {
		return nil, "", fmt.Errorf("OpenAI API key not found")
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, "", fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, "", fmt.Errorf("read speech: %w", err)
	}
	return audio, "audio/mpeg", nil
}

// truncate cuts text to at most n runes.
func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
