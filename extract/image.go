package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const ocrPrompt = "Transcribe all text visible in this image. Reply with the text only."

var ErrNotImage = errors.New("not an image")

// ImageOCR reads the text in an image with an OpenAI vision model.
type ImageOCR struct {
	apiKey string
	model  string
	client *openai.Client
}

var _ Extractor = (*ImageOCR)(nil)

func NewImageOCR(apiKey, model string) *ImageOCR {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &ImageOCR{apiKey: apiKey, model: model, client: openai.NewClient(apiKey)}
}

func (o *ImageOCR) Extract(ctx context.Context, data []byte) (string, error) {
	uri, err := dataURI(data)
	if err != nil {
		return "", err
	}
	if o.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL:    uri,
					Detail: openai.ImageURLDetailHigh,
				}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no text returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func dataURI(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
