package generation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/andrewpaige1/flashcards-api/models"
)

// HTTPClient calls a remote generation service over its /generate contract.
type HTTPClient struct {
	client *resty.Client
}

var _ Generator = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &HTTPClient{client: c}
}

func (c *HTTPClient) Recommend(ctx context.Context, topics string) (string, error) {
	var out RecommendResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("topics", topics).
		SetResult(&out).
		Get("/generate")
	if err != nil {
		return "", fmt.Errorf("recommend request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("recommend status %d: %s", resp.StatusCode(), resp.String())
	}
	return out.RecommendedTopic, nil
}

func (c *HTTPClient) Generate(ctx context.Context, req Request) ([]models.Flashcard, error) {
	var out GenerateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		SetError(&out).
		Post("/generate")
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("generate: %s", out.Error)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("generate status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Flashcards) == 0 {
		return nil, ErrNoFlashcards
	}
	return out.Flashcards, nil
}
