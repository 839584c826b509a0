package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/andrewpaige1/flashcards-api/models"
)

const systemPrompt = `You create study flashcards. Reply with a JSON object of the form
{"flashcards":[{"front":"...","back":"..."}]} and nothing else. Keep the front a short question or term
and the back a concise answer.`

// OpenAIGenerator serves generation requests with an OpenAI chat model.
type OpenAIGenerator struct {
	apiKey string
	model  string
	client *openai.Client
}

var _ Generator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

func (g *OpenAIGenerator) Recommend(ctx context.Context, topics string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	prompt := "Suggest one new study topic for a flashcard deck. Respond with only the topic."
	if topics != "" {
		prompt = fmt.Sprintf("The learner already studies: %s. Suggest one related topic they have not covered yet. Respond with only the topic.", topics)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   30,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no recommendation returned")
	}
	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`), nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) ([]models.Flashcard, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoFlashcards
	}
	return parseFlashcards(resp.Choices[0].Message.Content)
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d flashcards in %s.\n", req.NumFlashcards, orDefault(req.Lang, "English"))
	fmt.Fprintf(&b, "Difficulty: %s.\n", orDefault(req.Difficulty, "Medium"))
	fmt.Fprintf(&b, "Answer type: %s.\n", orDefault(req.AnswerType, "True or False"))
	if req.FileType != "" {
		fmt.Fprintf(&b, "The material below was extracted from a %s upload.\n", req.FileType)
	} else {
		b.WriteString("The material below is a topic.\n")
	}
	b.WriteString("Material:\n")
	b.WriteString(req.Data)
	return b.String()
}

func parseFlashcards(content string) ([]models.Flashcard, error) {
	var out GenerateResponse
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decode flashcards: %w", err)
	}

	cards := make([]models.Flashcard, 0, len(out.Flashcards))
	for _, c := range out.Flashcards {
		if c.Front == "" || c.Back == "" {
			continue
		}
		cards = append(cards, models.Flashcard{Front: c.Front, Back: c.Back})
	}
	if len(cards) == 0 {
		return nil, ErrNoFlashcards
	}
	return cards, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
