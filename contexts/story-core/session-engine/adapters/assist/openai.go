package assist

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator asks the hosted model for a single fill matching the
// blank's semantic tag.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey string, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIGenerator) GenerateWord(ctx context.Context, tag string, genre string) (string, error) {
	prompt := fmt.Sprintf(
		"Give exactly one %s suitable for a %s story. Reply with the word or short phrase only, no punctuation.",
		strings.ToLower(strings.ReplaceAll(tag, "_", " ")),
		strings.ToLower(genre),
	)
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: 16,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You fill single blanks in collaborative stories. Answer with the fill only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("assist model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
