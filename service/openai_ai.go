package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/cortex-be/types"
)

// OpenAIService talks to any OpenAI-compatible completion endpoint. Groq
// exposes one, which is what the default deployment points at.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client: client,
		model:  model,
	}
}

func (s *OpenAIService) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       s.model,
			Temperature: CompletionTemperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userMessage,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrGenerationBackend, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response generated", types.ErrGenerationBackend)
	}
	return resp.Choices[0].Message.Content, nil
}
