package service

import "context"

// CompletionTemperature favors determinism over creativity; answers are
// supposed to restate retrieved context, not invent.
const CompletionTemperature = 0.1

// AIService is the completion backend. Generate runs a single stateless
// completion; no conversation history is kept between calls.
type AIService interface {
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
