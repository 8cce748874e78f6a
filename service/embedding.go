package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/cortex-be/types"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

const DefaultEmbeddingModel = "text-embedding-004"

// Embedder turns text into a fixed-length vector. Document embeddings may
// carry a title hint to bias the result; query embeddings never do.
type Embedder interface {
	EmbedDocument(ctx context.Context, text, title string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder calls Gemini's embedding models. A rate limiter paces
// outbound calls against the backend quota; pass nil to disable pacing.
type GeminiEmbedder struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

func NewGeminiEmbedder(ctx context.Context, apiKey, model string, limiter *rate.Limiter) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, types.ErrEmbeddingUnavailable
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingUnavailable, err)
	}
	return &GeminiEmbedder{
		client:  client,
		model:   model,
		limiter: limiter,
	}, nil
}

func (e *GeminiEmbedder) EmbedDocument(ctx context.Context, text, title string) ([]float32, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	var res *genai.EmbedContentResponse
	var err error
	if title != "" {
		res, err = em.EmbedContentWithTitle(ctx, title, genai.Text(collapseNewlines(text)))
	} else {
		res, err = em.EmbedContent(ctx, genai.Text(collapseNewlines(text)))
	}
	return embeddingValues(res, err)
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalQuery

	res, err := em.EmbedContent(ctx, genai.Text(collapseNewlines(text)))
	return embeddingValues(res, err)
}

func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}

func (e *GeminiEmbedder) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

func embeddingValues(res *genai.EmbedContentResponse, err error) ([]float32, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingBackend, err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", types.ErrEmbeddingBackend)
	}
	return res.Embedding.Values, nil
}

// collapseNewlines flattens text to a single line. The embedding backend is
// sensitive to raw newlines in content.
func collapseNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}
