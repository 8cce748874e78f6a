package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tieubaoca/cortex-be/database"
	"github.com/tieubaoca/cortex-be/types"
)

// Retrieval policy. Fixed here rather than exposed per request.
const (
	matchThreshold float32 = 0.5
	matchCount             = 5
)

const systemPromptTemplate = `You are Cortex, an enterprise AI assistant.
Use the following Context to answer the User Query.

Rules:
1. Only use the provided Context. If the answer isn't there, say "I don't have that information in my knowledge base." You may offer general knowledge when the user explicitly asks for it.
2. Be professional and concise.
3. Cite your sources by their labels.

Context:
%s`

// RAGService is the retrieval-augmented pipeline: it ingests documents and
// web pages into the store and answers chat queries from the retrieved
// context. Every operation is scoped to the requesting user and stateless
// between calls.
type RAGService interface {
	Chat(ctx context.Context, ownerID, message string) (*types.ChatResult, error)
	IngestDocument(ctx context.Context, ownerID, filename, content string) (*types.IngestResult, error)
	IngestURL(ctx context.Context, ownerID, url, title, content string) (*types.IngestResult, error)
}

type ragService struct {
	chunker  *Chunker
	embedder Embedder
	store    database.DocumentStore
	ai       AIService
}

func NewRAGService(chunker *Chunker, embedder Embedder, store database.DocumentStore, ai AIService) RAGService {
	if chunker == nil {
		chunker = NewDefaultChunker()
	}
	return &ragService{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		ai:       ai,
	}
}

// Chat runs one stateless RAG turn: embed the query, retrieve the owner's
// most similar sections, assemble them into a context block and generate a
// completion. Retrieval is best-effort; embedding and generation failures
// fail the turn.
func (s *ragService) Chat(ctx context.Context, ownerID, message string) (*types.ChatResult, error) {
	queryEmbedding, err := s.embedder.EmbedQuery(ctx, message)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.Search(ctx, ownerID, queryEmbedding, matchThreshold, matchCount)
	if err != nil {
		// Degrade to an empty context; the model falls back to the
		// "not available" answer instead of the request failing.
		log.Printf("retrieval failed for user %s: %v", ownerID, err)
		matches = nil
	}

	contextBlock, sources := assembleContext(matches)

	response, err := s.ai.Generate(ctx, fmt.Sprintf(systemPromptTemplate, contextBlock), message)
	if err != nil {
		return nil, err
	}

	return &types.ChatResult{
		Response: response,
		Sources:  sources,
	}, nil
}

func (s *ragService) IngestDocument(ctx context.Context, ownerID, filename, content string) (*types.IngestResult, error) {
	return s.ingest(ctx, ownerID, content, types.DocumentMetadata{
		Source: filename,
		Type:   types.SourceTypeDocument,
		Title:  filename,
	})
}

func (s *ragService) IngestURL(ctx context.Context, ownerID, url, title, content string) (*types.IngestResult, error) {
	if title == "" {
		title = url
	}
	return s.ingest(ctx, ownerID, content, types.DocumentMetadata{
		Source: url,
		Type:   types.SourceTypeURL,
		Title:  title,
	})
}

// ingest creates the document record, then embeds and stores each chunk in
// index order. A failed chunk aborts the rest; sections already written are
// kept and the returned count says how far ingestion got.
func (s *ragService) ingest(ctx context.Context, ownerID, content string, meta types.DocumentMetadata) (*types.IngestResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, types.ErrEmptyContent
	}

	documentID, err := s.store.CreateDocument(ctx, &types.Document{
		OwnerID:  ownerID,
		Content:  content,
		Metadata: meta,
	})
	if err != nil {
		return nil, err
	}

	chunks := s.chunker.Split(content)
	result := &types.IngestResult{}
	for i, chunk := range chunks {
		embedding, err := s.embedder.EmbedDocument(ctx, chunk, meta.Title)
		if err != nil {
			return result, fmt.Errorf("chunk %d of %d: %w", i, len(chunks), err)
		}
		_, err = s.store.AddSection(ctx, &types.Section{
			DocumentID: documentID,
			OwnerID:    ownerID,
			Content:    chunk,
			ChunkIndex: i,
			Metadata:   meta,
		}, embedding)
		if err != nil {
			return result, fmt.Errorf("chunk %d of %d: %w", i, len(chunks), err)
		}
		result.ChunksProcessed++
	}
	return result, nil
}

// assembleContext formats matches into the prompt context block and collects
// the distinct source labels in first-occurrence order. Matches arrive
// similarity-descending and are kept in that order.
func assembleContext(matches []types.SearchMatch) (string, []string) {
	var block strings.Builder
	sources := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, match := range matches {
		source := match.Metadata.Source
		if source == "" {
			source = "Unknown"
		}
		fmt.Fprintf(&block, "---\nSource: %s\nContent: %s\n", source, match.Content)
		if _, ok := seen[source]; !ok {
			seen[source] = struct{}{}
			sources = append(sources, source)
		}
	}
	return block.String(), sources
}
