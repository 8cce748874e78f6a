package database

import (
	"context"

	"github.com/tieubaoca/cortex-be/types"
)

// DocumentStore persists documents and their embedded sections and answers
// similarity searches. Similarity computation is delegated entirely to the
// backing store; this interface only fixes the contract.
//
// Every search is scoped to an owner. No code path may return sections whose
// document belongs to a different owner.
type DocumentStore interface {
	// CreateDocument persists a document and returns its identifier. A write
	// that yields no identifier is a failure.
	CreateDocument(ctx context.Context, doc *types.Document) (string, error)

	// AddSection appends one embedded chunk to a document. Sections are
	// written one by one; callers tolerate partially ingested documents when
	// a later write fails.
	AddSection(ctx context.Context, section *types.Section, embedding []float32) (string, error)

	// Search returns the owner's sections most similar to the query vector,
	// descending by similarity, excluding matches below threshold, capped
	// at limit.
	Search(ctx context.Context, ownerID string, queryEmbedding []float32, threshold float32, limit int) ([]types.SearchMatch, error)

	// DeleteDocument removes a document and all of its sections.
	DeleteDocument(ctx context.Context, ownerID, documentID string) error
}
