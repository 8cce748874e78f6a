package types

// SourceType tells apart uploaded files and crawled pages.
type SourceType string

const (
	SourceTypeDocument SourceType = "document"
	SourceTypeURL      SourceType = "url"
)

// DocumentMetadata describes where a document came from.
type DocumentMetadata struct {
	Source string     `json:"source"` // filename or URL
	Type   SourceType `json:"type"`
	Title  string     `json:"title,omitempty"`
}

// Document is a top-level ingested unit. It is created once per ingestion
// and never updated afterwards.
type Document struct {
	ID        string           `json:"id"`
	OwnerID   string           `json:"owner_id"`
	Content   string           `json:"content"`
	Metadata  DocumentMetadata `json:"metadata"`
	CreatedAt int64            `json:"created_at"`
}

// Section is a retrievable chunk of a Document. Sections belong to exactly
// one Document and are written in chunk-index order during ingestion.
type Section struct {
	ID         string           `json:"id"`
	DocumentID string           `json:"document_id"`
	OwnerID    string           `json:"owner_id"`
	Content    string           `json:"content"`
	ChunkIndex int              `json:"chunk_index"`
	Metadata   DocumentMetadata `json:"metadata"`
	CreatedAt  int64            `json:"created_at"`
}

// SearchMatch is one similarity search hit, ordered by descending score.
type SearchMatch struct {
	Content    string           `json:"content"`
	Metadata   DocumentMetadata `json:"metadata"`
	ChunkIndex int              `json:"chunk_index"`
	Score      float32          `json:"score"`
}
