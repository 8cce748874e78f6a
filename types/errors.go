package types

import "errors"

var (
	// ErrUnauthorized is returned when no valid identity accompanies a request.
	ErrUnauthorized = errors.New("missing or invalid authentication token")

	// ErrEmptyContent is returned when no extractable text remains after trimming.
	ErrEmptyContent = errors.New("empty document content")

	// ErrInvalidChunking is returned for chunking parameters that would never terminate.
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrEmbeddingUnavailable is returned when the embedding backend is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding backend not configured")

	// ErrEmbeddingBackend wraps transport or backend failures from the embedding call.
	ErrEmbeddingBackend = errors.New("embedding backend error")

	// ErrStoreWrite is returned when the document store does not acknowledge a write.
	ErrStoreWrite = errors.New("document store write failed")

	// ErrRetrieval wraps similarity search failures. Chat treats it as
	// non-fatal and degrades to an empty context.
	ErrRetrieval = errors.New("similarity search failed")

	// ErrGenerationBackend wraps completion backend failures. No fallback text
	// is generated.
	ErrGenerationBackend = errors.New("generation backend error")

	// ErrExtraction is returned when file text extraction fails.
	ErrExtraction = errors.New("text extraction failed")

	// ErrFetch is returned when a URL cannot be fetched or cleaned.
	ErrFetch = errors.New("url fetch failed")
)
