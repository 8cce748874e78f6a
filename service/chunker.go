package service

import (
	"fmt"

	"github.com/tieubaoca/cortex-be/types"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits raw text into overlapping fixed-size windows. Size and
// overlap count characters, not bytes, so a window never cuts a rune in
// half. There is no sentence or token awareness.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker validates the chunking parameters up front. An overlap equal to
// or larger than the chunk size would make the stride non-positive and the
// split loop would never advance, so it is rejected here instead.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", types.ErrInvalidChunking, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", types.ErrInvalidChunking, overlap, chunkSize)
	}
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// NewDefaultChunker returns a chunker with the 1000/200 defaults.
func NewDefaultChunker() *Chunker {
	c, _ := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	return c
}

// Split returns the overlapping windows of text in order. Consecutive chunks
// share exactly the configured overlap; the final chunk may be shorter.
// Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	chunks := make([]string, 0, (len(runes)+stride-1)/stride)
	for start := 0; start < len(runes); start += stride {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
