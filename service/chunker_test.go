package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/cortex-be/types"
)

func TestNewChunkerRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"negative overlap", 1000, -1},
		{"overlap equals chunk size", 1000, 1000},
		{"overlap above chunk size", 200, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.chunkSize, tt.overlap)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidChunking)
		})
	}
}

func TestSplitEmptyInput(t *testing.T) {
	c := NewDefaultChunker()
	assert.Empty(t, c.Split(""))
}

func TestSplitExactStride(t *testing.T) {
	// 2500 chars with 1000/200 -> starts at 0, 800, 1600, 2400.
	c := NewDefaultChunker()
	text := strings.Repeat("a", 2500)

	chunks := c.Split(text)
	require.Len(t, chunks, 4)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 900)
	assert.Len(t, chunks[3], 100)
}

func TestSplitOverlapProperty(t *testing.T) {
	c, err := NewChunker(50, 10)
	require.NoError(t, err)

	var b strings.Builder
	for i := 0; b.Len() < 333; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	text := b.String()[:333]

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
		if i > 0 && len(chunks[i-1]) == 50 {
			// Each chunk starts with the last 10 chars of its predecessor.
			assert.Equal(t, chunks[i-1][40:], chunk[:min(10, len(chunk))])
		}
	}
}

func TestSplitCountsCharactersNotBytes(t *testing.T) {
	c, err := NewChunker(10, 2)
	require.NoError(t, err)

	// Twenty 3-byte runes. Character semantics give stride 8 with starts
	// at 0, 8 and 16; byte slicing would cut runes apart.
	text := strings.Repeat("世", 20)
	chunks := c.Split(text)
	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
	}
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[1]))
	assert.Equal(t, 4, utf8.RuneCountInString(chunks[2]))
}

func TestSplitMixedWidthOverlap(t *testing.T) {
	c, err := NewChunker(6, 3)
	require.NoError(t, err)

	chunks := c.Split("aé漢z🚀bcdé漢")
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 6)
		if i > 0 && utf8.RuneCountInString(chunks[i-1]) == 6 {
			prev := []rune(chunks[i-1])
			cur := []rune(chunk)
			n := min(3, len(cur))
			assert.Equal(t, string(prev[3:3+n]), string(cur[:n]))
		}
	}
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	c := NewDefaultChunker()
	chunks := c.Split("hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitReconstruction(t *testing.T) {
	c, err := NewChunker(100, 20)
	require.NoError(t, err)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)

	chunks := c.Split(text)
	// Dropping each chunk's leading overlap reconstructs the input.
	var rebuilt strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			rebuilt.WriteString(chunk)
			continue
		}
		if len(chunk) > 20 {
			rebuilt.WriteString(chunk[20:])
		}
	}
	assert.Equal(t, text, rebuilt.String())
}
