package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/cortex-be/types"
)

func TestExtractTextUTF8(t *testing.T) {
	es := NewExtractService()
	out, err := es.ExtractText("notes.txt", []byte("plain utf-8 text"))
	require.NoError(t, err)
	assert.Equal(t, "plain utf-8 text", out)
}

func TestExtractTextLatin1Fallback(t *testing.T) {
	es := NewExtractService()
	// "café" in ISO 8859-1, invalid as UTF-8
	out, err := es.ExtractText("legacy.txt", []byte{'c', 'a', 'f', 0xe9})
	require.NoError(t, err)
	assert.Equal(t, "café", out)
}

func TestExtractTextEmptyContent(t *testing.T) {
	es := NewExtractService()
	for _, data := range [][]byte{nil, []byte(""), []byte("   \n\t  ")} {
		_, err := es.ExtractText("blank.txt", data)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrEmptyContent))
	}
}

func TestExtractTextBrokenPDF(t *testing.T) {
	es := NewExtractService()
	_, err := es.ExtractText("broken.pdf", []byte("not a pdf at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrExtraction))
}

func TestCleanTextStripsControlCharacters(t *testing.T) {
	es := NewExtractService()
	in := "first\u0000 line\r\nsecond\ufffd line\fthird line\n"
	assert.Equal(t, "first line\nsecond line\nthird line", es.cleanText(in))
}

func TestExtractTextExtensionCaseInsensitive(t *testing.T) {
	es := NewExtractService()
	// uppercase extension still routes to the pdf path
	_, err := es.ExtractText("REPORT.PDF", []byte("garbage"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrExtraction))
}
