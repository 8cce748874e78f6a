package service

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tieubaoca/cortex-be/types"
	"golang.org/x/text/encoding/charmap"
)

// ExtractService turns uploaded file bytes into plain text. PDFs go through
// the poppler pdftotext utility; everything else is treated as text with a
// Latin-1 fallback for legacy encodings.
type ExtractService struct{}

func NewExtractService() *ExtractService {
	return &ExtractService{}
}

func (s *ExtractService) ExtractText(filename string, data []byte) (string, error) {
	var text string
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		text, err = s.extractPDF(data)
	} else {
		text, err = s.decodeText(data)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", types.ErrEmptyContent
	}
	return text, nil
}

func (s *ExtractService) extractPDF(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "cortex-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrExtraction, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", types.ErrExtraction, err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-enc", "UTF-8", "-nopgbrk", tmp.Name(), "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", types.ErrExtraction, err)
	}
	return s.cleanText(out.String()), nil
}

func (s *ExtractService) decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: unsupported encoding", types.ErrExtraction)
	}
	return string(decoded), nil
}

func (s *ExtractService) cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // null character
		"\ufffd": "",   // unicode replacement character
		"\r":     "",   // carriage return
		"\f":     "\n", // form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
