package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SaveFileWithTimestamp writes uploaded bytes under uploadDir with a
// timestamp suffix so repeated uploads of the same filename never collide.
// Returns the path written.
func SaveFileWithTimestamp(uploadDir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	destName := fmt.Sprintf("%s_%d%s", SanitizeFileName(base), time.Now().Unix(), ext)
	destPath := filepath.Join(uploadDir, destName)

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return destPath, nil
}

// SanitizeFileName keeps filenames shell and filesystem safe.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
