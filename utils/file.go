package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxIngestFileSize bounds what the CLI will read into memory at once.
const maxIngestFileSize = 10 << 20

// ReadTextFile loads a UTF-8 text file for ingestion. Only plain text
// formats are accepted; anything else should go through a converter first.
func ReadTextFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
	default:
		return "", fmt.Errorf("unsupported file type %q, expected .txt or .md", filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxIngestFileSize {
		return "", fmt.Errorf("file %s exceeds the %d byte limit", path, maxIngestFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not valid UTF-8", path)
	}
	return string(data), nil
}

// TitleFromPath derives a fallback document title from the file name.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
