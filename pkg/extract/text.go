// File: pkg/extract/text.go
package extract

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ErrNotText is returned by readText for content that is not valid UTF-8.
var ErrNotText = errors.New("content is not valid UTF-8 text")

// readText reads a whole file and returns it as a string. The file handle is
// opened and released within the call.
func readText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", filePath, ErrNotText)
	}
	return string(data), nil
}
