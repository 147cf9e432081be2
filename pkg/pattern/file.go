package pattern

import (
	"fmt"
	"os"
	"strings"
)

// ReadPatternFile reads glob patterns from an ignore-style file, one per line.
// Blank lines and lines starting with '#' are skipped; a leading "\#" yields a
// literal '#'.
func ReadPatternFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file %s: %w", filePath, err)
	}
	return ParsePatternLines(strings.Split(string(content), "\n")), nil
}

// ParsePatternLines trims each line and drops empty lines and comments.
func ParsePatternLines(lines []string) []string {
	var patterns []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, `\#`) {
			trimmed = trimmed[1:]
		}
		patterns = append(patterns, trimmed)
	}
	return patterns
}
