// File: pkg/extract/config.go
package extract

import (
	"fmt"
	"strings"
)

// OutputFormat selects the serialized representation of the collected files.
type OutputFormat int

const (
	FormatXML  OutputFormat = iota // Structured markup.
	FormatJSON                     // Structured data.
	FormatText                     // Flat text with "# path" headers.
)

// String returns the flag spelling of the format.
func (f OutputFormat) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(f))
	}
}

// ParseFormat converts "xml", "json" or "text" (case-insensitive) to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want xml, json or text)", s)
	}
}

// DefaultIncludePatterns is the include list applied by the CLI when none is given.
var DefaultIncludePatterns = []string{"*.py", "*.js", "*.rs", "*.md", "*.txt", "*.ini"}

// DefaultMaxFileSize is the default per-file size limit in bytes.
const DefaultMaxFileSize int64 = 1_000_000

// Config holds the options for one extraction run. It is treated as
// read-only by every operation in this package.
type Config struct {
	Directory          string       // Root directory to extract.
	OutputFile         string       // Destination file; empty means standard output.
	Format             OutputFormat // Output representation.
	IncludePatterns    []string     // A file must match one of these to be collected.
	ExcludePatterns    []string     // A file matching one of these is dropped.
	ExcludeDirPatterns []string     // A directory matching one of these is not descended into.
	MaxFileSize        int64        // Files larger than this many bytes are skipped.
	PrettyPrint        bool         // Indent XML and JSON output.
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Directory:       ".",
		Format:          FormatXML,
		IncludePatterns: append([]string(nil), DefaultIncludePatterns...),
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// Validate checks the fields that do not involve pattern compilation.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return &ConfigurationError{Option: "directory", Err: fmt.Errorf("must not be empty")}
	}
	if c.MaxFileSize < 0 {
		return &ConfigurationError{Option: "max-size", Err: fmt.Errorf("must not be negative, got %d", c.MaxFileSize)}
	}
	switch c.Format {
	case FormatXML, FormatJSON, FormatText:
	default:
		return &ConfigurationError{Option: "format", Err: fmt.Errorf("unsupported format %s", c.Format)}
	}
	return nil
}
