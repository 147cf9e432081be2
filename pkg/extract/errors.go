package extract

import (
	"fmt"
)

// ConfigurationError reports an unusable option, most often an invalid glob
// pattern. It is returned before any traversal starts.
type ConfigurationError struct {
	Option  string // Option the value came from, e.g. "include".
	Pattern string // Offending pattern, when the problem is pattern syntax.
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("configuration error: %s pattern %q: %v", e.Option, e.Pattern, e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IoError reports a fatal filesystem failure on the root directory or the
// output destination.
type IoError struct {
	Op   string // Operation that failed, e.g. "resolve root".
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("i/o error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// SerializationError reports content that cannot be represented in the
// requested output format.
type SerializationError struct {
	Format OutputFormat
	Path   string // Relative path of the offending file.
	Err    error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("serialization error (%s): %v", e.Format, e.Err)
	}
	return fmt.Sprintf("serialization error (%s) in %s: %v", e.Format, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
