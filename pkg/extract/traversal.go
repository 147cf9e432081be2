// File: pkg/extract/traversal.go
package extract

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"

	"repo2prompt/pkg/pattern"

	"go.uber.org/zap"
)

// DefaultExcludedDirs are directory base names that are never descended into.
var DefaultExcludedDirs = []string{
	".git", "target", "node_modules", "__pycache__",
	"venv", ".venv", "env", ".env",
}

// Entry is a filesystem entry produced by a Walker.
type Entry struct {
	Path     string      // Absolute path of the entry.
	DirEntry fs.DirEntry // Type information from the directory listing (lstat, never followed).
}

// DirFilter decides whether the walker may descend into a directory.
type DirFilter func(path string, d fs.DirEntry) bool

// Walker lazily traverses a directory tree without following symbolic links.
// Directories rejected by the filter are pruned with everything beneath them.
type Walker struct {
	root   string
	admit  DirFilter
	logger *zap.Logger
	err    error
}

// NewWalker returns a walker rooted at root. A nil filter admits every directory.
func NewWalker(root string, admit DirFilter, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if admit == nil {
		admit = func(string, fs.DirEntry) bool { return true }
	}
	return &Walker{root: root, admit: admit, logger: logger}
}

// Entries yields every admitted directory and every non-directory entry
// under the root, in lexical order. Each call restarts the walk from the
// root. Unreadable entries below the root are logged and skipped; a failure
// on the root itself stops the walk and is reported by Err.
func (w *Walker) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		w.err = nil
		err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == w.root {
					return err
				}
				w.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() && path != w.root && !w.admit(path, d) {
				w.logger.Debug("Skipping excluded directory", zap.String("directory", path))
				return filepath.SkipDir
			}

			if !yield(Entry{Path: path, DirEntry: d}) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !errors.Is(err, filepath.SkipAll) {
			w.err = err
		}
	}
}

// Err returns the error that ended the most recent walk early, if any.
func (w *Walker) Err() error {
	return w.err
}

// newDirFilter builds the directory-admission predicate: a directory is
// rejected when its base name is one of DefaultExcludedDirs or when the
// exclude-directory matcher matches its full path.
func newDirFilter(excludeDirs *pattern.Matcher, logger *zap.Logger) DirFilter {
	defaults := make(map[string]struct{}, len(DefaultExcludedDirs))
	for _, name := range DefaultExcludedDirs {
		defaults[name] = struct{}{}
	}
	return func(path string, d fs.DirEntry) bool {
		if _, ok := defaults[d.Name()]; ok {
			return false
		}
		if matched, p := excludeDirs.MatchWithPattern(path); matched {
			logger.Debug("Directory matches exclude pattern", zap.String("directory", path), zap.String("pattern", p))
			return false
		}
		return true
	}
}
