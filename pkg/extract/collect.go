package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"repo2prompt/pkg/pattern"

	"go.uber.org/zap"
)

// matchers holds the three compiled pattern sets for a run.
type matchers struct {
	include    *pattern.Matcher
	exclude    *pattern.Matcher
	excludeDir *pattern.Matcher
}

// compileMatchers compiles the include, exclude and exclude-directory lists.
func compileMatchers(cfg *Config) (*matchers, error) {
	include, err := compileList("include", cfg.IncludePatterns)
	if err != nil {
		return nil, err
	}
	exclude, err := compileList("exclude", cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	excludeDir, err := compileList("exclude-dirs", cfg.ExcludeDirPatterns)
	if err != nil {
		return nil, err
	}
	return &matchers{include: include, exclude: exclude, excludeDir: excludeDir}, nil
}

// compileList wraps pattern compilation failures in a *ConfigurationError
// naming the first invalid pattern of the list.
func compileList(option string, patterns []string) (*pattern.Matcher, error) {
	m, err := pattern.Compile(patterns)
	if err != nil {
		cfgErr := &ConfigurationError{Option: option, Err: err}
		var bad *pattern.BadPatternError
		if errors.As(err, &bad) {
			cfgErr.Pattern = bad.Pattern
		}
		return nil, cfgErr
	}
	return m, nil
}

// resolveRoot returns the absolute, symlink-free form of dir and checks that
// it is a readable directory.
func resolveRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", &IoError{Op: "resolve root", Path: dir, Err: err}
	}
	root, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return "", &IoError{Op: "resolve root", Path: absDir, Err: err}
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", &IoError{Op: "stat root", Path: root, Err: err}
	}
	if !info.IsDir() {
		return "", &IoError{Op: "stat root", Path: root, Err: fmt.Errorf("not a directory")}
	}
	return root, nil
}

// Process walks cfg.Directory and collects the text content of every regular
// file that passes the size limit and the include/exclude patterns. Per-file
// problems are logged and skip only that file; invalid patterns and an
// unusable root abort before or during traversal.
func Process(cfg *Config, logger *zap.Logger) (Files, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m, err := compileMatchers(cfg)
	if err != nil {
		logger.Error("Invalid pattern configuration", zap.Error(err))
		return nil, err
	}

	root, err := resolveRoot(cfg.Directory)
	if err != nil {
		logger.Error("Failed to resolve root directory", zap.String("directory", cfg.Directory), zap.Error(err))
		return nil, err
	}

	startTime := time.Now()
	logger.Debug("Starting file collection",
		zap.String("root", root),
		zap.Strings("include", m.include.Patterns()),
		zap.Strings("exclude", m.exclude.Patterns()),
		zap.Strings("excludeDirs", m.excludeDir.Patterns()),
		zap.Int64("maxFileSize", cfg.MaxFileSize))

	files := make(Files)
	walker := NewWalker(root, newDirFilter(m.excludeDir, logger), logger)
	for entry := range walker.Entries() {
		if entry.DirEntry.IsDir() {
			continue
		}
		relPath, content, ok := collectFile(entry, root, cfg.MaxFileSize, m, logger)
		if ok {
			files[relPath] = content
		}
	}
	if err := walker.Err(); err != nil {
		logger.Error("Error during file traversal", zap.String("root", root), zap.Error(err))
		return nil, &IoError{Op: "walk root", Path: root, Err: err}
	}

	logger.Info("Completed file collection",
		zap.Int("files", len(files)),
		zap.Duration("elapsed", time.Since(startTime)))
	return files, nil
}

// collectFile applies the per-file steps to one non-directory entry and
// reports whether it belongs in the collected set.
func collectFile(entry Entry, root string, maxFileSize int64, m *matchers, logger *zap.Logger) (string, string, bool) {
	path := entry.Path

	if !entry.DirEntry.Type().IsRegular() {
		logger.Debug("Skipping non-regular file", zap.String("filePath", path), zap.String("mode", entry.DirEntry.Type().String()))
		return "", "", false
	}

	info, err := entry.DirEntry.Info()
	if err != nil {
		logger.Warn("Failed to get file info", zap.String("filePath", path), zap.Error(err))
		return "", "", false
	}
	if info.Size() > maxFileSize {
		logger.Debug("Skipping file due to size limit",
			zap.String("filePath", path),
			zap.Int64("sizeBytes", info.Size()),
			zap.Int64("maxFileSize", maxFileSize))
		return "", "", false
	}

	if !m.include.Match(path) {
		return "", "", false
	}
	if matched, p := m.exclude.MatchWithPattern(path); matched {
		logger.Debug("File matches exclude pattern", zap.String("filePath", path), zap.String("pattern", p))
		return "", "", false
	}

	content, err := readText(path)
	if err != nil {
		logger.Warn("Failed to read file", zap.String("filePath", path), zap.Error(err))
		return "", "", false
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		logger.Warn("Skipping file outside root", zap.String("filePath", path), zap.String("root", root))
		return "", "", false
	}

	logger.Debug("Collected file", zap.String("filePath", path), zap.Int("contentSizeBytes", len(content)))
	return filepath.ToSlash(relPath), content, true
}
