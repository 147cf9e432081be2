// File: pkg/extract/output.go
package extract

import (
	"bufio"
	"io"
	"os"

	"repo2prompt/pkg/filelock"

	"go.uber.org/zap"
)

// WriteOutput writes the formatted document to cfg.OutputFile, replacing
// any existing file, or to standard output when no file is configured.
//
// File writes go through filelock.LockedWrite: a symlinked output is written
// through to its target, an existing file keeps its mode, and a hidden
// ".<name>.lock" file is left beside the output so concurrent runs
// serialize on the same lock.
func WriteOutput(output string, cfg *Config, logger *zap.Logger) error {
	return writeOutput(output, cfg, os.Stdout, logger)
}

func writeOutput(output string, cfg *Config, stdout io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.OutputFile == "" {
		writer := bufio.NewWriter(stdout)
		if _, err := writer.WriteString(output); err != nil {
			logger.Error("Failed to write output to stdout", zap.Error(err))
			return &IoError{Op: "write", Path: "<stdout>", Err: err}
		}
		if err := writer.Flush(); err != nil {
			logger.Error("Failed to flush stdout", zap.Error(err))
			return &IoError{Op: "flush", Path: "<stdout>", Err: err}
		}
		return nil
	}

	if err := filelock.LockedWrite(cfg.OutputFile, []byte(output), 0o644); err != nil {
		logger.Error("Failed to write output file", zap.String("file", cfg.OutputFile), zap.Error(err))
		return &IoError{Op: "write", Path: cfg.OutputFile, Err: err}
	}
	logger.Info("Output written", zap.String("file", cfg.OutputFile), zap.Int("sizeBytes", len(output)))
	return nil
}
