// File: pkg/extract/execute.go
package extract

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Summary describes a completed extraction.
type Summary struct {
	Files       int           // Number of files in the document.
	TotalBytes  int64         // Summed content size of those files.
	OutputBytes int           // Size of the formatted document.
	Destination string        // Output file, or empty for standard output.
	Elapsed     time.Duration // Wall time of the whole run.
}

// Run collects, formats and writes in one call.
func Run(cfg *Config, logger *zap.Logger) error {
	_, err := Execute(cfg, logger)
	return err
}

// Execute runs Process, Format and WriteOutput in order and stops at the
// first error. Nothing is written unless formatting succeeded.
func Execute(cfg *Config, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting extraction",
		zap.String("directory", cfg.Directory),
		zap.Stringer("format", cfg.Format))

	files, err := Process(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	logger.Info("Processed files", zap.Int("count", len(files)))

	output, err := Format(files, cfg)
	if err != nil {
		logger.Error("Failed to format output", zap.Error(err))
		return nil, fmt.Errorf("failed to format output: %w", err)
	}

	if err := WriteOutput(output, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	summary := &Summary{
		Files:       len(files),
		TotalBytes:  files.TotalBytes(),
		OutputBytes: len(output),
		Destination: cfg.OutputFile,
		Elapsed:     time.Since(startTime),
	}
	logger.Info("Extraction completed",
		zap.Int("files", summary.Files),
		zap.Int64("totalBytes", summary.TotalBytes),
		zap.Duration("elapsed", summary.Elapsed))
	return summary, nil
}
