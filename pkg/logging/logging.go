package logging

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Options controls how Setup builds the logger.
type Options struct {
	Verbose    bool // Log at info level instead of warn.
	Debug      bool // Log at debug level; wins over Verbose.
	AppName    string
	AppVersion string
}

// Level returns the minimum level selected by the options.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Debug:
		return zapcore.DebugLevel
	case o.Verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// Setup builds a logger that writes to stderr, leaving stdout free for the
// generated document. A console encoder is used when stderr is a terminal,
// JSON otherwise.
func Setup(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level())
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]interface{}{
		"appName":    opts.AppName,
		"appVersion": opts.AppVersion,
		"runID":      uuid.NewString(),
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), err
	}
	return logger, nil
}

// Sync flushes the logger. Syncing a terminal or pipe stderr fails with
// "invalid argument" or "inappropriate ioctl for device" on some platforms;
// those errors are ignored.
func Sync(logger *zap.Logger) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return nil
	}
	if err := logger.Sync(); err != nil {
		lowerErr := strings.ToLower(err.Error())
		if strings.Contains(lowerErr, "invalid argument") || strings.Contains(lowerErr, "inappropriate ioctl") {
			return nil
		}
		return err
	}
	return nil
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
