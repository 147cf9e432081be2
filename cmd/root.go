package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"repo2prompt/pkg/config"
	"repo2prompt/pkg/extract"
	"repo2prompt/pkg/logging"
	"repo2prompt/pkg/pattern"
	"repo2prompt/pkg/version"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds the raw flag values of the root command.
type rootOptions struct {
	directory   string
	output      string
	format      string
	include     []string
	exclude     []string
	excludeDirs []string
	excludeFrom string
	maxSize     int64
	pretty      bool
	verbose     bool
	debug       bool
	configPath  string
}

// NewRootCmd builds the repo2prompt command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "repo2prompt",
		Short: "Extract repository content into XML, JSON, or text format",
		Long: `repo2prompt walks a directory, keeps the text files that match the include
patterns and none of the exclude patterns, and writes their paths and contents
as a single XML, JSON or plain-text document for use as language model input.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.directory, "directory", "d", ".", "Root directory to process")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	flags.StringVarP(&opts.format, "format", "f", "xml", "Output format: xml, json or text")
	flags.StringArrayVarP(&opts.include, "include", "i", nil, "File pattern to include, repeatable (default: *.py *.js *.rs *.md *.txt *.ini)")
	flags.StringArrayVarP(&opts.exclude, "exclude", "e", nil, "File pattern to exclude, repeatable")
	flags.StringArrayVar(&opts.excludeDirs, "exclude-dirs", nil, "Directory pattern to exclude, repeatable")
	flags.StringVar(&opts.excludeFrom, "exclude-from", "", "Read additional exclude patterns from a file, one per line")
	flags.Int64Var(&opts.maxSize, "max-size", extract.DefaultMaxFileSize, "Maximum file size in bytes")
	flags.BoolVar(&opts.pretty, "pretty", false, "Pretty-print output (XML and JSON)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: $"+config.EnvConfigPath+" or "+config.DefaultFileName+")")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute loads .env files and runs the root command.
func Execute() error {
	_ = godotenv.Load()

	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func runExtract(cmd *cobra.Command, opts *rootOptions) error {
	cfg, verbose, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Options{
		Verbose:    verbose,
		Debug:      opts.debug,
		AppName:    "repo2prompt",
		AppVersion: version.Get().Version,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if syncErr := logging.Sync(logger); syncErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Logger sync failed: %v\n", syncErr)
		}
	}()

	summary, err := extract.Execute(&cfg, logger)
	if err != nil {
		logger.Error("repo2prompt execution failed", zap.Error(err))
		return err
	}

	if summary.Destination != "" {
		printSummary(cmd.ErrOrStderr(), summary)
	}
	return nil
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command, opts *rootOptions) (extract.Config, bool, error) {
	cfg := extract.DefaultConfig()
	flags := cmd.Flags()

	configPath := config.ResolvePath(opts.configPath)
	if flags.Changed("config") {
		if _, err := os.Stat(configPath); err != nil {
			return cfg, false, fmt.Errorf("config file: %w", err)
		}
	}
	fc, err := config.Load(configPath)
	if err != nil {
		return cfg, false, err
	}
	if err := fc.Apply(&cfg); err != nil {
		return cfg, false, err
	}

	if flags.Changed("directory") {
		cfg.Directory = opts.directory
	}
	if flags.Changed("output") {
		cfg.OutputFile = opts.output
	}
	if flags.Changed("format") {
		format, err := extract.ParseFormat(opts.format)
		if err != nil {
			return cfg, false, err
		}
		cfg.Format = format
	}
	if flags.Changed("include") {
		cfg.IncludePatterns = opts.include
	}
	if flags.Changed("exclude") {
		cfg.ExcludePatterns = opts.exclude
	}
	if flags.Changed("exclude-dirs") {
		cfg.ExcludeDirPatterns = opts.excludeDirs
	}
	if flags.Changed("max-size") {
		cfg.MaxFileSize = opts.maxSize
	}
	if flags.Changed("pretty") {
		cfg.PrettyPrint = opts.pretty
	}

	excludeFrom := fc.ExcludeFrom
	if flags.Changed("exclude-from") {
		excludeFrom = opts.excludeFrom
	}
	if excludeFrom != "" {
		patterns, err := pattern.ReadPatternFile(excludeFrom)
		if err != nil {
			return cfg, false, err
		}
		cfg.ExcludePatterns = append(append([]string(nil), cfg.ExcludePatterns...), patterns...)
	}

	return cfg, opts.verbose || fc.Verbose, nil
}

// printSummary reports a completed file write on w.
func printSummary(w io.Writer, s *extract.Summary) {
	label := color.New(color.FgCyan)
	value := color.New(color.FgGreen)
	fmt.Fprintf(w, "%s %s files (%s bytes) to %s in %s\n",
		label.Sprint("Wrote"),
		value.Sprintf("%d", s.Files),
		value.Sprintf("%d", s.TotalBytes),
		label.Sprint(s.Destination),
		s.Elapsed.Round(time.Millisecond))
}
