// Package config loads repo2prompt settings from a YAML file and layers
// them over the built-in defaults.
package config

import (
	"fmt"
	"os"

	"repo2prompt/pkg/extract"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no config
// path is given.
const DefaultFileName = ".repo2prompt.yaml"

// EnvConfigPath names an alternative config file.
const EnvConfigPath = "REPO2PROMPT_CONFIG"

// FileConfig mirrors the command-line options. Unset fields leave the
// corresponding default untouched.
type FileConfig struct {
	// Directory is the root directory to extract
	Directory string `yaml:"directory"`

	// Output is the destination file; empty writes to stdout
	Output string `yaml:"output"`

	// Format is one of xml, json, text
	Format string `yaml:"format"`

	// Include lists file patterns to include
	Include []string `yaml:"include"`

	// Exclude lists file patterns to exclude
	Exclude []string `yaml:"exclude"`

	// ExcludeDirs lists directory patterns that are not descended into
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// ExcludeFrom names a pattern file whose lines are appended to Exclude
	ExcludeFrom string `yaml:"exclude_from"`

	// MaxSize is the per-file size limit in bytes
	MaxSize *int64 `yaml:"max_size"`

	// Pretty indents XML and JSON output
	Pretty *bool `yaml:"pretty"`

	// Verbose enables info-level logging
	Verbose bool `yaml:"verbose"`
}

// Load reads the YAML file at path. A missing file yields an empty
// FileConfig and no error; a malformed one is an error.
func Load(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if fc.MaxSize != nil && *fc.MaxSize < 0 {
		return nil, fmt.Errorf("invalid max_size %d in %s: must not be negative", *fc.MaxSize, path)
	}
	if fc.Format != "" {
		if _, err := extract.ParseFormat(fc.Format); err != nil {
			return nil, fmt.Errorf("invalid format in %s: %w", path, err)
		}
	}
	return fc, nil
}

// ResolvePath picks the config file: an explicit path, then the
// REPO2PROMPT_CONFIG environment variable, then DefaultFileName.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultFileName
}

// Apply copies every set field onto cfg. ExcludeFrom is not read here.
func (fc *FileConfig) Apply(cfg *extract.Config) error {
	if fc.Directory != "" {
		cfg.Directory = fc.Directory
	}
	if fc.Output != "" {
		cfg.OutputFile = fc.Output
	}
	if fc.Format != "" {
		format, err := extract.ParseFormat(fc.Format)
		if err != nil {
			return err
		}
		cfg.Format = format
	}
	if len(fc.Include) > 0 {
		cfg.IncludePatterns = append([]string(nil), fc.Include...)
	}
	if len(fc.Exclude) > 0 {
		cfg.ExcludePatterns = append([]string(nil), fc.Exclude...)
	}
	if len(fc.ExcludeDirs) > 0 {
		cfg.ExcludeDirPatterns = append([]string(nil), fc.ExcludeDirs...)
	}
	if fc.MaxSize != nil {
		cfg.MaxFileSize = *fc.MaxSize
	}
	if fc.Pretty != nil {
		cfg.PrettyPrint = *fc.Pretty
	}
	return nil
}
