package config

import (
	"os"
	"path/filepath"
	"testing"

	"repo2prompt/pkg/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	fc, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, fc)
}

func TestLoadAndApply(t *testing.T) {
	path := writeConfig(t, `
directory: src
output: prompt.json
format: json
include: ["*.go", "*.md"]
exclude: ["*_test.go"]
exclude_dirs: ["vendor"]
max_size: 2048
pretty: true
verbose: true
`)
	fc, err := Load(path)
	require.NoError(t, err)
	assert.True(t, fc.Verbose)

	cfg := extract.DefaultConfig()
	require.NoError(t, fc.Apply(&cfg))

	assert.Equal(t, "src", cfg.Directory)
	assert.Equal(t, "prompt.json", cfg.OutputFile)
	assert.Equal(t, extract.FormatJSON, cfg.Format)
	assert.Equal(t, []string{"*.go", "*.md"}, cfg.IncludePatterns)
	assert.Equal(t, []string{"*_test.go"}, cfg.ExcludePatterns)
	assert.Equal(t, []string{"vendor"}, cfg.ExcludeDirPatterns)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.True(t, cfg.PrettyPrint)
}

func TestApplyKeepsDefaultsForUnsetFields(t *testing.T) {
	path := writeConfig(t, "format: text\n")
	fc, err := Load(path)
	require.NoError(t, err)

	cfg := extract.DefaultConfig()
	require.NoError(t, fc.Apply(&cfg))

	want := extract.DefaultConfig()
	want.Format = extract.FormatText
	assert.Equal(t, want, cfg)
}

func TestApplyExplicitZeroValues(t *testing.T) {
	path := writeConfig(t, "max_size: 0\npretty: false\n")
	fc, err := Load(path)
	require.NoError(t, err)

	cfg := extract.DefaultConfig()
	cfg.PrettyPrint = true
	require.NoError(t, fc.Apply(&cfg))
	assert.Equal(t, int64(0), cfg.MaxFileSize)
	assert.False(t, cfg.PrettyPrint)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "include: [unclosed\n"},
		{"unknown format", "format: html\n"},
		{"negative size", "max_size: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultFileName, ResolvePath(""))
	assert.Equal(t, "custom.yaml", ResolvePath("custom.yaml"))

	t.Setenv(EnvConfigPath, "from-env.yaml")
	assert.Equal(t, "from-env.yaml", ResolvePath(""))
	assert.Equal(t, "custom.yaml", ResolvePath("custom.yaml"))
}
