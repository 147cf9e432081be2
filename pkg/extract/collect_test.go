package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	helloPy  = "def hello():\n    print('Hello, world!')\n"
	readmeMd = "# Test Project\n\nThis is a test project.\n"
)

// writeTree creates files (relative path -> content) under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func createTestFiles(t *testing.T) string {
	return writeTree(t, map[string]string{
		"test.py":                   helloPy,
		"README.md":                 readmeMd,
		"node_modules/package.json": `{"name": "test", "version": "1.0.0"}`,
		"excluded.log":              "Some log data\n",
	})
}

func testConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.Directory = dir
	cfg.Format = FormatJSON
	cfg.IncludePatterns = []string{"*.py", "*.md"}
	cfg.ExcludeDirPatterns = []string{"node_modules"}
	return cfg
}

func TestProcessRepository(t *testing.T) {
	cfg := testConfig(createTestFiles(t))

	files, err := Process(&cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, files, 2)
	assert.Equal(t, helloPy, files["test.py"])
	assert.Equal(t, readmeMd, files["README.md"])
	assert.NotContains(t, files, "excluded.log")
	assert.NotContains(t, files, "node_modules/package.json")
}

func TestProcessNilLogger(t *testing.T) {
	cfg := testConfig(createTestFiles(t))
	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestProcessEmptyIncludeCollectsNothing(t *testing.T) {
	cfg := testConfig(createTestFiles(t))
	cfg.IncludePatterns = nil

	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestProcessDefaultExcludedDirsAreNeverEntered(t *testing.T) {
	tree := map[string]string{"keep.py": "x = 1\n"}
	for _, name := range DefaultExcludedDirs {
		tree[name+"/inner.py"] = "y = 2\n"
		tree["nested/"+name+"/deep/inner.py"] = "z = 3\n"
	}
	cfg := testConfig(writeTree(t, tree))
	cfg.IncludePatterns = []string{"*.py", "**/*.py", "*"}
	cfg.ExcludeDirPatterns = nil

	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.py"}, files.Paths())
}

func TestProcessRootNamedLikeExcludedDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "env")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("a\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "env"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "env", "b.py"), []byte("b\n"), 0o644))

	cfg := testConfig(root)
	cfg.ExcludeDirPatterns = []string{"env"}
	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files.Paths())
}

func TestProcessExcludeDirPatternPrunes(t *testing.T) {
	cfg := testConfig(writeTree(t, map[string]string{
		"src/main.py":           "main\n",
		"build/gen.py":          "gen\n",
		"src/build/nested.py":   "nested\n",
		"src/builder/keep.py":   "keep\n",
		"docs/generated/a.md":   "a\n",
		"docs/handwritten/b.md": "b\n",
	}))
	cfg.ExcludeDirPatterns = []string{"build", "docs/gen*"}

	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/handwritten/b.md", "src/builder/keep.py", "src/main.py"}, files.Paths())
}

func TestProcessExcludePatterns(t *testing.T) {
	cfg := testConfig(writeTree(t, map[string]string{
		"app.py":        "app\n",
		"app_test.py":   "test\n",
		"lib/spec.md":   "spec\n",
		"lib/design.md": "design\n",
	}))
	cfg.ExcludePatterns = []string{"*test*", "*spec*"}

	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py", "lib/design.md"}, files.Paths())
}

func TestProcessNestedPathsUseForwardSlashes(t *testing.T) {
	cfg := testConfig(writeTree(t, map[string]string{"a/b/c.py": "deep\n"}))

	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a/b/c.py": "deep\n"}, map[string]string(files))
}

func TestProcessMaxFileSize(t *testing.T) {
	cfg := testConfig(writeTree(t, map[string]string{
		"small.py": "12345",
		"exact.py": "1234567890",
		"large.py": "12345678901",
	}))
	cfg.MaxFileSize = 10

	core, logs := observer.New(zap.DebugLevel)
	files, err := Process(&cfg, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []string{"exact.py", "small.py"}, files.Paths())

	skipped := logs.FilterMessage("Skipping file due to size limit").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, filepath.Join(mustRoot(t, cfg.Directory), "large.py"), skipped[0].ContextMap()["filePath"])
}

func TestProcessSkipsNonUTF8(t *testing.T) {
	root := writeTree(t, map[string]string{"ok.txt": "fine\n"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.txt"), []byte{0xff, 0xfe, 0x00, 0x01}, 0o644))
	cfg := testConfig(root)
	cfg.IncludePatterns = []string{"*.txt"}

	core, logs := observer.New(zap.WarnLevel)
	files, err := Process(&cfg, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.txt"}, files.Paths())
	assert.Equal(t, 1, logs.FilterMessage("Failed to read file").Len())
}

func TestProcessDoesNotFollowSymlinks(t *testing.T) {
	outside := writeTree(t, map[string]string{"secret.py": "secret\n", "dir/inner.py": "inner\n"})
	root := writeTree(t, map[string]string{"real.py": "real\n"})
	if err := os.Symlink(filepath.Join(outside, "secret.py"), filepath.Join(root, "link.py")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	cfg := testConfig(root)
	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, files.Paths())
}

func TestProcessSymlinkedRootIsCanonicalized(t *testing.T) {
	target := writeTree(t, map[string]string{"a.py": "a\n"})
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	cfg := testConfig(link)
	files, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, files.Paths())
}

func TestProcessIsIdempotent(t *testing.T) {
	cfg := testConfig(createTestFiles(t))

	first, err := Process(&cfg, nil)
	require.NoError(t, err)
	second, err := Process(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProcessInvalidPatternFailsBeforeTraversal(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		option string
		bad    string
	}{
		{"include", func(c *Config) { c.IncludePatterns = []string{"*.py", "[unclosed"} }, "include", "[unclosed"},
		{"exclude", func(c *Config) { c.ExcludePatterns = []string{"{a,b"} }, "exclude", "{a,b"},
		{"exclude dirs", func(c *Config) { c.ExcludeDirPatterns = []string{"["} }, "exclude-dirs", "["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A missing root would be an IoError; the pattern error must win.
			cfg := testConfig(filepath.Join(t.TempDir(), "does-not-exist"))
			tt.mutate(&cfg)

			_, err := Process(&cfg, nil)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
			assert.Equal(t, tt.bad, cfgErr.Pattern)
		})
	}
}

func TestProcessMissingRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))
	_, err := Process(&cfg, nil)

	var ioErr *IoError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, os.IsNotExist(ioErr.Err))
}

func TestProcessRootIsFile(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "a\n"})
	cfg := testConfig(filepath.Join(root, "a.py"))
	_, err := Process(&cfg, nil)

	var ioErr *IoError
	require.ErrorAs(t, err, &ioErr)
}

func TestProcessInvalidConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.MaxFileSize = -1
	_, err := Process(&cfg, nil)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "max-size", cfgErr.Option)
}

func mustRoot(t *testing.T, dir string) string {
	t.Helper()
	root, err := resolveRoot(dir)
	require.NoError(t, err)
	return root
}
