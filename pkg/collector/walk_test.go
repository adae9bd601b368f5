package collector

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/pkg/lang"
)

// writeTree creates every file in files under root, with parent directories
// as needed. Values are file contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relPaths converts a result's file paths to sorted slash-separated paths
// relative to root.
func relPaths(t *testing.T, root string, res Result) []string {
	t.Helper()
	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)

	var out []string
	for _, f := range res.Files {
		rel, err := filepath.Rel(absRoot, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func newPythonCollector(t *testing.T, o Overrides) *Collector {
	t.Helper()
	rules, err := NewRules(pythonProfile(t), o)
	require.NoError(t, err)
	return New(rules, nil)
}

func TestCollectExclusionMechanisms(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":                 "print('hi')\n",
		"pkg/util.py":             "x = 1\n",
		"pkg/data.json":           "{}",
		"README":                  "docs",
		"venv/lib/site.py":        "excluded by named dir",
		".git/hooks/sample.py":    "excluded by dot-dir",
		"sandbox/pyvenv.cfg":      "home = /usr",
		"sandbox/nested/deep.py":  "excluded by marker subtree",
		"tools/__pycache__/m.pyc": "wrong extension anyway",
	})

	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.py", "pkg/util.py"}, relPaths(t, root, res))
	assert.Empty(t, res.Errors)
	assert.True(t, res.HasFiles())
}

func TestCollectRecordsFileSizes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "12345"})

	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	assert.Equal(t, int64(5), res.Files[0].Size)
}

func TestCollectIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":     "a",
		"b/c.py":   "c",
		"b/d/e.py": "e",
	})

	c := newPythonCollector(t, Overrides{})
	first, err := c.Collect(context.Background(), root)
	require.NoError(t, err)
	second, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, relPaths(t, root, first), relPaths(t, root, second))
	assert.Len(t, first.Files, 3)
}

func TestCollectKeepDotDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".hidden/tool.py": "kept when dot-dirs stay",
		".git/conf.py":    "profile dot-dir still excluded",
		"top.py":          "x",
	})

	c := newPythonCollector(t, Overrides{KeepDotDirs: true})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{".hidden/tool.py", "top.py"}, relPaths(t, root, res))
}

func TestCollectMissingRootSkipErrors(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Empty(t, res.Files)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0].Err, os.ErrNotExist)
	assert.False(t, res.HasFiles())
}

func TestCollectMissingRootFailFast(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	c := newPythonCollector(t, Overrides{})
	c.SkipErrors = false
	_, err := c.Collect(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollectCanceledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newPythonCollector(t, Overrides{})
	_, err := c.Collect(ctx, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pkg/mod.py": "x",
	})
	// A link inside the tree pointing back at the root.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "pkg", "loop")))

	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	// The walk terminates and yields each file exactly once.
	assert.Equal(t, []string{"pkg/mod.py"}, relPaths(t, root, res))
}

func TestCollectSymlinkToFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real.py": "data"})
	require.NoError(t, os.Symlink(
		filepath.Join(root, "real.py"), filepath.Join(root, "alias.py")))

	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"alias.py", "real.py"}, relPaths(t, root, res))
}

func TestCollectDanglingSymlink(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.py": "x"})
	require.NoError(t, os.Symlink(
		filepath.Join(root, "gone.py"), filepath.Join(root, "broken.py")))

	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py"}, relPaths(t, root, res))
	assert.Empty(t, res.Errors)
}

func TestCollectGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":       "generated/\n*.gen.py\n",
		"main.py":          "x",
		"api.gen.py":       "ignored by pattern",
		"generated/out.py": "ignored by dir pattern",
	})

	matcher, err := gitignore.NewGitIgnore(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)

	c := newPythonCollector(t, Overrides{})
	c.Ignore = matcher
	res, err := c.Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.py"}, relPaths(t, root, res))
}

func TestCollectEmptyTree(t *testing.T) {
	c := newPythonCollector(t, Overrides{})
	res, err := c.Collect(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, res.Files)
	assert.False(t, res.HasFiles())
}

func TestCollectOverrideExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"script.py":  "x",
		"stub.pyi":   "y",
		"notes.txt":  "z",
		"Makefile":   "all:",
		"ignored.md": "doc",
	})

	rust := func() lang.Profile {
		p, err := lang.Lookup("rust")
		require.NoError(t, err)
		return p
	}()
	rules, err := NewRules(rust, Overrides{Extensions: []string{"py", "pyi"}})
	require.NoError(t, err)

	res, err := New(rules, nil).Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"script.py", "stub.pyi"}, relPaths(t, root, res))
}
