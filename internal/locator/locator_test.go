package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("export const x = 1;\n"), 0o644))
	}
}

func rel(t *testing.T, root string, files []string) []string {
	t.Helper()
	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(absRoot, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestLocateDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/index.ts",
		"src/client.js",
		"src/room/room.tsx",
		"src/room/room.test.tsx",
		"src/util.spec.js",
		"src/readme.md",
		"src/node_modules/dep/index.js",
		"src/.cache/x.js",
	)

	res, err := Locate(root, []string{"src"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/client.js", "src/index.ts", "src/room/room.tsx"}, rel(t, root, res.Files))
	assert.Empty(t, res.Missing)
	for _, f := range res.Files {
		assert.True(t, filepath.IsAbs(f))
	}
}

func TestLocateDedupesAndKeepsOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "lib/b.js", "lib/a.js", "hooks/useThing.ts")

	res, err := Locate(root, []string{"hooks", "lib/b.js", "lib", "hooks/useThing.ts"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"hooks/useThing.ts", "lib/b.js", "lib/a.js"}, rel(t, root, res.Files))
}

func TestLocateMissingIsNotFatal(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.js")

	res, err := Locate(root, []string{"does-not-exist", "src", "missing/**/*.ts"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.js"}, rel(t, root, res.Files))
	assert.Equal(t, []string{"does-not-exist", "missing/**/*.ts"}, res.Missing)
}

func TestLocateGlobSourcePath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"packages/core/src/core.ts",
		"packages/react/src/hooks.tsx",
		"packages/react/test/hooks.tsx",
	)

	res, err := Locate(root, []string{"packages/*/src"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"packages/core/src/core.ts", "packages/react/src/hooks.tsx"}, rel(t, root, res.Files))
}

func TestLocateFilePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.ts", "src/b.js", "src/deep/c.ts")

	res, err := Locate(root, []string{"src"}, []string{"*.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/deep/c.ts"}, rel(t, root, res.Files))

	_, err = Locate(root, []string{"src"}, []string{"[unclosed"})
	assert.Error(t, err)
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.js", true},
		{"a.JSX", true},
		{"a.ts", true},
		{"a.tsx", true},
		{"a.mjs", false},
		{"a.test.ts", false},
		{"a.spec.jsx", false},
		{"README.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSourceFile(tt.path))
		})
	}
}
