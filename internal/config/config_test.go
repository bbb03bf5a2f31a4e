package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mdxgen/internal/errors"
)

const sampleYAML = `
baseDir: ..
navigation: docs.json
packages:
  - name: client
    displayName: Client SDK
    sourcePaths: [packages/client/src]
    outputPath: api-reference/client
    navigation:
      icon: code
      groups: true
  - name: react
    sourcePaths: [packages/react/src]
    filePatterns: ["*.tsx"]
    outputPath: api-reference/react
    layout: aggregate
`

const sampleTOML = `
mode = "scan"

[[packages]]
name = "client"
sourcePaths = ["src"]
outputPath = "api/client"

[packages.navigation]
icon = "plug"
`

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)

	require.Len(t, cfg.Packages, 2)
	client := cfg.Packages[0]
	assert.Equal(t, "Client SDK", client.DisplayName)
	assert.Equal(t, []string{"packages/client/src"}, client.SourcePaths)
	assert.Equal(t, LayoutPages, client.Layout)
	assert.Equal(t, "code", client.Navigation.Icon)
	assert.True(t, client.Navigation.Groups)
	assert.Equal(t, "Client SDK", client.Navigation.Section)

	react := cfg.Packages[1]
	assert.Equal(t, "react", react.DisplayName)
	assert.Equal(t, LayoutAggregate, react.Layout)
	assert.Equal(t, []string{"*.tsx"}, react.FilePatterns)
	assert.Empty(t, cfg.Mode)
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML), ".toml")
	require.NoError(t, err)

	assert.Equal(t, "scan", cfg.Mode)
	require.Len(t, cfg.Packages, 1)
	assert.Equal(t, "plug", cfg.Packages[0].Navigation.Icon)
	assert.Equal(t, "api/client", cfg.Packages[0].OutputPath)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "no packages",
			yaml:    "layout: pages\n",
			wantMsg: "Packages is required",
		},
		{
			name:    "missing output path",
			yaml:    "packages:\n  - name: a\n    sourcePaths: [src]\n",
			wantMsg: "Packages[0].OutputPath is required",
		},
		{
			name:    "bad layout",
			yaml:    "layout: grid\npackages:\n  - name: a\n    sourcePaths: [src]\n    outputPath: out\n",
			wantMsg: "Layout must be one of",
		},
		{
			name:    "duplicate package",
			yaml:    "packages:\n  - {name: a, sourcePaths: [src], outputPath: o}\n  - {name: a, sourcePaths: [lib], outputPath: p}\n",
			wantMsg: "duplicate package",
		},
		{
			name:    "malformed yaml",
			yaml:    "packages: [",
			wantMsg: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), ".yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, errors.KindConfig, errors.GetKind(err))
		})
	}
}

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	path := filepath.Join(docs, ".mdxgen.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.BaseDir)
	assert.Equal(t, filepath.Join(docs, "docs.json"), cfg.Navigation)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Equal(t, errors.KindConfig, errors.GetKind(err))
}

func TestPackageLookup(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)

	pkg, err := cfg.Package("react")
	require.NoError(t, err)
	assert.Equal(t, "api-reference/react", pkg.OutputPath)

	_, err = cfg.Package("vue")
	require.Error(t, err)
	assert.Equal(t, `unknown package "vue" (valid: client, react)`, err.Error())
	assert.True(t, errors.IsFatal(err))

	_, err = cfg.Package("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--package is required")
}
