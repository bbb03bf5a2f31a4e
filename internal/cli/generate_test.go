package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/errors"
)

func TestGenerateCommand(t *testing.T) {
	configPath := sampleProject(t)
	dir := filepath.Dir(configPath)

	out, err := run(t, "generate", "--package", "counter-kit", "--config", configPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "4 files processed, 1 skipped; classes 1, functions 0, hooks 2, components 1, interfaces 1, types 0, enums 1, constants 1")

	assert.FileExists(t, filepath.Join(dir, "docs", "api", "index.mdx"))
	assert.FileExists(t, filepath.Join(dir, "docs", "api", "classes", "counter.mdx"))

	manifest, err := os.ReadFile(filepath.Join(dir, "docs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"docs/api/index"`)
}

func TestCheckCommand(t *testing.T) {
	configPath := sampleProject(t)
	args := []string{"--package", "counter-kit", "--config", configPath, "--log-level", "error"}

	out, err := run(t, append([]string{"check"}, args...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of date")
	assert.Contains(t, out, "+++ ")
	assert.NoDirExists(t, filepath.Join(filepath.Dir(configPath), "docs"))

	_, err = run(t, append([]string{"generate"}, args...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"check"}, args...)...)
	assert.NoError(t, err)
}

func TestFlagsOverrideConfig(t *testing.T) {
	configPath := sampleProject(t)
	dir := filepath.Dir(configPath)
	other := t.TempDir()

	_, err := run(t, "generate", "--package", "counter-kit", "--config", configPath,
		"--layout", "aggregate", "--base-dir", dir, "--nav", filepath.Join(other, "missing.json"), "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, errors.KindConfig, errors.GetKind(err))

	// documents are written before the manifest is patched
	assert.FileExists(t, filepath.Join(dir, "docs", "api", "classes.mdx"))
	assert.NoFileExists(t, filepath.Join(dir, "docs", "api", "classes", "counter.mdx"))
}

func TestGenerateConfigErrors(t *testing.T) {
	configPath := sampleProject(t)

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{
			name:    "missing package flag",
			args:    []string{"generate", "--config", configPath},
			wantMsg: "--package is required (valid: counter-kit)",
		},
		{
			name:    "unknown package",
			args:    []string{"generate", "--config", configPath, "--package", "nope"},
			wantMsg: `unknown package "nope" (valid: counter-kit)`,
		},
		{
			name:    "unknown mode",
			args:    []string{"generate", "--config", configPath, "--package", "counter-kit", "--mode", "regex"},
			wantMsg: `unknown extraction mode "regex"`,
		},
		{
			name:    "unknown layout",
			args:    []string{"generate", "--config", configPath, "--package", "counter-kit", "--layout", "single"},
			wantMsg: `unknown layout "single"`,
		},
		{
			name:    "bad log level",
			args:    []string{"generate", "--config", configPath, "--package", "counter-kit", "--log-level", "loud"},
			wantMsg: "invalid --log-level",
		},
		{
			name:    "missing config file",
			args:    []string{"generate", "--config", filepath.Join(t.TempDir(), "none.yml"), "--package", "counter-kit"},
			wantMsg: "read config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, errors.KindConfig, errors.GetKind(err))
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	conf := &config.Config{BaseDir: "/repo", Navigation: "/repo/docs.json", Mode: "scan"}

	cfg := &GenerateConfig{}
	loadConfigFile(cfg, conf)
	assert.Equal(t, &GenerateConfig{BaseDir: "/repo", NavPath: "/repo/docs.json", Mode: "scan"}, cfg)

	cfg = &GenerateConfig{BaseDir: "/other", NavPath: "/other/mint.json", Mode: "ast"}
	loadConfigFile(cfg, conf)
	assert.Equal(t, &GenerateConfig{BaseDir: "/other", NavPath: "/other/mint.json", Mode: "ast"}, cfg)
}
