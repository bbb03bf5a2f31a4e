package cli

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleProject copies testdata/sample into a temporary directory and
// returns the path of its config file.
func sampleProject(t *testing.T) string {
	t.Helper()
	src := filepath.Join("..", "..", "testdata", "sample")
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if de.IsDir() {
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dst, rel), data, 0o644)
	})
	require.NoError(t, err)
	return filepath.Join(dst, ".mdxgen.yml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		contains string
	}{
		{
			name:     "no arguments shows help",
			args:     []string{},
			contains: "Generate MDX reference documentation",
		},
		{
			name:     "help lists commands",
			args:     []string{"--help"},
			contains: "packages",
		},
		{
			name:    "unknown command",
			args:    []string{"publish"},
			wantErr: true,
		},
		{
			name:    "generate rejects arguments",
			args:    []string{"generate", "extra"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestPackagesCommand(t *testing.T) {
	configPath := sampleProject(t)
	out, err := run(t, "packages", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "counter-kit\n", out)
}
