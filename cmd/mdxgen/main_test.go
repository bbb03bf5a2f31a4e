package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestMainExitCode(t *testing.T) {
	// The subprocess runs main with the arguments passed in MDXGEN_ARGS.
	if os.Getenv("BE_MAIN") == "1" {
		os.Args = append([]string{"mdxgen"}, strings.Fields(os.Getenv("MDXGEN_ARGS"))...)
		main()
		return
	}

	missing := filepath.Join(t.TempDir(), "none.yml")
	tests := []struct {
		name     string
		args     string
		wantExit int
	}{
		{
			name:     "help command",
			args:     "--help",
			wantExit: 0,
		},
		{
			name:     "invalid flag",
			args:     "--invalid-flag",
			wantExit: 1,
		},
		{
			name:     "missing config",
			args:     "generate --package kit --config " + missing,
			wantExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMainExitCode$")
			cmd.Env = append(os.Environ(), "BE_MAIN=1", "MDXGEN_ARGS="+tt.args)

			err := cmd.Run()

			if tt.wantExit == 0 && err != nil {
				t.Errorf("Expected success but got error: %v", err)
			}
			if tt.wantExit == 1 {
				exitErr, ok := err.(*exec.ExitError)
				if !ok {
					t.Fatalf("Expected exit error, got %v", err)
				}
				if exitErr.ExitCode() != 1 {
					t.Errorf("Expected exit code 1, got %d", exitErr.ExitCode())
				}
			}
		})
	}
}
