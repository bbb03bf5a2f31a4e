package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "WARN", want: LevelWarn},
		{in: " info ", want: LevelInfo},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel(LevelInfo)
	})

	require.NoError(t, SetLevel(LevelWarn))
	Info("hidden message")
	Warn("skipping file", "path", "a.js")

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "skipping file")
	assert.Contains(t, out, "a.js")
	assert.False(t, IsDebugEnabled())

	require.NoError(t, SetLevel(LevelDebug))
	assert.True(t, IsDebugEnabled())
	assert.Error(t, SetLevel("loud"))
}
