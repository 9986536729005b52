package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reez/ackamoto/internal/models"
	"github.com/reez/ackamoto/internal/output"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Mode
		wantErr bool
	}{
		{"ack", models.ModeACK, false},
		{"nack", models.ModeNACK, false},
		{"", models.ModeACK, false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		got, err := parseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input: %q", tt.in)
			continue
		}
		require.NoError(t, err, "input: %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteArtifact(t *testing.T) {
	ui = output.New()
	dir := t.TempDir()

	require.NoError(t, writeArtifact(dir, "index.html", []byte("<html></html>")))

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestWriteArtifact_DryRun(t *testing.T) {
	var errBuf bytes.Buffer
	ui = output.New()
	ui.DryRun = true
	ui.ErrOut = &errBuf
	dryRun = true
	t.Cleanup(func() { dryRun = false })

	dir := t.TempDir()
	require.NoError(t, writeArtifact(dir, "index.html", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "index.html"))
	assert.True(t, os.IsNotExist(err), "dry run must not write files")
	assert.Contains(t, errBuf.String(), "DRY-RUN")
}
