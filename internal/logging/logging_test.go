package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(dir))

	slog.Info("board opened", "workspace_id", 3)

	data, err := os.ReadFile(filepath.Join(dir, "workboard.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "board opened")
	assert.Contains(t, string(data), "workspace_id=3")
}
