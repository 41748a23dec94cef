package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	dataHome := t.TempDir()

	t.Setenv("XDG_DATA_HOME", dataHome)
	xdg.Reload()

	t.Cleanup(xdg.Reload)

	written, err := Install("tally_test")
	require.NoError(t, err)

	dest := filepath.Join(dataHome, "tally_test", "example_entries.txt")
	assert.Equal(t, []string{dest}, written)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), "7点到9点阅读")

	// Existing files are kept.
	require.NoError(t, os.WriteFile(dest, []byte("mine"), 0o600))

	written, err = Install("tally_test")
	require.NoError(t, err)
	assert.Empty(t, written)

	b, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(b))
}
