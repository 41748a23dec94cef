package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

func TestEnvironmentOverrides(t *testing.T) {
	p := defaults()
	p.applyEnvironmentOverrides(" test ")

	assert.Equal(t, "config_test.yml", p.configFileName)
	assert.Equal(t, "tally_test.db", p.dbFileName)
	assert.Equal(t, "tally_test.sqlite", p.sqliteFileName)
	assert.Equal(t, "tally_test.log", p.logFileName)

	p = defaults()
	p.applyEnvironmentOverrides("")

	assert.Equal(t, "config.yml", p.configFileName)
	assert.Equal(t, "tally.db", p.dbFileName)
}

func TestComputePaths(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	xdg.Reload()

	t.Cleanup(xdg.Reload)

	p := defaults()

	assert.NoError(t, p.computePaths())
	assert.Equal(t, filepath.Join(dir, "config", "tally", "config.yml"), p.configFilePath)
	assert.Equal(t, filepath.Join(dir, "data", "tally"), p.dataDir)
	assert.Equal(t, filepath.Join(p.dataDir, "tally.db"), p.dbFilePath)
	assert.Equal(t, filepath.Join(p.dataDir, "tally.sqlite"), p.sqliteFilePath)
	assert.Equal(t, filepath.Join(p.dataDir, "log", "tally.log"), p.logFilePath)
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "config", StripExtension("config.yml"))
	assert.Equal(t, "tally", StripExtension("tally"))
}
