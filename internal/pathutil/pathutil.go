// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// Paths holds all application path configurations.
type Paths struct {
	appDir         string
	configFileName string
	dbFileName     string
	sqliteFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dataDir        string
	dbFilePath     string
	sqliteFilePath string
	logFilePath    string
}

var (
	paths   *Paths
	once    sync.Once
	initErr error
)

func defaults() *Paths {
	return &Paths{
		appDir:         "tally",
		configFileName: "config.yml",
		dbFileName:     "tally.db",
		sqliteFileName: "tally.sqlite",
		logFileName:    "tally.log",
	}
}

// Initialize must be called once at program startup.
func Initialize() error {
	once.Do(func() {
		p := defaults()

		p.applyEnvironmentOverrides(os.Getenv("TALLY_ENV"))

		initErr = p.computePaths()
		if initErr == nil {
			paths = p
		}
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

// Dir returns the name of the application directory inside the XDG
// directories.
func Dir() string {
	return Must().appDir
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DataDir() string {
	return Must().dataDir
}

// DBFilePath returns the default database path for the named backend.
func DBFilePath(backend string) string {
	if backend == "sqlite" {
		return Must().sqliteFilePath
	}

	return Must().dbFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

// applyEnvironmentOverrides gives every file a suffix so that separate
// environments (such as tests) never share data.
func (p *Paths) applyEnvironmentOverrides(env string) {
	env = strings.TrimSpace(env)
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbFileName = fmt.Sprintf("tally_%s.db", env)
	p.sqliteFileName = fmt.Sprintf("tally_%s.sqlite", env)
	p.logFileName = fmt.Sprintf("tally_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.appDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	p.dataDir, err = xdg.DataFile(p.appDir)
	if err != nil {
		return err
	}

	p.dbFilePath = filepath.Join(p.dataDir, p.dbFileName)

	p.sqliteFilePath = filepath.Join(p.dataDir, p.sqliteFileName)

	p.logFilePath = filepath.Join(p.dataDir, "log", p.logFileName)

	return nil
}

// StripExtension returns the input file name without its extension.
func StripExtension(fileName string) string {
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}
