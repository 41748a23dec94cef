// Package static embeds static files into the binary and copies them to the
// data directory.
package static

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/ayoisaiah/tally/internal/osutil"
)

const (
	filesDir = "files"
)

//go:embed files/*
var embeddedFiles embed.FS

// Install copies the embedded files into appDir under the XDG data
// directory. Files that already exist are left alone so that user edits
// survive upgrades. It returns the paths of the files it wrote.
func Install(appDir string) ([]string, error) {
	var written []string

	err := fs.WalkDir(
		embeddedFiles,
		filesDir,
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			stripped := strings.TrimPrefix(path, filesDir+"/")

			destPath, err := xdg.DataFile(filepath.Join(appDir, stripped))
			if err != nil {
				return err
			}

			if _, err := os.Stat(destPath); !errors.Is(err, os.ErrNotExist) {
				return err
			}

			b, err := embeddedFiles.ReadFile(path)
			if err != nil {
				return err
			}

			if err := os.WriteFile(destPath, b, osutil.FilePermission); err != nil {
				return err
			}

			written = append(written, destPath)

			return nil
		},
	)

	return written, err
}
