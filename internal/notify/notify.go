// Package notify shows desktop notifications.
package notify

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"
)

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the operating system.
type Desktop struct {
	appDir string
	send   func(title, message, icon string) error
}

// NewDesktop returns a notifier that looks for its icon under the
// application's XDG data directory.
func NewDesktop(appDir string) *Desktop {
	return &Desktop{
		appDir: appDir,
		send:   beeep.Notify,
	}
}

func (d *Desktop) Notify(title, message string) error {
	// iconPath is empty if the icon is not found
	iconPath, _ := xdg.SearchDataFile(
		filepath.Join(d.appDir, "static", "icon.png"),
	)

	if err := d.send(title, message, iconPath); err != nil {
		return fmt.Errorf("unable to display notification: %w", err)
	}

	return nil
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(string, string) error {
	return nil
}
