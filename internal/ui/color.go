// Package ui holds the terminal styling shared by tally's commands.
package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
)

var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Blue(a any) string {
	if DarkTheme {
		return pterm.LightBlue(a)
	}

	return pterm.Blue(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Category colours a value by the category it belongs to.
func Category(c taxonomy.Category, a any) string {
	switch c {
	case taxonomy.Production:
		return Green(a)
	case taxonomy.Investment:
		return Cyan(a)
	default:
		return Magenta(a)
	}
}

// Status colours a goal status.
func Status(s models.Status) string {
	switch s {
	case models.StatusCompleted:
		return Green(s)
	case models.StatusInProgress:
		return Cyan(s)
	case models.StatusAbandoned:
		return Red(s)
	default:
		return Highlight(s)
	}
}
