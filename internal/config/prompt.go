package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
████████╗ █████╗ ██╗     ██╗  ██╗   ██╗
╚══██╔══╝██╔══██╗██║     ██║  ╚██╗ ██╔╝
   ██║   ███████║██║     ██║   ╚████╔╝
   ██║   ██╔══██║██║     ██║    ╚██╔╝
   ██║   ██║  ██║███████╗███████╗██║
   ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	Timezone string
	APIKey   string
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts. It does nothing once a config file exists.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	// Display welcome message
	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure Tally for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'tally edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Timezone used to interpret your entries").
				Options(
					huh.NewOption("Asia/Shanghai", "Asia/Shanghai").Selected(true),
					huh.NewOption("Asia/Hong_Kong", "Asia/Hong_Kong"),
					huh.NewOption("Asia/Taipei", "Asia/Taipei"),
					huh.NewOption("Asia/Singapore", "Asia/Singapore"),
					huh.NewOption("Asia/Tokyo", "Asia/Tokyo"),
					huh.NewOption("Europe/London", "Europe/London"),
					huh.NewOption("America/New_York", "America/New_York"),
					huh.NewOption("UTC", "UTC"),
				).
				Value(&opts.Timezone),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Leave empty to parse entries with the built-in rules only.").
				EchoMode(huh.EchoModePassword).
				Value(&opts.APIKey),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Timezone = opts.Timezone
	c.LLM.APIKey = opts.APIKey
}
