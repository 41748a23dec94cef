package config

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Timezone      string
	Backend       string
	DBPath        string
	NoAI          bool
	Verbose       bool
	DisableNotify bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Timezone:      ctx.String("timezone"),
			Backend:       ctx.String("storage"),
			DBPath:        ctx.String("db"),
			NoAI:          anyBool(ctx, "no-ai"),
			Verbose:       ctx.Bool("verbose"),
			DisableNotify: ctx.Bool("disable-notification"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// anyBool reports whether a boolean flag is set on the command or on any of
// its parents. Flags such as --no-ai are accepted at both levels.
func anyBool(ctx *cli.Context, name string) bool {
	for _, c := range ctx.Lineage() {
		if c.Bool(name) {
			return true
		}
	}

	return false
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if tz := strings.TrimSpace(opts.Timezone); tz != "" && tz != c.Timezone {
		c.Timezone = tz
		// resolved again by Validate
		c.Location = nil
	}

	if opts.Backend != "" {
		c.Storage.Backend = strings.ToLower(opts.Backend)
	}

	if opts.DBPath != "" {
		c.Storage.Path = opts.DBPath
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	c.CLI.NoAI = opts.NoAI
	c.CLI.Verbose = opts.Verbose
}
