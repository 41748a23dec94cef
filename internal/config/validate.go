package config

import (
	"slices"
	"time"

	"github.com/ayoisaiah/tally/internal/taxonomy"
)

var (
	minLLMTimeout = 1 * time.Second
	maxLLMTimeout = 5 * time.Minute

	maxTemperature = 2.0

	providers = []string{ProviderGemini, ProviderNone, ""}
	backends  = []string{BackendBolt, BackendSQLite}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if c.Location == nil {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return errInvalidTimezone.Fmt(c.Timezone).Wrap(err)
		}

		c.Location = loc
	}

	if err := c.validateLLM(); err != nil {
		return err
	}

	if !slices.Contains(backends, c.Storage.Backend) {
		return errUnknownBackend.Fmt(c.Storage.Backend)
	}

	if len(taxonomy.New(c.Taxonomy).Labels()) == 0 {
		return errEmptyTaxonomy
	}

	return nil
}

// validateLLM validates the LLMConfig. The remaining fields are only
// checked when a provider is in use.
func (c *Config) validateLLM() error {
	if !slices.Contains(providers, c.LLM.Provider) {
		return errUnknownProvider.Fmt(c.LLM.Provider)
	}

	if c.LLM.Provider != ProviderGemini {
		return nil
	}

	if c.LLM.Timeout < minLLMTimeout || c.LLM.Timeout > maxLLMTimeout {
		return errLLMTimeout.Fmt(minLLMTimeout, maxLLMTimeout)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > maxTemperature {
		return errTemperature.Fmt(c.LLM.Temperature)
	}

	if c.LLM.MaxTokens <= 0 {
		return errMaxTokens
	}

	return nil
}
