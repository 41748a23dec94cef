package config

import "github.com/ayoisaiah/tally/internal/apperr"

var (
	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidTimezone = &apperr.Error{
		Message: "unknown timezone: %s",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be a duration such as 30s, got %q",
	}

	errLLMTimeout = &apperr.Error{
		Message: "llm timeout must be between %v and %v",
	}

	errTemperature = &apperr.Error{
		Message: "llm temperature must be between 0 and 2, got %v",
	}

	errMaxTokens = &apperr.Error{
		Message: "llm max_tokens must be greater than zero",
	}

	errUnknownProvider = &apperr.Error{
		Message: "unknown llm provider: %s (must be gemini or none)",
	}

	errUnknownBackend = &apperr.Error{
		Message: "unknown storage backend: %s (must be bolt or sqlite)",
	}

	errEmptyTaxonomy = &apperr.Error{
		Message: "at least one activity must be configured",
	}
)
