package app

import "github.com/ayoisaiah/tally/internal/apperr"

var (
	errEmptyEntry = &apperr.Error{
		Message: "nothing to log: describe how you spent your time, e.g. tally log 7点到9点阅读",
	}

	errMissingID = &apperr.Error{
		Message: "missing %s ID",
	}

	errInvalidDate = &apperr.Error{
		Message: "invalid date '%s'",
	}

	errInvalidPeriod = &apperr.Error{
		Message: "invalid period '%s': use today, yesterday, 7days, 14days or 30days",
	}

	errInvalidEstimate = &apperr.Error{
		Message: "invalid estimate '%s': use minutes (90) or a duration (1h30m)",
	}

	errReadEntries = &apperr.Error{
		Message: "unable to read entries from %s",
	}

	errNothingToEdit = &apperr.Error{
		Message: "nothing to change: pass at least one option",
	}
)
