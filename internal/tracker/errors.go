package tracker

import "github.com/ayoisaiah/tally/internal/apperr"

var (
	errUnknownGoal = &apperr.Error{
		Message: "goal %s does not exist",
	}

	errUnknownRecord = &apperr.Error{
		Message: "record %s does not exist",
	}

	errEmptyTitle = &apperr.Error{
		Message: "goal title cannot be empty",
	}

	errNegativeEstimate = &apperr.Error{
		Message: "estimated time cannot be negative",
	}

	errInvalidPriority = &apperr.Error{
		Message: "priority must be High, Medium or Low, got %s",
	}

	errInvalidRange = &apperr.Error{
		Message: "end time %s must be after start time %s",
	}

	errSaveRecord = &apperr.Error{
		Message: "unable to save the record",
	}
)
