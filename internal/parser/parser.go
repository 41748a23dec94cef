// Package parser turns free-form descriptions of time usage into time
// intervals. Strategies are tried in order and the first success wins.
package parser

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ayoisaiah/tally/internal/apperr"
	"github.com/ayoisaiah/tally/internal/models"
)

var (
	errNoStrategy = &apperr.Error{
		Message: "no parsing strategy is configured",
	}

	// ErrInvalidInterval reports an interval whose end is not after its start.
	ErrInvalidInterval = &apperr.Error{
		Message: "end time %s is not after start time %s",
	}

	// ErrMalformedResponse reports an AI response that could not be decoded
	// into an interval.
	ErrMalformedResponse = &apperr.Error{
		Message: "malformed AI response",
	}

	// ErrNoProvider is returned by the AI strategy when no completion
	// provider is available.
	ErrNoProvider = &apperr.Error{
		Message: "no AI provider available",
	}

	// ErrNoMatch is returned by the rule strategy when no template matches.
	ErrNoMatch = &apperr.Error{
		Message: "text does not match any known time pattern",
	}
)

// ParseFailure is returned when no strategy could parse the text. It is a
// user-correctable error.
type ParseFailure struct {
	Text string
	// Errs holds the failure of each strategy in the order they were tried.
	Errs []error
}

func (f *ParseFailure) Error() string {
	return "could not understand '" + f.Text + "'; try a form such as '7点到9点阅读' or '14:30-16:00编程'"
}

func (f *ParseFailure) Unwrap() []error {
	return f.Errs
}

// Strategy converts text into an interval relative to now.
type Strategy interface {
	Method() models.ParseMethod
	Parse(ctx context.Context, text string, now time.Time) (*models.TimeInterval, error)
}

// Chain tries each strategy in order. Failures of individual strategies are
// logged and never returned directly.
type Chain struct {
	logger     *slog.Logger
	strategies []Strategy
}

// NewChain returns a chain that tries strategies in the given order. Nil
// strategies are skipped.
func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Chain{logger: logger}

	for _, s := range strategies {
		if s != nil {
			c.strategies = append(c.strategies, s)
		}
	}

	return c
}

// Parse returns the interval produced by the first successful strategy, or
// a *ParseFailure carrying the original text.
func (c *Chain) Parse(
	ctx context.Context,
	text string,
	now time.Time,
) (*models.TimeInterval, error) {
	text = strings.TrimSpace(text)

	failure := &ParseFailure{Text: text}

	if len(c.strategies) == 0 {
		failure.Errs = append(failure.Errs, errNoStrategy)
		return nil, failure
	}

	for _, s := range c.strategies {
		iv, err := s.Parse(ctx, text, now)
		if err == nil {
			c.logger.Debug(
				"parsed interval",
				slog.String("method", string(iv.Method)),
				slog.String("activity", iv.Activity),
				slog.Int("duration", int(iv.Duration)),
				slog.Float64("confidence", iv.Confidence),
			)

			return iv, nil
		}

		level := slog.LevelWarn
		if errors.Is(err, ErrNoProvider) || errors.Is(err, ErrNoMatch) {
			level = slog.LevelDebug
		}

		c.logger.Log(
			ctx,
			level,
			"parsing strategy failed",
			slog.String("method", string(s.Method())),
			slog.String("text", text),
			slog.Any("error", err),
		)

		failure.Errs = append(failure.Errs, err)
	}

	return nil, failure
}

// newInterval validates start and end and builds the interval.
func newInterval(
	start, end time.Time,
	activity, description string,
	confidence float64,
	method models.ParseMethod,
) (*models.TimeInterval, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval.Fmt(
			end.Format(time.DateTime),
			start.Format(time.DateTime),
		)
	}

	return &models.TimeInterval{
		Start:       start,
		End:         end,
		Activity:    activity,
		Description: description,
		Duration:    models.MinutesBetween(start, end),
		Confidence:  confidence,
		Method:      method,
	}, nil
}
