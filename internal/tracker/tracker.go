// Package tracker composes the parser, goal matcher, progress tracker and
// report aggregator over a store.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayoisaiah/tally/internal/goal"
	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/notify"
	"github.com/ayoisaiah/tally/internal/taxonomy"
	"github.com/ayoisaiah/tally/store"
)

// Parser turns free-form text into an interval.
type Parser interface {
	Parse(ctx context.Context, text string, now time.Time) (*models.TimeInterval, error)
}

// Options holds the collaborators of a Tracker.
type Options struct {
	DB       store.DB
	Parser   Parser
	Taxonomy taxonomy.Source
	Notifier notify.Notifier
	Logger   *slog.Logger
	Location *time.Location
	Now      func() time.Time
}

// Tracker records time and keeps goal progress in step with the records.
type Tracker struct {
	db       store.DB
	parser   Parser
	taxonomy taxonomy.Source
	notifier notify.Notifier
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

// New creates a Tracker. Optional collaborators fall back to defaults.
func New(opts Options) *Tracker {
	t := &Tracker{
		db:       opts.DB,
		parser:   opts.Parser,
		taxonomy: opts.Taxonomy,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		loc:      opts.Location,
		now:      opts.Now,
	}

	if t.taxonomy == nil {
		t.taxonomy = taxonomy.New(taxonomy.Lists{})
	}

	if t.notifier == nil {
		t.notifier = notify.Nop{}
	}

	if t.logger == nil {
		t.logger = slog.Default()
	}

	if t.loc == nil {
		t.loc = time.Local
	}

	if t.now == nil {
		t.now = time.Now
	}

	return t
}

// Now returns the current time in the configured location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Taxonomy returns the taxonomy currently in effect.
func (t *Tracker) Taxonomy() *taxonomy.Taxonomy {
	return t.taxonomy.Snapshot()
}

// LogOptions adjusts how an entry is logged.
type LogOptions struct {
	// GoalID links the record to a goal and skips matching.
	GoalID string
}

// LogResult describes a logged entry.
type LogResult struct {
	Record *models.TimeRecord
	// Goal is the goal the record was linked to, after recomputation.
	Goal *models.Goal
	// Score is the match score, zero when the goal was given explicitly.
	Score int
	// Completed is set when the entry completed its goal.
	Completed bool
}

// Log parses text, links it to the best matching open goal, saves the
// record and updates the goal's progress. A *parser.ParseFailure is returned
// when the text could not be understood.
func (t *Tracker) Log(
	ctx context.Context,
	text string,
	opts LogOptions,
) (*LogResult, error) {
	now := t.Now()

	iv, err := t.parser.Parse(ctx, text, now)
	if err != nil {
		return nil, err
	}

	res := &LogResult{}

	if opts.GoalID != "" {
		g, err := t.db.GetGoal(ctx, opts.GoalID)
		if err != nil {
			return nil, errUnknownGoal.Fmt(opts.GoalID).Wrap(err)
		}

		res.Goal = g
	} else {
		res.Goal, res.Score = t.match(ctx, iv)
	}

	var goalID string
	if res.Goal != nil {
		goalID = res.Goal.ID
	}

	rec := models.NewRecord(iv, goalID)

	if err := t.db.CreateRecord(ctx, rec); err != nil {
		return nil, errSaveRecord.Wrap(err)
	}

	t.logger.InfoContext(
		ctx,
		"record created",
		slog.String("id", rec.ID),
		slog.String("activity", rec.Activity),
		slog.Int("duration", int(rec.Duration)),
		slog.String("goal_id", goalID),
		slog.Int("score", res.Score),
	)

	res.Record = rec

	if res.Goal != nil {
		res.Goal, res.Completed = t.refresh(ctx, res.Goal.ID)
	}

	return res, nil
}

// match finds the goal that best fits the interval among those still open
// on the day the interval starts. Matching is opportunistic: a failed goal
// query only costs the link.
func (t *Tracker) match(
	ctx context.Context,
	iv *models.TimeInterval,
) (*models.Goal, int) {
	goals, err := t.db.ActiveGoals(ctx, iv.Start.In(t.loc))
	if err != nil {
		t.logger.WarnContext(
			ctx,
			"unable to load active goals",
			slog.Any("error", err),
		)

		return nil, 0
	}

	return goal.Match(iv.Description, goals)
}

// refresh recomputes a goal and reports whether it just became completed.
// Failures are logged: the record that triggered the refresh is already
// saved.
func (t *Tracker) refresh(ctx context.Context, goalID string) (*models.Goal, bool) {
	g, completed, err := t.recompute(ctx, goalID)
	if err != nil {
		t.logger.WarnContext(
			ctx,
			"goal progress not updated",
			slog.String("goal_id", goalID),
			slog.Any("error", err),
		)
	}

	return g, completed
}

// recompute derives a goal's status, actual time and progress from its
// records and saves them. Nothing is written if the records cannot be read.
// A missing or archived goal is not an error since records only hold a weak
// reference to their goal.
func (t *Tracker) recompute(
	ctx context.Context,
	goalID string,
) (*models.Goal, bool, error) {
	if goalID == "" {
		return nil, false, nil
	}

	g, err := t.db.GetGoal(ctx, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	records, err := t.db.RecordsForGoal(ctx, goalID)
	if err != nil {
		t.logger.WarnContext(
			ctx,
			"goal computation failed",
			slog.String("goal_id", goalID),
			slog.Int("actual_time", 0),
			slog.Any("error", err),
		)

		return g, false, nil
	}

	snap := goal.Recompute(g, records)
	if !snap.Changed(g) {
		return g, false, nil
	}

	err = t.db.UpdateGoalProgress(ctx, g.ID, snap.Status, snap.Actual, snap.Progress)
	if err != nil {
		return g, false, err
	}

	completed := g.Status != models.StatusCompleted &&
		snap.Status == models.StatusCompleted

	snap.Apply(g, t.now())

	t.logger.DebugContext(
		ctx,
		"goal progress updated",
		slog.String("goal_id", g.ID),
		slog.String("status", string(g.Status)),
		slog.Int("actual_time", int(g.ActualMinutes)),
		slog.Int("progress", g.Progress),
	)

	if completed {
		t.notifyCompleted(ctx, g)
	}

	return g, completed, nil
}

func (t *Tracker) notifyCompleted(ctx context.Context, g *models.Goal) {
	err := t.notifier.Notify("Goal completed", g.Title)
	if err != nil {
		t.logger.WarnContext(ctx, "notification failed", slog.Any("error", err))
	}
}
