package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/timeutil"
)

// RecordUpdate holds the fields to change on a record. Nil fields are left
// as they are. An empty GoalID unlinks the record.
type RecordUpdate struct {
	Start       *time.Time
	End         *time.Time
	Activity    *string
	Description *string
	GoalID      *string
}

// Records returns the records that start on the day containing day.
func (t *Tracker) Records(ctx context.Context, day time.Time) ([]*models.TimeRecord, error) {
	start := timeutil.RoundToStart(day.In(t.loc))

	return t.db.RecordsBetween(ctx, start, timeutil.NextDay(start))
}

// RecordsBetween returns the records that start within [start, end).
func (t *Tracker) RecordsBetween(
	ctx context.Context,
	start, end time.Time,
) ([]*models.TimeRecord, error) {
	if !end.After(start) {
		return nil, errInvalidRange.Fmt(
			end.Format(time.DateTime),
			start.Format(time.DateTime),
		)
	}

	return t.db.RecordsBetween(ctx, start.In(t.loc), end.In(t.loc))
}

// Record returns a single record.
func (t *Tracker) Record(ctx context.Context, id string) (*models.TimeRecord, error) {
	r, err := t.db.GetRecord(ctx, id)
	if err != nil {
		return nil, errUnknownRecord.Fmt(id).Wrap(err)
	}

	return r, nil
}

// UpdateRecord applies u to a record and refreshes the progress of the goals
// it was and is now linked to.
func (t *Tracker) UpdateRecord(
	ctx context.Context,
	id string,
	u RecordUpdate,
) (*models.TimeRecord, error) {
	r, err := t.Record(ctx, id)
	if err != nil {
		return nil, err
	}

	oldGoalID := r.GoalID

	if u.Start != nil {
		r.Start = u.Start.In(t.loc)
	}

	if u.End != nil {
		r.End = u.End.In(t.loc)
	}

	if !r.End.After(r.Start) {
		return nil, errInvalidRange.Fmt(
			r.End.Format(time.DateTime),
			r.Start.Format(time.DateTime),
		)
	}

	r.Duration = models.MinutesBetween(r.Start, r.End)

	if u.Activity != nil {
		r.Activity = *u.Activity
	}

	if u.Description != nil {
		r.Description = *u.Description
	}

	if u.GoalID != nil && *u.GoalID != r.GoalID {
		if *u.GoalID != "" {
			if _, err := t.db.GetGoal(ctx, *u.GoalID); err != nil {
				return nil, errUnknownGoal.Fmt(*u.GoalID).Wrap(err)
			}
		}

		r.GoalID = *u.GoalID
	}

	if err := t.db.UpdateRecord(ctx, r); err != nil {
		return nil, errSaveRecord.Wrap(err)
	}

	t.logger.InfoContext(ctx, "record updated", slog.String("id", r.ID))

	t.refresh(ctx, oldGoalID)

	if r.GoalID != oldGoalID {
		t.refresh(ctx, r.GoalID)
	}

	return r, nil
}

// ArchiveRecord soft-deletes a record and refreshes its goal.
func (t *Tracker) ArchiveRecord(ctx context.Context, id string) error {
	r, err := t.Record(ctx, id)
	if err != nil {
		return err
	}

	if err := t.db.ArchiveRecord(ctx, id); err != nil {
		return err
	}

	t.logger.InfoContext(ctx, "record archived", slog.String("id", id))

	t.refresh(ctx, r.GoalID)

	return nil
}
