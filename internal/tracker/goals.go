package tracker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ayoisaiah/tally/internal/models"
)

// GoalInput holds the user-managed fields of a new goal.
type GoalInput struct {
	Deadline  time.Time
	Title     string
	Priority  models.Priority
	Estimated models.Minutes
}

// GoalUpdate holds the user-managed fields to change on a goal. Nil fields
// are left as they are.
type GoalUpdate struct {
	Deadline  *time.Time
	Title     *string
	Priority  *models.Priority
	Estimated *models.Minutes
}

func validateGoal(title string, estimated models.Minutes, priority models.Priority) error {
	if strings.TrimSpace(title) == "" {
		return errEmptyTitle
	}

	if estimated < 0 {
		return errNegativeEstimate
	}

	if !priority.Valid() {
		return errInvalidPriority.Fmt(priority)
	}

	return nil
}

// CreateGoal saves a new Planned goal. The priority defaults to Medium.
func (t *Tracker) CreateGoal(ctx context.Context, in GoalInput) (*models.Goal, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	if err := validateGoal(in.Title, in.Estimated, in.Priority); err != nil {
		return nil, err
	}

	g := &models.Goal{
		Title:            strings.TrimSpace(in.Title),
		Deadline:         in.Deadline.In(t.loc),
		EstimatedMinutes: in.Estimated,
		Priority:         in.Priority,
		Status:           models.StatusPlanned,
	}

	if err := t.db.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	t.logger.InfoContext(
		ctx,
		"goal created",
		slog.String("id", g.ID),
		slog.String("title", g.Title),
	)

	return g, nil
}

// Goal returns a single goal.
func (t *Tracker) Goal(ctx context.Context, id string) (*models.Goal, error) {
	g, err := t.db.GetGoal(ctx, id)
	if err != nil {
		return nil, errUnknownGoal.Fmt(id).Wrap(err)
	}

	return g, nil
}

// Goals returns every goal that has not been deleted, oldest first.
func (t *Tracker) Goals(ctx context.Context) ([]*models.Goal, error) {
	return t.db.Goals(ctx)
}

// ActiveGoals returns the goals still open today.
func (t *Tracker) ActiveGoals(ctx context.Context) ([]*models.Goal, error) {
	return t.db.ActiveGoals(ctx, t.Now())
}

// UpdateGoal applies u to a goal. A new estimate changes the goal's
// progress, so the goal is recomputed.
func (t *Tracker) UpdateGoal(
	ctx context.Context,
	id string,
	u GoalUpdate,
) (*models.Goal, error) {
	g, err := t.Goal(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		g.Title = strings.TrimSpace(*u.Title)
	}

	if u.Deadline != nil {
		g.Deadline = u.Deadline.In(t.loc)
	}

	if u.Priority != nil {
		g.Priority = *u.Priority
	}

	estimateChanged := u.Estimated != nil && *u.Estimated != g.EstimatedMinutes
	if u.Estimated != nil {
		g.EstimatedMinutes = *u.Estimated
	}

	if err := validateGoal(g.Title, g.EstimatedMinutes, g.Priority); err != nil {
		return nil, err
	}

	if err := t.db.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "goal updated", slog.String("id", g.ID))

	if !estimateChanged {
		return g, nil
	}

	updated, _, err := t.recompute(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// AbandonGoal marks a goal as Abandoned. The status sticks until the goal is
// deleted.
func (t *Tracker) AbandonGoal(ctx context.Context, id string) (*models.Goal, error) {
	g, err := t.Goal(ctx, id)
	if err != nil {
		return nil, err
	}

	err = t.db.UpdateGoalProgress(
		ctx,
		g.ID,
		models.StatusAbandoned,
		g.ActualMinutes,
		g.Progress,
	)
	if err != nil {
		return nil, err
	}

	g.Status = models.StatusAbandoned
	g.UpdatedAt = t.now()

	t.logger.InfoContext(ctx, "goal abandoned", slog.String("id", g.ID))

	return g, nil
}

// ArchiveGoal soft-deletes a goal. Its records keep their reference.
func (t *Tracker) ArchiveGoal(ctx context.Context, id string) error {
	if err := t.db.ArchiveGoal(ctx, id); err != nil {
		return errUnknownGoal.Fmt(id).Wrap(err)
	}

	t.logger.InfoContext(ctx, "goal archived", slog.String("id", id))

	return nil
}

// RecomputeGoals refreshes the progress of every goal and returns the
// updated goals.
func (t *Tracker) RecomputeGoals(ctx context.Context) ([]*models.Goal, error) {
	goals, err := t.db.Goals(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Goal, 0, len(goals))

	for _, g := range goals {
		updated, _, err := t.recompute(ctx, g.ID)
		if err != nil {
			return nil, err
		}

		if updated != nil {
			out = append(out, updated)
		}
	}

	return out, nil
}
