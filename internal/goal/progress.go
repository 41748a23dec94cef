package goal

import (
	"time"

	"github.com/ayoisaiah/tally/internal/models"
)

// ActualMinutes sums the duration of the non-archived records that refer to
// goalID. Negative durations count as zero. The result does not depend on
// the order of records.
func ActualMinutes(goalID string, records []*models.TimeRecord) models.Minutes {
	var total models.Minutes

	for _, r := range records {
		if r == nil || r.Archived || r.GoalID != goalID {
			continue
		}

		if r.Duration > 0 {
			total += r.Duration
		}
	}

	return total
}

// Evaluate derives the lifecycle status and progress percentage of a goal
// from its actual and estimated minutes.
func Evaluate(actual, estimated models.Minutes) (models.Status, int) {
	if actual <= 0 {
		return models.StatusPlanned, 0
	}

	if estimated <= 0 {
		return models.StatusInProgress, 0
	}

	pct := int(actual) * 100 / int(estimated)
	if pct >= 100 {
		return models.StatusCompleted, 100
	}

	return models.StatusInProgress, pct
}

// Snapshot is the derived state of a goal.
type Snapshot struct {
	Status   models.Status
	Actual   models.Minutes
	Progress int
}

// Recompute derives the state of g from records. An abandoned goal keeps
// its status while its actual minutes and progress are refreshed.
func Recompute(g *models.Goal, records []*models.TimeRecord) Snapshot {
	actual := ActualMinutes(g.ID, records)

	status, pct := Evaluate(actual, g.EstimatedMinutes)
	if g.Status == models.StatusAbandoned {
		status = models.StatusAbandoned
	}

	return Snapshot{
		Status:   status,
		Actual:   actual,
		Progress: pct,
	}
}

// Changed reports whether applying s to g would modify it.
func (s Snapshot) Changed(g *models.Goal) bool {
	return g.Status != s.Status ||
		g.ActualMinutes != s.Actual ||
		g.Progress != s.Progress
}

// Apply writes s into g.
func (s Snapshot) Apply(g *models.Goal, now time.Time) {
	g.Status = s.Status
	g.ActualMinutes = s.Actual
	g.Progress = s.Progress
	g.UpdatedAt = now
}
