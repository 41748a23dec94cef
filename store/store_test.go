package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tally/internal/models"
)

var cst = time.FixedZone("CST", 8*3600)

// tick returns a clock that advances by one second on every call.
func tick() func() time.Time {
	t := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openBackends(t *testing.T) map[string]DB {
	t.Helper()

	dir := t.TempDir()

	bc, err := NewClient(filepath.Join(dir, "tally.db"))
	require.NoError(t, err)

	bc.now = tick()

	sc, err := NewSQLite(filepath.Join(dir, "tally.sqlite"))
	require.NoError(t, err)

	sc.now = tick()

	t.Cleanup(func() {
		_ = bc.Close()
		_ = sc.Close()
	})

	return map[string]DB{
		"bolt":   bc,
		"sqlite": sc,
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, db DB)) {
	t.Helper()

	for name, db := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, db)
		})
	}
}

func record(day, startHour, endHour int, activity, goalID string) *models.TimeRecord {
	start := time.Date(2025, 7, day, startHour, 0, 0, 0, cst)
	end := time.Date(2025, 7, day, endHour, 0, 0, 0, cst)

	return &models.TimeRecord{
		Start:       start,
		End:         end,
		Activity:    activity,
		Description: activity,
		GoalID:      goalID,
		Method:      models.MethodRule,
		Duration:    models.MinutesBetween(start, end),
		Confidence:  0.8,
	}
}

func goal(title string, deadline time.Time, estimate models.Minutes) *models.Goal {
	return &models.Goal{
		Title:            title,
		Deadline:         deadline,
		EstimatedMinutes: estimate,
		Priority:         models.PriorityMedium,
		Status:           models.StatusPlanned,
	}
}

func TestRecordLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx := context.Background()

		r := record(28, 7, 9, "阅读", "")
		require.NoError(t, db.CreateRecord(ctx, r))
		require.NotEmpty(t, r.ID)
		assert.False(t, r.CreatedAt.IsZero())

		got, err := db.GetRecord(ctx, r.ID)
		require.NoError(t, err)
		assert.True(t, got.Start.Equal(r.Start))
		assert.True(t, got.End.Equal(r.End))
		assert.Equal(t, "阅读", got.Activity)
		assert.Equal(t, models.Minutes(120), got.Duration)
		assert.Equal(t, models.MethodRule, got.Method)
		assert.InDelta(t, 0.8, got.Confidence, 1e-9)

		// moving the start time must move the record in time order
		got.Start = time.Date(2025, 7, 29, 8, 0, 0, 0, cst)
		got.End = time.Date(2025, 7, 29, 10, 0, 0, 0, cst)
		got.Activity = "编程"
		require.NoError(t, db.UpdateRecord(ctx, got))

		day28, err := db.RecordsBetween(
			ctx,
			time.Date(2025, 7, 28, 0, 0, 0, 0, cst),
			time.Date(2025, 7, 29, 0, 0, 0, 0, cst),
		)
		require.NoError(t, err)
		assert.Empty(t, day28)

		day29, err := db.RecordsBetween(
			ctx,
			time.Date(2025, 7, 29, 0, 0, 0, 0, cst),
			time.Date(2025, 7, 30, 0, 0, 0, 0, cst),
		)
		require.NoError(t, err)
		require.Len(t, day29, 1)
		assert.Equal(t, "编程", day29[0].Activity)
		assert.True(t, day29[0].CreatedAt.Equal(r.CreatedAt))

		require.NoError(t, db.ArchiveRecord(ctx, r.ID))

		_, err = db.GetRecord(ctx, r.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, db.ArchiveRecord(ctx, r.ID), ErrNotFound)
		assert.ErrorIs(t, db.UpdateRecord(ctx, got), ErrNotFound)

		day29, err = db.RecordsBetween(
			ctx,
			time.Date(2025, 7, 29, 0, 0, 0, 0, cst),
			time.Date(2025, 7, 30, 0, 0, 0, 0, cst),
		)
		require.NoError(t, err)
		assert.Empty(t, day29)
	})
}

func TestRecordsBetween(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx := context.Background()

		for _, r := range []*models.TimeRecord{
			record(28, 14, 15, "编程", ""),
			record(28, 0, 1, "睡觉", ""),
			record(27, 23, 23, "吃饭", ""),
			record(29, 0, 2, "睡觉", ""),
			record(28, 7, 9, "阅读", ""),
		} {
			require.NoError(t, db.CreateRecord(ctx, r))
		}

		records, err := db.RecordsBetween(
			ctx,
			time.Date(2025, 7, 28, 0, 0, 0, 0, cst),
			time.Date(2025, 7, 29, 0, 0, 0, 0, cst),
		)
		require.NoError(t, err)

		var activities []string
		for _, r := range records {
			activities = append(activities, r.Activity)
		}

		// start inclusive, end exclusive, sorted by start
		assert.Equal(t, []string{"睡觉", "阅读", "编程"}, activities)
	})
}

func TestRecordsForGoal(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx := context.Background()

		a := record(28, 7, 9, "阅读", "g1")
		b := record(29, 7, 8, "阅读", "g1")
		c := record(29, 9, 10, "编程", "g2")

		for _, r := range []*models.TimeRecord{a, b, c} {
			require.NoError(t, db.CreateRecord(ctx, r))
		}

		require.NoError(t, db.ArchiveRecord(ctx, b.ID))

		records, err := db.RecordsForGoal(ctx, "g1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, a.ID, records[0].ID)

		records, err = db.RecordsForGoal(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestGoalLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx := context.Background()

		deadline := time.Date(2025, 8, 31, 0, 0, 0, 0, cst)

		g := goal("学习 golang", deadline, 600)
		require.NoError(t, db.CreateGoal(ctx, g))
		require.NotEmpty(t, g.ID)

		got, err := db.GetGoal(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "学习 golang", got.Title)
		assert.Equal(t, "2025-08-31", got.Deadline.Format(models.DateLayout))
		assert.Equal(t, models.Minutes(600), got.EstimatedMinutes)
		assert.Equal(t, models.StatusPlanned, got.Status)

		require.NoError(t, db.UpdateGoalProgress(ctx, g.ID, models.StatusInProgress, 150, 25))

		// user edits leave the derived fields alone
		got.Title = "精通 golang"
		got.Priority = models.PriorityHigh
		got.Status = models.StatusPlanned
		got.ActualMinutes = 0
		require.NoError(t, db.UpdateGoal(ctx, got))

		got, err = db.GetGoal(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "精通 golang", got.Title)
		assert.Equal(t, models.PriorityHigh, got.Priority)
		assert.Equal(t, models.StatusInProgress, got.Status)
		assert.Equal(t, models.Minutes(150), got.ActualMinutes)
		assert.Equal(t, 25, got.Progress)

		require.NoError(t, db.ArchiveGoal(ctx, g.ID))

		_, err = db.GetGoal(ctx, g.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, db.UpdateGoal(ctx, got), ErrNotFound)
		assert.ErrorIs(t,
			db.UpdateGoalProgress(ctx, g.ID, models.StatusCompleted, 600, 100),
			ErrNotFound,
		)

		goals, err := db.Goals(ctx)
		require.NoError(t, err)
		assert.Empty(t, goals)
	})
}

func TestActiveGoals(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx := context.Background()
		day := time.Date(2025, 7, 28, 15, 0, 0, 0, cst)

		open := goal("open", time.Date(2025, 8, 1, 0, 0, 0, 0, cst), 60)
		dueToday := goal("due today", time.Date(2025, 7, 28, 0, 0, 0, 0, cst), 60)
		overdue := goal("overdue", time.Date(2025, 7, 27, 0, 0, 0, 0, cst), 60)
		done := goal("done", time.Date(2025, 8, 1, 0, 0, 0, 0, cst), 60)
		archived := goal("archived", time.Date(2025, 8, 1, 0, 0, 0, 0, cst), 60)

		for _, g := range []*models.Goal{open, dueToday, overdue, done, archived} {
			require.NoError(t, db.CreateGoal(ctx, g))
		}

		require.NoError(t, db.UpdateGoalProgress(ctx, done.ID, models.StatusCompleted, 60, 100))
		require.NoError(t, db.ArchiveGoal(ctx, archived.ID))

		active, err := db.ActiveGoals(ctx, day)
		require.NoError(t, err)

		var titles []string
		for _, g := range active {
			titles = append(titles, g.Title)
		}

		assert.Equal(t, []string{"open", "due today"}, titles)

		all, err := db.Goals(ctx)
		require.NoError(t, err)

		titles = titles[:0]
		for _, g := range all {
			titles = append(titles, g.Title)
		}

		assert.Equal(t, []string{"open", "due today", "overdue", "done"}, titles)
	})
}

func TestNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx := context.Background()

		_, err := db.GetRecord(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = db.GetGoal(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, db.ArchiveRecord(ctx, "missing"), ErrNotFound)
		assert.ErrorIs(t, db.ArchiveGoal(ctx, "missing"), ErrNotFound)
	})
}

func TestCanceledContext(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db DB) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := db.RecordsBetween(ctx, time.Now(), time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSQLiteLenientDuration(t *testing.T) {
	db, err := NewSQLite(filepath.Join(t.TempDir(), "tally.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()

	cases := map[string]any{
		"null":     nil,
		"text":     "abc",
		"numeric":  "45",
		"negative": -10,
	}

	expected := map[string]models.Minutes{
		"null":     0,
		"text":     0,
		"numeric":  45,
		"negative": 0,
	}

	for name, duration := range cases {
		r := record(28, 7, 9, name, "")
		require.NoError(t, db.CreateRecord(ctx, r))

		_, err := db.db.ExecContext(ctx,
			`UPDATE records SET duration = ? WHERE id = ?`, duration, r.ID)
		require.NoError(t, err)

		got, err := db.GetRecord(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, expected[name], got.Duration, name)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(BackendSQLite, filepath.Join(dir, "a.sqlite"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, db)
	require.NoError(t, db.Close())

	db, err = Open(BackendBolt, filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &Client{}, db)
	require.NoError(t, db.Close())
}
