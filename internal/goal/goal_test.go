package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tally/internal/models"
)

func newGoal(id, title string) *models.Goal {
	return &models.Goal{
		ID:       id,
		Title:    title,
		Status:   models.StatusPlanned,
		Deadline: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

type scoreTest struct {
	Name        string
	Description string
	Title       string
	Expected    int
}

var scoreTestCases = []scoreTest{
	{
		Name:        "description token inside title",
		Description: "阅读",
		Title:       "阅读三本书",
		Expected:    2,
	},
	{
		Name:        "both directions count",
		Description: "go 并发",
		Title:       "go 并发",
		Expected:    8,
	},
	{
		Name:        "case insensitive",
		Description: "Learn Golang",
		Title:       "golang course",
		Expected:    12,
	},
	{
		Name:        "single character tokens ignored",
		Description: "a b 书",
		Title:       "a b 书",
		Expected:    0,
	},
	{
		Name:        "no overlap",
		Description: "跑步",
		Title:       "写作计划",
		Expected:    0,
	},
}

func TestScore(t *testing.T) {
	for _, tc := range scoreTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, Score(tc.Description, tc.Title))
		})
	}
}

func TestScoreIsSymmetric(t *testing.T) {
	assert.Equal(t, Score("学习 golang 并发", "golang 学习"), Score("golang 学习", "学习 golang 并发"))
}

func TestMatchPicksHighestScore(t *testing.T) {
	goals := []*models.Goal{
		newGoal("1", "写作"),
		newGoal("2", "golang 并发编程"),
		newGoal("3", "golang"),
	}

	g, score := Match("学习 golang 并发编程", goals)
	require.NotNil(t, g)

	assert.Equal(t, "2", g.ID)
	assert.Equal(t, 20, score)
}

func TestMatchTieGoesToFirst(t *testing.T) {
	goals := []*models.Goal{
		newGoal("first", "阅读计划"),
		newGoal("second", "阅读打卡"),
	}

	g, score := Match("阅读", goals)
	require.NotNil(t, g)

	assert.Equal(t, "first", g.ID)
	assert.Equal(t, MinScore, score)
}

func TestMatchBelowThreshold(t *testing.T) {
	goals := []*models.Goal{
		newGoal("1", "x y"),
		newGoal("2", "写作"),
	}

	g, _ := Match("x 跑步", goals)
	assert.Nil(t, g)

	g, _ = Match("anything", nil)
	assert.Nil(t, g)
}

func TestActive(t *testing.T) {
	day := time.Date(2025, 8, 1, 18, 0, 0, 0, time.UTC)

	open := newGoal("open", "open")
	due := newGoal("due", "due")
	due.Deadline = time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	done := newGoal("done", "done")
	done.Status = models.StatusCompleted
	archived := newGoal("archived", "archived")
	archived.Archived = true

	got := Active([]*models.Goal{open, due, done, archived, nil}, day)

	require.Len(t, got, 1)
	assert.Equal(t, "open", got[0].ID)
}

func records(goalID string, durations ...models.Minutes) []*models.TimeRecord {
	out := make([]*models.TimeRecord, 0, len(durations))

	for _, d := range durations {
		out = append(out, &models.TimeRecord{GoalID: goalID, Duration: d})
	}

	return out
}

func TestActualMinutes(t *testing.T) {
	recs := records("g1", 30, 45, -10, 0)
	recs = append(recs, records("g2", 100)...)
	recs = append(recs, &models.TimeRecord{GoalID: "g1", Duration: 60, Archived: true}, nil)

	assert.Equal(t, models.Minutes(75), ActualMinutes("g1", recs))

	// order does not matter and the sum is idempotent
	reversed := make([]*models.TimeRecord, len(recs))
	for i, r := range recs {
		reversed[len(recs)-1-i] = r
	}

	assert.Equal(t, ActualMinutes("g1", recs), ActualMinutes("g1", reversed))
	assert.Equal(t, ActualMinutes("g1", recs), ActualMinutes("g1", recs))
}

type evaluateTest struct {
	Name      string
	Actual    models.Minutes
	Estimated models.Minutes
	Status    models.Status
	Progress  int
}

var evaluateTestCases = []evaluateTest{
	{"nothing logged", 0, 120, models.StatusPlanned, 0},
	{"partial", 45, 120, models.StatusInProgress, 37},
	{"almost", 119, 120, models.StatusInProgress, 99},
	{"exact", 120, 120, models.StatusCompleted, 100},
	{"exceeded", 300, 120, models.StatusCompleted, 100},
	{"no estimate", 30, 0, models.StatusInProgress, 0},
	{"no estimate nothing logged", 0, 0, models.StatusPlanned, 0},
}

func TestEvaluate(t *testing.T) {
	for _, tc := range evaluateTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			status, pct := Evaluate(tc.Actual, tc.Estimated)

			assert.Equal(t, tc.Status, status)
			assert.Equal(t, tc.Progress, pct)
		})
	}
}

func TestEvaluateIsMonotonic(t *testing.T) {
	rank := map[models.Status]int{
		models.StatusPlanned:    0,
		models.StatusInProgress: 1,
		models.StatusCompleted:  2,
	}

	prevRank, prevPct := 0, 0

	for actual := models.Minutes(0); actual <= 200; actual += 7 {
		status, pct := Evaluate(actual, 150)

		assert.GreaterOrEqual(t, rank[status], prevRank, "actual %d", actual)
		assert.GreaterOrEqual(t, pct, prevPct, "actual %d", actual)

		prevRank, prevPct = rank[status], pct
	}
}

func TestRecompute(t *testing.T) {
	g := newGoal("g1", "阅读")
	g.EstimatedMinutes = 60

	snap := Recompute(g, records("g1", 30, 40))

	assert.Equal(t, Snapshot{Status: models.StatusCompleted, Actual: 70, Progress: 100}, snap)
	assert.True(t, snap.Changed(g))

	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	snap.Apply(g, now)

	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Equal(t, models.Minutes(70), g.ActualMinutes)
	assert.Equal(t, 100, g.Progress)
	assert.Equal(t, now, g.UpdatedAt)
	assert.False(t, Recompute(g, records("g1", 30, 40)).Changed(g))
}

func TestRecomputeKeepsAbandoned(t *testing.T) {
	g := newGoal("g1", "阅读")
	g.EstimatedMinutes = 60
	g.Status = models.StatusAbandoned

	snap := Recompute(g, records("g1", 20))

	assert.Equal(t, models.StatusAbandoned, snap.Status)
	assert.Equal(t, models.Minutes(20), snap.Actual)
	assert.Equal(t, 33, snap.Progress)
}
