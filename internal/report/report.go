// Package report builds daily and weekly summaries from time records.
package report

import (
	"slices"
	"sort"
	"time"

	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
	"github.com/ayoisaiah/tally/internal/timeutil"
)

// Suggestions appended to weekly reports.
const (
	SuggestRecordMore     = "建议提高时间记录的完整性"
	SuggestMoreProduction = "可以考虑增加生产性活动的时间"
	SuggestLessExpense    = "建议减少支出类活动，增加有价值的时间投入"
)

const minCoverage = 60

// Date is a calendar date. It marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(models.DateLayout) + `"`), nil
}

func (d Date) String() string {
	return d.Format(models.DateLayout)
}

// CategoryStats is the time spent in one category.
type CategoryStats struct {
	Minutes    models.Minutes `json:"duration"`
	Percentage float64        `json:"percentage"`
}

// ActivityStats is the time spent on one activity.
type ActivityStats struct {
	Activity string            `json:"activity"`
	Category taxonomy.Category `json:"category"`
	Minutes  models.Minutes    `json:"duration"`
}

// GoalProgress is the state of a goal when the report was built.
type GoalProgress struct {
	GoalID     string         `json:"goal_id"`
	Title      string         `json:"title"`
	Status     models.Status  `json:"status"`
	Actual     models.Minutes `json:"actual_time"`
	Estimated  models.Minutes `json:"estimated_time"`
	Percentage int            `json:"percentage"`
}

// Entry is a single record in a daily report.
type Entry struct {
	ID          string         `json:"id"`
	Start       time.Time      `json:"start_time"`
	End         time.Time      `json:"end_time"`
	Activity    string         `json:"activity"`
	Description string         `json:"description"`
	GoalID      string         `json:"goal_id,omitempty"`
	Minutes     models.Minutes `json:"duration"`
}

// Daily summarises a single day.
type Daily struct {
	Date           Date                                `json:"report_date"`
	TotalRecords   int                                 `json:"total_records"`
	TotalMinutes   models.Minutes                      `json:"total_duration"`
	EfficiencyRate float64                             `json:"efficiency_rate"`
	Categories     map[taxonomy.Category]CategoryStats `json:"category_stats"`
	Activities     []ActivityStats                     `json:"activity_stats"`
	Goals          []GoalProgress                      `json:"goal_progress"`
	Entries        []Entry                             `json:"records"`
}

// DayRecords holds the records fetched for one day. Err is set when the
// fetch failed.
type DayRecords struct {
	Date    time.Time
	Err     error
	Records []*models.TimeRecord
}

// DayTotal is the time recorded on one day of a week.
type DayTotal struct {
	Date    Date           `json:"date"`
	Minutes models.Minutes `json:"duration"`
	Failed  bool           `json:"failed,omitempty"`
}

// CategorySummary is the weekly time spent in one category together with
// its activities.
type CategorySummary struct {
	CategoryStats
	Activities []ActivityStats `json:"activities"`
}

// CompletedGoal is a goal reported as completed in a weekly report.
type CompletedGoal struct {
	GoalID    string         `json:"goal_id"`
	Title     string         `json:"title"`
	Estimated models.Minutes `json:"estimated_time"`
	Actual    models.Minutes `json:"actual_time"`
}

// Weekly summarises an ISO week from Monday to Sunday.
type Weekly struct {
	Week              string                                `json:"week"`
	DateRange         [2]Date                               `json:"date_range"`
	TotalMinutes      models.Minutes                        `json:"total_duration"`
	EfficiencyRate    float64                               `json:"efficiency_rate"`
	CoverageRate      float64                               `json:"coverage_rate"`
	UnrecordedMinutes models.Minutes                        `json:"unrecorded_duration"`
	Days              []DayTotal                            `json:"daily_breakdown"`
	Categories        map[taxonomy.Category]CategorySummary `json:"category_summary"`
	CompletedGoals    []CompletedGoal                       `json:"completed_goals"`
	Suggestions       []string                              `json:"suggestions"`
}

// totals accumulates minutes per category and per activity.
type totals struct {
	categories map[taxonomy.Category]models.Minutes
	activities map[string]models.Minutes
	order      []string
	total      models.Minutes
}

func newTotals() *totals {
	t := &totals{
		categories: make(map[taxonomy.Category]models.Minutes),
		activities: make(map[string]models.Minutes),
	}

	for _, c := range taxonomy.Categories {
		t.categories[c] = 0
	}

	return t
}

func (t *totals) add(r *models.TimeRecord, tax *taxonomy.Taxonomy) {
	d := max(r.Duration, 0)

	t.total += d
	t.categories[tax.Classify(r.Activity)] += d

	if _, ok := t.activities[r.Activity]; !ok {
		t.order = append(t.order, r.Activity)
	}

	t.activities[r.Activity] += d
}

func (t *totals) efficiency() float64 {
	var productive models.Minutes

	for c, m := range t.categories {
		if c.Productive() {
			productive += m
		}
	}

	return percentage(productive, t.total)
}

func (t *totals) categoryStats() map[taxonomy.Category]CategoryStats {
	out := make(map[taxonomy.Category]CategoryStats, len(t.categories))

	for c, m := range t.categories {
		out[c] = CategoryStats{
			Minutes:    m,
			Percentage: percentage(m, t.total),
		}
	}

	return out
}

// activityStats lists activities by time spent, longest first. Activities
// with equal time keep the order they were first seen in.
func (t *totals) activityStats(tax *taxonomy.Taxonomy) []ActivityStats {
	out := make([]ActivityStats, 0, len(t.order))

	for _, a := range t.order {
		out = append(out, ActivityStats{
			Activity: a,
			Category: tax.Classify(a),
			Minutes:  t.activities[a],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minutes > out[j].Minutes
	})

	return out
}

func percentage(part, whole models.Minutes) float64 {
	if whole <= 0 {
		return 0
	}

	return timeutil.RoundTo1(float64(part) / float64(whole) * 100)
}

func sortByStart(records []*models.TimeRecord) []*models.TimeRecord {
	sorted := slices.Clone(records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	return sorted
}

// within keeps the non-archived records that start in [start, end).
func within(records []*models.TimeRecord, start, end time.Time) []*models.TimeRecord {
	out := make([]*models.TimeRecord, 0, len(records))

	for _, r := range records {
		if r == nil || r.Archived {
			continue
		}

		if r.Start.Before(start) || !r.Start.Before(end) {
			continue
		}

		out = append(out, r)
	}

	return out
}

// NewDaily builds the report for the day containing date. Records outside
// that day are ignored. Goals that are open on the day and have time logged
// against them are included.
func NewDaily(
	date time.Time,
	records []*models.TimeRecord,
	goals []*models.Goal,
	tax *taxonomy.Taxonomy,
) *Daily {
	start := timeutil.RoundToStart(date)

	records = sortByStart(within(records, start, timeutil.NextDay(start)))

	t := newTotals()

	entries := make([]Entry, 0, len(records))

	for _, r := range records {
		t.add(r, tax)

		entries = append(entries, Entry{
			ID:          r.ID,
			Start:       r.Start,
			End:         r.End,
			Activity:    r.Activity,
			Description: r.Description,
			GoalID:      r.GoalID,
			Minutes:     r.Duration,
		})
	}

	progress := make([]GoalProgress, 0)

	for _, g := range goals {
		if g == nil || !g.ActiveOn(start) || g.ActualMinutes <= 0 {
			continue
		}

		progress = append(progress, GoalProgress{
			GoalID:     g.ID,
			Title:      g.Title,
			Status:     g.Status,
			Actual:     g.ActualMinutes,
			Estimated:  g.EstimatedMinutes,
			Percentage: g.Progress,
		})
	}

	return &Daily{
		Date:           Date{start},
		TotalRecords:   len(records),
		TotalMinutes:   t.total,
		EfficiencyRate: t.efficiency(),
		Categories:     t.categoryStats(),
		Activities:     t.activityStats(tax),
		Goals:          progress,
		Entries:        entries,
	}
}

// NewWeekly builds the report for the ISO week containing date. The result
// always has seven daily entries. A day whose fetch failed counts as zero.
// Completed goals are those whose status is Completed and whose actual time
// covers the estimate when the report is built.
func NewWeekly(
	date time.Time,
	days []DayRecords,
	goals []*models.Goal,
	tax *taxonomy.Taxonomy,
) *Weekly {
	monday, sunday := timeutil.WeekRange(date)

	w := &Weekly{
		Week:      timeutil.ISOWeekLabel(monday),
		DateRange: [2]Date{{monday}, {timeutil.RoundToStart(sunday)}},
		Days:      make([]DayTotal, timeutil.DaysInAWeek),
	}

	for i := range w.Days {
		w.Days[i].Date = Date{monday.AddDate(0, 0, i)}
	}

	var records []*models.TimeRecord

	for _, d := range days {
		if d.Err != nil {
			if i := dayIndex(monday, d.Date); i >= 0 {
				w.Days[i].Failed = true
			}

			continue
		}

		records = append(records, d.Records...)
	}

	records = sortByStart(within(records, monday, monday.AddDate(0, 0, timeutil.DaysInAWeek)))

	t := newTotals()

	for _, r := range records {
		if i := dayIndex(monday, r.Start); i >= 0 && !w.Days[i].Failed {
			w.Days[i].Minutes += max(r.Duration, 0)
			t.add(r, tax)
		}
	}

	w.TotalMinutes = t.total
	w.EfficiencyRate = t.efficiency()
	w.UnrecordedMinutes = max(timeutil.MinutesInAWeek-t.total, 0)
	w.CoverageRate = percentage(t.total, timeutil.MinutesInAWeek)
	w.Categories = categorySummary(t, tax)
	w.CompletedGoals = completedGoals(goals)
	w.Suggestions = suggestions(w.CoverageRate, t)

	return w
}

// dayIndex returns the offset of t from monday in days, or -1 when t falls
// outside the week.
func dayIndex(monday, t time.Time) int {
	t = t.In(monday.Location())

	for i := range timeutil.DaysInAWeek {
		if timeutil.SameDay(monday.AddDate(0, 0, i), t) {
			return i
		}
	}

	return -1
}

func categorySummary(
	t *totals,
	tax *taxonomy.Taxonomy,
) map[taxonomy.Category]CategorySummary {
	stats := t.categoryStats()
	out := make(map[taxonomy.Category]CategorySummary, len(stats))

	for c, s := range stats {
		out[c] = CategorySummary{
			CategoryStats: s,
			Activities:    make([]ActivityStats, 0),
		}
	}

	for _, a := range t.activityStats(tax) {
		s := out[a.Category]
		s.Activities = append(s.Activities, a)
		out[a.Category] = s
	}

	return out
}

func completedGoals(goals []*models.Goal) []CompletedGoal {
	out := make([]CompletedGoal, 0)

	for _, g := range goals {
		if g == nil || g.Archived {
			continue
		}

		if g.Status != models.StatusCompleted || g.ActualMinutes < g.EstimatedMinutes {
			continue
		}

		out = append(out, CompletedGoal{
			GoalID:    g.ID,
			Title:     g.Title,
			Estimated: g.EstimatedMinutes,
			Actual:    g.ActualMinutes,
		})
	}

	return out
}

func suggestions(coverage float64, t *totals) []string {
	out := make([]string, 0)

	production := t.categories[taxonomy.Production]
	investment := t.categories[taxonomy.Investment]
	expense := t.categories[taxonomy.Expense]

	if coverage < minCoverage {
		out = append(out, SuggestRecordMore)
	}

	if production < investment {
		out = append(out, SuggestMoreProduction)
	}

	if expense > production+investment {
		out = append(out, SuggestLessExpense)
	}

	return out
}
