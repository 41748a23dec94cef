// Package models defines the data shared by the parser, the goal tracker,
// the report aggregator and the store.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// DateLayout is the layout used for calendar dates such as goal deadlines.
const DateLayout = "2006-01-02"

// ParseMethod identifies the strategy that produced an interval.
type ParseMethod string

const (
	MethodAI   ParseMethod = "AI"
	MethodRule ParseMethod = "Rule"
)

// Priority is the priority of a goal.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}

	return false
}

// Status is the lifecycle state of a goal.
type Status string

const (
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusAbandoned  Status = "Abandoned"
)

// Minutes is a whole number of minutes. It decodes leniently: JSON numbers,
// numeric strings, null and anything unparsable (which becomes zero) are all
// accepted so that one bad value never aborts a sum.
type Minutes int

func (m *Minutes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*m = 0
			return nil
		}

		b = []byte(s)
	}

	f, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil || f < 0 {
		*m = 0
		return nil
	}

	*m = Minutes(f)

	return nil
}

// TimeInterval is the result of parsing a free-form description. It only
// lives between parsing and persistence.
type TimeInterval struct {
	Start       time.Time   `json:"start_time"`
	End         time.Time   `json:"end_time"`
	Activity    string      `json:"activity"`
	Description string      `json:"description"`
	Method      ParseMethod `json:"parsing_method"`
	Duration    Minutes     `json:"duration"`
	Confidence  float64     `json:"confidence"`
}

// MinutesBetween returns end - start truncated to whole minutes.
func MinutesBetween(start, end time.Time) Minutes {
	return Minutes(end.Sub(start) / time.Minute)
}

// TimeRecord is a persisted interval. GoalID is a weak reference: the goal
// may be archived or missing when the record is read.
type TimeRecord struct {
	CreatedAt   time.Time   `json:"created_at"`
	Start       time.Time   `json:"start_time"`
	End         time.Time   `json:"end_time"`
	ID          string      `json:"id"`
	Activity    string      `json:"activity"`
	Description string      `json:"description"`
	GoalID      string      `json:"goal_id,omitempty"`
	Method      ParseMethod `json:"parsing_method"`
	Duration    Minutes     `json:"duration"`
	Confidence  float64     `json:"confidence"`
	Archived    bool        `json:"archived"`
}

// NewRecord creates an unsaved record from a parsed interval.
func NewRecord(iv *TimeInterval, goalID string) *TimeRecord {
	return &TimeRecord{
		Start:       iv.Start,
		End:         iv.End,
		Activity:    iv.Activity,
		Description: iv.Description,
		Method:      iv.Method,
		Duration:    iv.Duration,
		Confidence:  iv.Confidence,
		GoalID:      goalID,
	}
}

// Goal is a user-defined target with a deadline and a time budget.
// ActualMinutes and Progress are derived from the goal's records and are
// only written by the progress tracker.
type Goal struct {
	Deadline         time.Time `json:"deadline"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Priority         Priority  `json:"priority"`
	Status           Status    `json:"status"`
	EstimatedMinutes Minutes   `json:"estimated_time"`
	ActualMinutes    Minutes   `json:"actual_time"`
	Progress         int       `json:"progress"`
	Archived         bool      `json:"archived"`
}

// ActiveOn reports whether the goal is still open on the given day: its
// deadline has not passed and it is not completed.
func (g *Goal) ActiveOn(day time.Time) bool {
	if g.Archived || g.Status == StatusCompleted {
		return false
	}

	dl := time.Date(g.Deadline.Year(), g.Deadline.Month(), g.Deadline.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	return !dl.Before(d)
}
