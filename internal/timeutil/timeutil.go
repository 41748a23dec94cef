// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const minutesInAnHour = 60

const (
	DaysInAWeek     = 7
	MinutesInADay   = 24 * minutesInAnHour
	MinutesInAWeek  = DaysInAWeek * MinutesInADay
	isoWeekLabelFmt = "%d-W%02d"
)

type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
)

var Range = map[Period]int{
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
}

var PeriodCollection = []Period{
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
}

// Round rounds a value to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// RoundTo1 rounds a percentage to one decimal place.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// NextDay returns the start of the day after t.
func NextDay(t time.Time) time.Time {
	return RoundToStart(t).AddDate(0, 0, 1)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// WeekRange returns Monday 00:00 and Sunday 23:59:59 of the ISO week
// containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	// Monday is index 0
	offset := (int(t.Weekday()) + 6) % DaysInAWeek

	monday = RoundToStart(t.AddDate(0, 0, -offset))
	sunday = RoundToEnd(monday.AddDate(0, 0, DaysInAWeek-1))

	return monday, sunday
}

// ISOWeekLabel returns a label like "2025-W31".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()

	return fmt.Sprintf(isoWeekLabelFmt, year, week)
}

// PeriodRange returns the start and end time of the period relative to now.
func PeriodRange(period Period, now time.Time) (start, end time.Time) {
	end = RoundToEnd(now)
	start = RoundToStart(now.AddDate(0, 0, Range[period]))

	if period == PeriodYesterday {
		end = RoundToEnd(start)
	}

	return start, end
}

// FromStr parses a date or date-time expressed in natural language, such as
// "yesterday", "2 days ago" or "2025-07-28", relative to now.
func FromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: now.Location(),
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, err
	}

	return dt.Time.In(now.Location()), nil
}
