package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ayoisaiah/tally/internal/apperr"
	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
)

// RuleConfidence is the confidence assigned to every rule-based parse.
const RuleConfidence = 0.8

var errClockOutOfRange = &apperr.Error{
	Message: "%d:%02d is not a valid time of day",
}

// template is a fixed textual pattern. The indices locate each submatch;
// a negative index means the value is zero.
type template struct {
	re          *regexp.Regexp
	startHour   int
	startMinute int
	endHour     int
	endMinute   int
	rest        int
}

// templates are tried in order and the first match decides the outcome.
var templates = []template{
	// 13点到13点40编程
	{
		re:          regexp.MustCompile(`^(\d{1,2})点到(\d{1,2})点(\d{1,2})(.+)`),
		startHour:   1,
		startMinute: -1,
		endHour:     2,
		endMinute:   3,
		rest:        4,
	},
	// 7点到9点阅读
	{
		re:          regexp.MustCompile(`^(\d{1,2})点到(\d{1,2})点(.+)`),
		startHour:   1,
		startMinute: -1,
		endHour:     2,
		endMinute:   -1,
		rest:        3,
	},
	// 14:30-16:00编程
	{
		re:          regexp.MustCompile(`^(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})(.+)`),
		startHour:   1,
		startMinute: 2,
		endHour:     3,
		endMinute:   4,
		rest:        5,
	},
	// 上午9点到11点开会
	{
		re:          regexp.MustCompile(`^上午(\d{1,2})点到(\d{1,2})点(.+)`),
		startHour:   1,
		startMinute: -1,
		endHour:     2,
		endMinute:   -1,
		rest:        3,
	},
	// 晚上8点到9点运动. Hours are taken as written.
	{
		re:          regexp.MustCompile(`^晚上(\d{1,2})点到(\d{1,2})点(.+)`),
		startHour:   1,
		startMinute: -1,
		endHour:     2,
		endMinute:   -1,
		rest:        3,
	},
}

// RuleStrategy parses a small fixed grammar of Chinese time ranges. It
// needs no network access and is deterministic for a given text and time.
type RuleStrategy struct {
	taxonomy taxonomy.Source
	loc      *time.Location
}

// NewRuleStrategy returns a rule strategy that resolves times in loc and
// detects activities with tax.
func NewRuleStrategy(tax taxonomy.Source, loc *time.Location) *RuleStrategy {
	if loc == nil {
		loc = time.Local
	}

	return &RuleStrategy{
		taxonomy: tax,
		loc:      loc,
	}
}

func (r *RuleStrategy) Method() models.ParseMethod {
	return models.MethodRule
}

// Parse matches text against the templates. Times are placed on the day
// of now in the configured location.
func (r *RuleStrategy) Parse(
	_ context.Context,
	text string,
	now time.Time,
) (*models.TimeInterval, error) {
	text = strings.TrimSpace(text)

	for _, tpl := range templates {
		m := tpl.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		return r.build(tpl, m, now)
	}

	return nil, ErrNoMatch
}

func (r *RuleStrategy) build(
	tpl template,
	m []string,
	now time.Time,
) (*models.TimeInterval, error) {
	today := now.In(r.loc)

	start, err := clock(today, submatchInt(m, tpl.startHour), submatchInt(m, tpl.startMinute))
	if err != nil {
		return nil, err
	}

	end, err := clock(today, submatchInt(m, tpl.endHour), submatchInt(m, tpl.endMinute))
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(m[tpl.rest])

	var tax *taxonomy.Taxonomy
	if r.taxonomy != nil {
		tax = r.taxonomy.Snapshot()
	}

	return newInterval(
		start,
		end,
		tax.Detect(description),
		description,
		RuleConfidence,
		models.MethodRule,
	)
}

// clock places hour:minute on the calendar day of day.
func clock(day time.Time, hour, minute int) (time.Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, errClockOutOfRange.Fmt(hour, minute)
	}

	return time.Date(
		day.Year(),
		day.Month(),
		day.Day(),
		hour,
		minute,
		0,
		0,
		day.Location(),
	), nil
}

func submatchInt(m []string, i int) int {
	if i < 0 || i >= len(m) {
		return 0
	}

	// the templates only capture ASCII digits
	n, _ := strconv.Atoi(m[i])

	return n
}
