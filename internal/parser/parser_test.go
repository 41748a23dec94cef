package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
)

var cst = time.FixedZone("CST", 8*3600)

var now = time.Date(2025, 7, 28, 15, 4, 5, 0, cst)

func testTaxonomy() *taxonomy.Taxonomy {
	return taxonomy.New(taxonomy.Lists{
		Production: "沟通,管理,输出,编程",
		Investment: "运动,阅读,学习",
		Expense:    "睡觉,吃饭,通勤",
	})
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	reply   string
	err     error
	block   bool
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}

	return f.reply, f.err
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 7, 28, hour, minute, 0, 0, cst)
}

type ruleTest struct {
	Name        string
	Text        string
	Start       time.Time
	End         time.Time
	Activity    string
	Description string
	Duration    models.Minutes
}

var ruleTestCases = []ruleTest{
	{
		Name:        "hour to hour",
		Text:        "7点到9点阅读",
		Start:       at(7, 0),
		End:         at(9, 0),
		Activity:    "阅读",
		Description: "阅读",
		Duration:    120,
	},
	{
		Name:        "clock times",
		Text:        "14:30-16:00编程",
		Start:       at(14, 30),
		End:         at(16, 0),
		Activity:    "编程",
		Description: "编程",
		Duration:    90,
	},
	{
		Name:        "hour to hour with minutes",
		Text:        "13点到13点40编程",
		Start:       at(13, 0),
		End:         at(13, 40),
		Activity:    "编程",
		Description: "编程",
		Duration:    40,
	},
	{
		Name:        "morning qualifier",
		Text:        "上午9点到11点开会",
		Start:       at(9, 0),
		End:         at(11, 0),
		Activity:    taxonomy.Other,
		Description: "开会",
		Duration:    120,
	},
	{
		Name:        "evening qualifier keeps literal hours",
		Text:        "晚上8点到9点运动",
		Start:       at(8, 0),
		End:         at(9, 0),
		Activity:    "运动",
		Description: "运动",
		Duration:    60,
	},
	{
		Name:        "activity found inside longer text",
		Text:        "  7点到9点 在图书馆阅读小说 ",
		Start:       at(7, 0),
		End:         at(9, 0),
		Activity:    "阅读",
		Description: "在图书馆阅读小说",
		Duration:    120,
	},
}

func TestRuleStrategy(t *testing.T) {
	rs := NewRuleStrategy(testTaxonomy(), cst)

	for _, tc := range ruleTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			iv, err := rs.Parse(context.Background(), tc.Text, now)
			require.NoError(t, err)

			assert.True(t, iv.Start.Equal(tc.Start), "start = %v", iv.Start)
			assert.True(t, iv.End.Equal(tc.End), "end = %v", iv.End)
			assert.Equal(t, tc.Activity, iv.Activity)
			assert.Equal(t, tc.Description, iv.Description)
			assert.Equal(t, tc.Duration, iv.Duration)
			assert.Equal(t, models.MinutesBetween(iv.Start, iv.End), iv.Duration)
			assert.InDelta(t, RuleConfidence, iv.Confidence, 1e-9)
			assert.Equal(t, models.MethodRule, iv.Method)
		})
	}
}

func TestRuleStrategyUsesConfiguredZone(t *testing.T) {
	rs := NewRuleStrategy(testTaxonomy(), cst)

	// 2025-07-27 23:30 UTC is already 2025-07-28 in CST
	iv, err := rs.Parse(context.Background(), "7点到9点阅读", time.Date(2025, 7, 27, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, iv.Start.Equal(at(7, 0)))
	assert.Equal(t, cst, iv.Start.Location())
}

func TestRuleStrategyIsDeterministic(t *testing.T) {
	rs := NewRuleStrategy(testTaxonomy(), cst)

	first, err := rs.Parse(context.Background(), "14:30-16:00编程", now)
	require.NoError(t, err)

	second, err := rs.Parse(context.Background(), "14:30-16:00编程", now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRuleStrategyRejects(t *testing.T) {
	rs := NewRuleStrategy(testTaxonomy(), cst)

	cases := []struct {
		name string
		text string
		want error
	}{
		{"end before start", "9点到7点阅读", ErrInvalidInterval},
		{"empty interval", "9点到9点阅读", ErrInvalidInterval},
		{"hour out of range", "23点到25点阅读", errClockOutOfRange},
		{"minute out of range", "14:30-16:75编程", errClockOutOfRange},
		{"no template", "阅读了两个小时", ErrNoMatch},
		{"no trailing text", "7点到9点", ErrNoMatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iv, err := rs.Parse(context.Background(), tc.text, now)

			assert.Nil(t, iv)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAIStrategy(t *testing.T) {
	fc := &fakeCompleter{
		reply: "```json\n" + `{
  "start_time": "2025-07-28T07:00:00",
  "end_time": "2025-07-28T08:30:00",
  "activity": "运动",
  "description": "晨跑",
  "confidence": 0.95
}` + "\n```",
	}

	as := NewAIStrategy(fc, testTaxonomy(), cst, 0)

	iv, err := as.Parse(context.Background(), "早上七点跑步一个半小时", now)
	require.NoError(t, err)

	assert.True(t, iv.Start.Equal(at(7, 0)))
	assert.True(t, iv.End.Equal(at(8, 30)))
	assert.Equal(t, cst, iv.Start.Location())
	assert.Equal(t, "运动", iv.Activity)
	assert.Equal(t, "晨跑", iv.Description)
	assert.Equal(t, models.Minutes(90), iv.Duration)
	assert.InDelta(t, 0.95, iv.Confidence, 1e-9)
	assert.Equal(t, models.MethodAI, iv.Method)

	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "早上七点跑步一个半小时")
	assert.Contains(t, fc.prompts[0], "2025-07-28 15:04:05")
	assert.Contains(t, fc.prompts[0], "沟通, 管理, 输出, 编程, 运动")
}

func TestAIStrategyNormalisesReply(t *testing.T) {
	fc := &fakeCompleter{
		reply: `{
  "start_time": "2025-07-27T23:00:00Z",
  "end_time": "2025-07-28T01:00:00Z",
  "activity": "读书",
  "description": "阅读小说",
  "confidence": 1.7
}`,
	}

	as := NewAIStrategy(fc, testTaxonomy(), cst, 0)

	iv, err := as.Parse(context.Background(), "读书", now)
	require.NoError(t, err)

	assert.True(t, iv.Start.Equal(at(7, 0)))
	assert.Equal(t, cst, iv.Start.Location())
	assert.Equal(t, "阅读", iv.Activity)
	assert.InDelta(t, 1.0, iv.Confidence, 1e-9)
}

func TestAIStrategyDefaultsDescription(t *testing.T) {
	fc := &fakeCompleter{
		reply: `{"start_time": "2025-07-28 10:00", "end_time": "2025-07-28 10:45", "activity": "外星语", "confidence": 0.5}`,
	}

	as := NewAIStrategy(fc, testTaxonomy(), cst, 0)

	iv, err := as.Parse(context.Background(), "十点开始写了45分钟", now)
	require.NoError(t, err)

	assert.Equal(t, "十点开始写了45分钟", iv.Description)
	assert.Equal(t, taxonomy.Other, iv.Activity)
	assert.Equal(t, models.Minutes(45), iv.Duration)
}

func TestAIStrategyFailures(t *testing.T) {
	cases := []struct {
		name string
		c    Completer
		want error
	}{
		{"no provider", nil, ErrNoProvider},
		{"provider error", &fakeCompleter{err: errors.New("quota exceeded")}, errProviderCall},
		{"not json", &fakeCompleter{reply: "I cannot help with that"}, ErrMalformedResponse},
		{
			"missing confidence",
			&fakeCompleter{reply: `{"start_time": "2025-07-28T07:00:00", "end_time": "2025-07-28T08:00:00", "activity": "运动"}`},
			ErrMalformedResponse,
		},
		{
			"bad timestamp",
			&fakeCompleter{reply: `{"start_time": "seven", "end_time": "2025-07-28T08:00:00", "activity": "运动", "confidence": 0.9}`},
			ErrMalformedResponse,
		},
		{
			"end before start",
			&fakeCompleter{reply: `{"start_time": "2025-07-28T09:00:00", "end_time": "2025-07-28T08:00:00", "activity": "运动", "confidence": 0.9}`},
			ErrInvalidInterval,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			as := NewAIStrategy(tc.c, testTaxonomy(), cst, 0)

			iv, err := as.Parse(context.Background(), "7点到9点阅读", now)

			assert.Nil(t, iv)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestChainPrefersAI(t *testing.T) {
	fc := &fakeCompleter{
		reply: `{"start_time": "2025-07-28T07:00:00", "end_time": "2025-07-28T09:30:00", "activity": "阅读", "description": "阅读", "confidence": 0.9}`,
	}

	tax := testTaxonomy()

	c := NewChain(
		discard(),
		NewAIStrategy(fc, tax, cst, 0),
		NewRuleStrategy(tax, cst),
	)

	iv, err := c.Parse(context.Background(), "7点到9点阅读", now)
	require.NoError(t, err)

	assert.Equal(t, models.MethodAI, iv.Method)
	assert.Equal(t, models.Minutes(150), iv.Duration)
}

func TestChainFallsBackToRules(t *testing.T) {
	tax := testTaxonomy()

	completers := map[string]*fakeCompleter{
		"malformed": {reply: "```\nnot json\n```"},
		"error":     {err: errors.New("connection refused")},
		"timeout":   {block: true},
	}

	for name, fc := range completers {
		t.Run(name, func(t *testing.T) {
			c := NewChain(
				discard(),
				NewAIStrategy(fc, tax, cst, 10*time.Millisecond),
				NewRuleStrategy(tax, cst),
			)

			iv, err := c.Parse(context.Background(), "7点到9点阅读", now)
			require.NoError(t, err)

			assert.Equal(t, models.MethodRule, iv.Method)
			assert.Equal(t, models.Minutes(120), iv.Duration)
			assert.Equal(t, "阅读", iv.Activity)
		})
	}
}

func TestChainFailure(t *testing.T) {
	tax := testTaxonomy()

	c := NewChain(
		discard(),
		NewAIStrategy(nil, tax, cst, 0),
		NewRuleStrategy(tax, cst),
	)

	iv, err := c.Parse(context.Background(), " 随便写点东西 ", now)
	assert.Nil(t, iv)

	var pf *ParseFailure

	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "随便写点东西", pf.Text)
	assert.Len(t, pf.Errs, 2)
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, err.Error(), "随便写点东西")
}

func TestChainWithoutStrategies(t *testing.T) {
	_, err := NewChain(nil, nil).Parse(context.Background(), "7点到9点阅读", now)

	var pf *ParseFailure

	assert.ErrorAs(t, err, &pf)
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		`{"a": 1}`:                     `{"a": 1}`,
		"```json\n{\"a\": 1}\n```":     `{"a": 1}`,
		"```\n{\"a\": 1}\n```":         `{"a": 1}`,
		"  ```json{\"a\": 1}```  ":     `{"a": 1}`,
		"```JSON\n{\"a\": 1}\n```\n\n": `{"a": 1}`,
	}

	for in, want := range cases {
		assert.Equal(t, want, StripCodeFences(in), in)
	}
}
