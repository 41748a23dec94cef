package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ayoisaiah/tally/internal/apperr"
	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
)

const promptTimeLayout = "2006-01-02 15:04:05"

var errMissingField = &apperr.Error{
	Message: "missing required field '%s'",
}

var errProviderCall = &apperr.Error{
	Message: "AI provider request failed",
}

var errBadTimestamp = &apperr.Error{
	Message: "unrecognised timestamp '%s'",
}

// timestampLayouts are the accepted forms of start_time and end_time.
// Layouts without an offset are interpreted in the configured location.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02 15:04:05Z07:00", false},
}

// Completer sends a prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIStrategy asks a language model to extract the interval. Every failure
// mode, including a timeout, is reported as an error so that the chain can
// fall through to the next strategy.
type AIStrategy struct {
	completer Completer
	taxonomy  taxonomy.Source
	loc       *time.Location
	timeout   time.Duration
}

// NewAIStrategy returns an AI strategy. A zero timeout means the call is
// bounded only by the caller's context.
func NewAIStrategy(
	c Completer,
	tax taxonomy.Source,
	loc *time.Location,
	timeout time.Duration,
) *AIStrategy {
	if loc == nil {
		loc = time.Local
	}

	return &AIStrategy{
		completer: c,
		taxonomy:  tax,
		loc:       loc,
		timeout:   timeout,
	}
}

func (a *AIStrategy) Method() models.ParseMethod {
	return models.MethodAI
}

// Parse sends the prompt for text and decodes the reply.
func (a *AIStrategy) Parse(
	ctx context.Context,
	text string,
	now time.Time,
) (*models.TimeInterval, error) {
	if a.completer == nil {
		return nil, ErrNoProvider
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	tax := a.snapshot()

	reply, err := a.completer.Complete(ctx, BuildPrompt(text, now.In(a.loc), tax.Labels()))
	if err != nil {
		return nil, errProviderCall.Wrap(err)
	}

	return a.decode(reply, text, tax)
}

func (a *AIStrategy) snapshot() *taxonomy.Taxonomy {
	if a.taxonomy == nil {
		return nil
	}

	return a.taxonomy.Snapshot()
}

type aiReply struct {
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	Activity    *string  `json:"activity"`
	Description *string  `json:"description"`
	Confidence  *float64 `json:"confidence"`
}

func (a *AIStrategy) decode(
	reply, text string,
	tax *taxonomy.Taxonomy,
) (*models.TimeInterval, error) {
	var r aiReply

	err := json.Unmarshal([]byte(StripCodeFences(reply)), &r)
	if err != nil {
		return nil, ErrMalformedResponse.Wrap(err)
	}

	switch {
	case r.StartTime == nil:
		return nil, ErrMalformedResponse.Wrap(errMissingField.Fmt("start_time"))
	case r.EndTime == nil:
		return nil, ErrMalformedResponse.Wrap(errMissingField.Fmt("end_time"))
	case r.Activity == nil:
		return nil, ErrMalformedResponse.Wrap(errMissingField.Fmt("activity"))
	case r.Confidence == nil:
		return nil, ErrMalformedResponse.Wrap(errMissingField.Fmt("confidence"))
	}

	start, err := a.parseTimestamp(*r.StartTime)
	if err != nil {
		return nil, ErrMalformedResponse.Wrap(err)
	}

	end, err := a.parseTimestamp(*r.EndTime)
	if err != nil {
		return nil, ErrMalformedResponse.Wrap(err)
	}

	description := text
	if r.Description != nil && strings.TrimSpace(*r.Description) != "" {
		description = strings.TrimSpace(*r.Description)
	}

	activity := strings.TrimSpace(*r.Activity)
	if !tax.Known(activity) {
		activity = tax.Detect(activity + description)
	}

	return newInterval(
		start,
		end,
		activity,
		description,
		clamp(*r.Confidence),
		models.MethodAI,
	)
}

func (a *AIStrategy) parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, l := range timestampLayouts {
		if l.naive {
			t, err := time.ParseInLocation(l.layout, s, a.loc)
			if err == nil {
				return t, nil
			}

			continue
		}

		t, err := time.Parse(l.layout, s)
		if err == nil {
			return t.In(a.loc), nil
		}
	}

	return time.Time{}, errBadTimestamp.Fmt(s)
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

// BuildPrompt returns the prompt sent to the language model for text.
func BuildPrompt(text string, now time.Time, labels []string) string {
	var b strings.Builder

	b.WriteString("请解析以下时间记录文本，返回JSON格式的结构化数据：\n\n")
	fmt.Fprintf(&b, "输入文本: %q\n\n", text)
	fmt.Fprintf(&b, "当前时间: %s\n\n", now.Format(promptTimeLayout))
	b.WriteString(`请返回以下JSON格式:
{
    "start_time": "YYYY-MM-DDTHH:MM:SS",
    "end_time": "YYYY-MM-DDTHH:MM:SS",
    "activity": "活动名称",
    "description": "详细描述",
    "confidence": 0.95
}

`)
	fmt.Fprintf(&b, "可识别的活动类型: %s\n\n", strings.Join(labels, ", "))
	b.WriteString(`解析规则:
1. 识别时间范围（开始和结束时间）
2. 提取活动类型（必须从可识别列表中选择最相近的）
3. 生成描述文本
4. 评估解析置信度(0-1)
5. 如果是相对时间("2小时前"等)，基于当前时间计算绝对时间
6. 时间格式必须是ISO格式

只返回JSON，不要其他文字。
`)

	return b.String()
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, from a model reply.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	body := strings.TrimPrefix(trimmed, "```")

	if nl := strings.Index(body, "\n"); nl != -1 {
		// drop the language tag on the opening line
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "json")
	}

	body = strings.TrimSuffix(strings.TrimSpace(body), "```")

	return strings.TrimSpace(body)
}
