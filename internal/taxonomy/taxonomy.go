// Package taxonomy maps activity labels to one of three categories:
// production, investment and expense.
package taxonomy

import (
	"strings"
	"sync/atomic"
)

// Category is the classification of an activity.
type Category string

const (
	Production Category = "Production"
	Investment Category = "Investment"
	Expense    Category = "Expense"
)

// Categories lists every category in display order.
var Categories = []Category{Production, Investment, Expense}

// Other is the label given to activities that match no known label.
const Other = "其他"

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case Production:
		return "生产"
	case Investment:
		return "投资"
	default:
		return "支出"
	}
}

// Productive reports whether time in this category counts towards the
// efficiency rate.
func (c Category) Productive() bool {
	return c == Production || c == Investment
}

// Lists holds the raw comma-separated label lists for each category.
type Lists struct {
	Production string `mapstructure:"production"`
	Investment string `mapstructure:"investment"`
	Expense    string `mapstructure:"expense"`
}

// Taxonomy is an immutable label to category mapping. The zero value
// classifies everything as Expense.
type Taxonomy struct {
	mapping map[string]Category
	labels  []string
}

// New builds a taxonomy from comma-separated label lists. Entries are
// trimmed and empty entries ignored. A label that appears in more than one
// list takes the category of the last list.
func New(l Lists) *Taxonomy {
	t := &Taxonomy{
		mapping: make(map[string]Category),
	}

	t.add(l.Production, Production)
	t.add(l.Investment, Investment)
	t.add(l.Expense, Expense)

	return t
}

func (t *Taxonomy) add(list string, c Category) {
	for _, label := range SplitList(list) {
		if _, seen := t.mapping[label]; !seen {
			t.labels = append(t.labels, label)
		}

		t.mapping[label] = c
	}
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Classify returns the category of label. Unknown labels are Expense.
func (t *Taxonomy) Classify(label string) Category {
	if t == nil {
		return Expense
	}

	if c, ok := t.mapping[label]; ok {
		return c
	}

	return Expense
}

// Known reports whether label is part of the taxonomy.
func (t *Taxonomy) Known(label string) bool {
	if t == nil {
		return false
	}

	_, ok := t.mapping[label]

	return ok
}

// Labels returns every known label in configuration order.
func (t *Taxonomy) Labels() []string {
	if t == nil {
		return nil
	}

	out := make([]string, len(t.labels))
	copy(out, t.labels)

	return out
}

// Detect returns the first known label that occurs in text, or Other.
func (t *Taxonomy) Detect(text string) string {
	if t == nil {
		return Other
	}

	for _, label := range t.labels {
		if strings.Contains(text, label) {
			return label
		}
	}

	return Other
}

// Snapshot returns t. It lets a fixed taxonomy be used wherever a Source is
// expected.
func (t *Taxonomy) Snapshot() *Taxonomy {
	return t
}

// Source provides the taxonomy in effect at the time of the call.
type Source interface {
	Snapshot() *Taxonomy
}

// Holder holds a taxonomy that can be replaced while readers are active.
// Readers always see a complete taxonomy, never a partial update.
type Holder struct {
	current atomic.Pointer[Taxonomy]
}

// NewHolder returns a holder initialised with t.
func NewHolder(t *Taxonomy) *Holder {
	h := &Holder{}
	h.current.Store(t)

	return h
}

// Snapshot returns the taxonomy currently in effect.
func (h *Holder) Snapshot() *Taxonomy {
	return h.current.Load()
}

// Swap replaces the taxonomy and returns the previous one.
func (h *Holder) Swap(t *Taxonomy) *Taxonomy {
	return h.current.Swap(t)
}
