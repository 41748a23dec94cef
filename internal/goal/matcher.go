// Package goal links records to goals and derives goal progress from the
// records linked to them.
package goal

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ayoisaiah/tally/internal/models"
)

// MinScore is the lowest score that is accepted as a match.
const MinScore = 2

// Score returns the lexical overlap between a record description and a goal
// title. Both texts are lowercased and split on whitespace. Every token
// longer than one character that occurs in the other text adds its length
// in characters. Both directions are counted.
func Score(description, title string) int {
	d := strings.ToLower(description)
	t := strings.ToLower(title)

	return overlap(strings.Fields(d), t) + overlap(strings.Fields(t), d)
}

func overlap(tokens []string, text string) int {
	var score int

	for _, tok := range tokens {
		n := utf8.RuneCountInString(tok)
		if n > 1 && strings.Contains(text, tok) {
			score += n
		}
	}

	return score
}

// Match returns the goal whose title best matches description, or nil when
// no goal scores at least MinScore. When several goals share the top score
// the first one wins.
func Match(description string, goals []*models.Goal) (*models.Goal, int) {
	var (
		best      *models.Goal
		bestScore int
	)

	for _, g := range goals {
		if g == nil {
			continue
		}

		s := Score(description, g.Title)
		if s > bestScore {
			best, bestScore = g, s
		}
	}

	if bestScore < MinScore {
		return nil, bestScore
	}

	return best, bestScore
}

// Active returns the goals that are still open on day, preserving order.
func Active(goals []*models.Goal, day time.Time) []*models.Goal {
	out := make([]*models.Goal, 0, len(goals))

	for _, g := range goals {
		if g != nil && g.ActiveOn(day) {
			out = append(out, g)
		}
	}

	return out
}
