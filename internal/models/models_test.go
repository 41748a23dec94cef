package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMinutesLenientDecoding(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Minutes
	}{
		{"number", `{"duration": 90}`, 90},
		{"float", `{"duration": 45.9}`, 45},
		{"numeric string", `{"duration": "30"}`, 30},
		{"null", `{"duration": null}`, 0},
		{"missing", `{}`, 0},
		{"garbage string", `{"duration": "abc"}`, 0},
		{"negative", `{"duration": -5}`, 0},
		{"boolean", `{"duration": true}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec TimeRecord

			err := json.Unmarshal([]byte(tc.in), &rec)

			assert.NoError(t, err)
			assert.Equal(t, tc.want, rec.Duration)
		})
	}
}

func TestMinutesBetweenTruncates(t *testing.T) {
	start := time.Date(2025, 7, 28, 7, 0, 0, 0, time.UTC)

	assert.Equal(t, Minutes(120), MinutesBetween(start, start.Add(2*time.Hour)))
	assert.Equal(t, Minutes(1), MinutesBetween(start, start.Add(119*time.Second)))
	assert.Equal(t, Minutes(0), MinutesBetween(start, start.Add(59*time.Second)))
}

func TestGoalActiveOn(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	day := time.Date(2025, 7, 28, 23, 0, 0, 0, loc)

	g := &Goal{Deadline: time.Date(2025, 7, 28, 0, 0, 0, 0, loc), Status: StatusInProgress}
	assert.True(t, g.ActiveOn(day))

	g.Deadline = time.Date(2025, 7, 27, 0, 0, 0, 0, loc)
	assert.False(t, g.ActiveOn(day))

	g.Deadline = time.Date(2025, 8, 1, 0, 0, 0, 0, loc)
	g.Status = StatusCompleted
	assert.False(t, g.ActiveOn(day))

	g.Status = StatusAbandoned
	assert.True(t, g.ActiveOn(day))

	g.Archived = true
	assert.False(t, g.ActiveOn(day))
}
