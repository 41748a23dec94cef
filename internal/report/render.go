package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
	"github.com/ayoisaiah/tally/internal/timeutil"
	"github.com/ayoisaiah/tally/internal/ui"
)

const (
	barChartChar = "▇"
	noRecordsMsg = "No records found for %s"
)

func humanize(m models.Minutes) string {
	if m <= 0 {
		return "0 minutes"
	}

	//nolint:gomnd // limit to first 2 units
	return durafmt.Parse(time.Duration(m) * time.Minute).
		LimitToUnit("hours").
		LimitFirstN(2).
		String()
}

func header(title string) string {
	return pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintln(title)
}

func categoryLine(c taxonomy.Category, s CategoryStats) string {
	return fmt.Sprintf(
		"%s (%s): %s %s\n",
		c.Label(),
		c,
		ui.Category(c, humanize(s.Minutes)),
		fmt.Sprintf("(%.1f%%)", s.Percentage),
	)
}

func getSummary(records int, total models.Minutes, efficiency float64) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", ui.Blue("Summary")))

	if records >= 0 {
		b.WriteString(fmt.Sprintln("Records:", ui.Green(records)))
	}

	b.WriteString(fmt.Sprintf("Time logged: %s\n", ui.Green(humanize(total))))
	b.WriteString(fmt.Sprintf("Efficiency: %s\n", ui.Green(fmt.Sprintf("%.1f%%", efficiency))))

	return b.String()
}

func getActivities(activities []ActivityStats) string {
	if len(activities) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n%s\n", ui.Blue("Activities")))

	for _, a := range activities {
		b.WriteString(fmt.Sprintf(
			"%s: %s\n",
			a.Activity,
			ui.Green(humanize(a.Minutes)),
		))
	}

	return b.String()
}

// RenderDaily writes a human readable daily report to w.
func RenderDaily(w io.Writer, d *Daily) {
	out := header("Daily report: " + d.Date.String())

	if d.TotalRecords == 0 {
		fmt.Fprintln(w, strings.TrimSpace(out+fmt.Sprintf(noRecordsMsg, d.Date)))
		return
	}

	out += getSummary(d.TotalRecords, d.TotalMinutes, d.EfficiencyRate)

	out += fmt.Sprintf("\n%s\n", ui.Blue("Categories"))
	for _, c := range taxonomy.Categories {
		out += categoryLine(c, d.Categories[c])
	}

	out += getActivities(d.Activities)

	if len(d.Goals) > 0 {
		out += fmt.Sprintf("\n%s\n", ui.Blue("Goals"))

		for _, g := range d.Goals {
			out += fmt.Sprintf(
				"%s: %d/%d minutes (%d%%) %s\n",
				g.Title,
				g.Actual,
				g.Estimated,
				g.Percentage,
				ui.Status(g.Status),
			)
		}
	}

	out += fmt.Sprintf("\n%s\n", ui.Blue("Records"))

	for _, e := range d.Entries {
		out += fmt.Sprintf(
			"%s-%s %s (%d minutes) %s\n",
			e.Start.Format("15:04"),
			e.End.Format("15:04"),
			ui.Green(e.Activity),
			e.Minutes,
			e.Description,
		)
	}

	fmt.Fprintln(w, strings.TrimSpace(out))
}

func getBarChart(days []DayTotal) string {
	bars := make(pterm.Bars, 0, len(days))

	for _, d := range days {
		label := d.Date.Weekday().String()
		if d.Failed {
			label += " (unavailable)"
		}

		bars = append(bars, pterm.Bar{
			Value: int(d.Minutes),
			Label: label,
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return "\n" + ui.Blue("Daily breakdown (minutes)") + "\n" + chart
}

// RenderWeekly writes a human readable weekly report to w.
func RenderWeekly(w io.Writer, wk *Weekly) {
	out := header(fmt.Sprintf(
		"Weekly report: %s (%s - %s)",
		wk.Week,
		wk.DateRange[0],
		wk.DateRange[1],
	))

	out += getSummary(-1, wk.TotalMinutes, wk.EfficiencyRate)
	out += fmt.Sprintf(
		"Coverage: %s of %d minutes (%s unrecorded)\n",
		ui.Green(fmt.Sprintf("%.1f%%", wk.CoverageRate)),
		timeutil.MinutesInAWeek,
		humanize(wk.UnrecordedMinutes),
	)

	out += getBarChart(wk.Days)

	out += fmt.Sprintf("\n%s\n", ui.Blue("Categories"))

	for _, c := range taxonomy.Categories {
		s := wk.Categories[c]

		out += categoryLine(c, s.CategoryStats)

		for _, a := range s.Activities {
			out += fmt.Sprintf("  %s: %d minutes\n", a.Activity, a.Minutes)
		}
	}

	if len(wk.CompletedGoals) > 0 {
		out += fmt.Sprintf("\n%s\n", ui.Blue("Completed goals"))

		for _, g := range wk.CompletedGoals {
			out += fmt.Sprintf("%s: %d/%d minutes\n", g.Title, g.Actual, g.Estimated)
		}
	}

	if len(wk.Suggestions) > 0 {
		out += fmt.Sprintf("\n%s\n", ui.Blue("Suggestions"))

		for _, s := range wk.Suggestions {
			out += "- " + s + "\n"
		}
	}

	fmt.Fprintln(w, strings.TrimSpace(out))
}
