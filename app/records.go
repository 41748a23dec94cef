package app

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tally/internal/config"
	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/taxonomy"
	"github.com/ayoisaiah/tally/internal/timeutil"
	"github.com/ayoisaiah/tally/internal/tracker"
	"github.com/ayoisaiah/tally/internal/ui"
)

const (
	noRecordsMsg = "No records found for %s"
)

// printRecordsTable prints a record table to the command-line.
func printRecordsTable(
	w io.Writer,
	records []*models.TimeRecord,
	tax *taxonomy.Taxonomy,
) error {
	tableBody := make([][]string, len(records))

	for i, r := range records {
		c := tax.Classify(r.Activity)

		tableBody[i] = []string{
			r.ID,
			r.Start.Format("Jan 02 15:04"),
			r.End.Format("Jan 02 15:04"),
			humanizeMinutes(r.Duration),
			ui.Category(c, r.Activity),
			r.Description,
			r.GoalID,
			string(r.Method),
		}
	}

	tableBody = append([][]string{
		{"ID", "START", "END", "DURATION", "ACTIVITY", "DESCRIPTION", "GOAL", "PARSED BY"},
	}, tableBody...)

	return ui.PrintTable(w, tableBody)
}

// fetchRecords returns the records of the period given by --period, or of
// the day given by --date, with a label naming the range.
func fetchRecords(ctx *cli.Context, e *env) ([]*models.TimeRecord, string, error) {
	now := e.tracker.Now()

	if p := strings.TrimSpace(ctx.String("period")); p != "" {
		period := timeutil.Period(p)
		if !slices.Contains(timeutil.PeriodCollection, period) {
			return nil, "", errInvalidPeriod.Fmt(p)
		}

		start, end := timeutil.PeriodRange(period, now)

		records, err := e.tracker.RecordsBetween(ctx.Context, start, timeutil.NextDay(end))

		return records, p, err
	}

	date, err := dateArg(ctx, now)
	if err != nil {
		return nil, "", err
	}

	records, err := e.tracker.Records(ctx.Context, date)

	return records, date.Format(models.DateLayout), err
}

// totalLine sums the durations of records as "Total: 3h 30m".
func totalLine(records []*models.TimeRecord) string {
	var total models.Minutes
	for _, r := range records {
		total += r.Duration
	}

	hrs, mins := timeutil.MinsToHoursAndMins(int(total))

	return fmt.Sprintf("Total: %dh %dm", hrs, mins)
}

// listRecordsAction prints the records of the day given by --date, or of
// the period given by --period.
func listRecordsAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	records, label, err := fetchRecords(ctx, e)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(records)
	}

	if len(records) == 0 {
		pterm.Info.Printfln(noRecordsMsg, label)
		return nil
	}

	err = printRecordsTable(config.Stdout, records, e.tracker.Taxonomy())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(config.Stdout, totalLine(records))

	return err
}

func parseTimeFlag(ctx *cli.Context, name string, now time.Time) (*time.Time, error) {
	if !ctx.IsSet(name) {
		return nil, nil
	}

	s := ctx.String(name)

	t, err := timeutil.FromStr(s, now)
	if err != nil {
		return nil, errInvalidDate.Fmt(s).Wrap(err)
	}

	return &t, nil
}

func stringFlag(ctx *cli.Context, name string) *string {
	if !ctx.IsSet(name) {
		return nil
	}

	s := ctx.String(name)

	return &s
}

// editRecordAction changes the fields of a record given as flags. Passing
// an empty --goal unlinks the record.
func editRecordAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "record")
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	now := e.tracker.Now()

	u := tracker.RecordUpdate{
		Activity:    stringFlag(ctx, "activity"),
		Description: stringFlag(ctx, "description"),
		GoalID:      stringFlag(ctx, "goal"),
	}

	if u.Start, err = parseTimeFlag(ctx, "start", now); err != nil {
		return err
	}

	if u.End, err = parseTimeFlag(ctx, "end", now); err != nil {
		return err
	}

	if u == (tracker.RecordUpdate{}) {
		return errNothingToEdit
	}

	r, err := e.tracker.UpdateRecord(ctx.Context, id, u)
	if err != nil {
		return err
	}

	return printRecordsTable(
		config.Stdout,
		[]*models.TimeRecord{r},
		e.tracker.Taxonomy(),
	)
}

// deleteRecordAction deletes a record after confirmation.
func deleteRecordAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "record")
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	r, err := e.tracker.Record(ctx.Context, id)
	if err != nil {
		return err
	}

	err = printRecordsTable(
		config.Stdout,
		[]*models.TimeRecord{r},
		e.tracker.Taxonomy(),
	)
	if err != nil {
		return err
	}

	confirm(ctx, "The above record will be deleted.")

	if err := e.tracker.ArchiveRecord(ctx.Context, id); err != nil {
		return err
	}

	fmt.Fprintln(config.Stdout, pterm.Success.Sprint("Record deleted"))

	return nil
}
