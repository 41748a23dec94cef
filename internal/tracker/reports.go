package tracker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayoisaiah/tally/internal/report"
	"github.com/ayoisaiah/tally/internal/timeutil"
)

// Daily builds the report for the day containing date.
func (t *Tracker) Daily(ctx context.Context, date time.Time) (*report.Daily, error) {
	day := timeutil.RoundToStart(date.In(t.loc))

	records, err := t.db.RecordsBetween(ctx, day, timeutil.NextDay(day))
	if err != nil {
		return nil, err
	}

	goals, err := t.db.Goals(ctx)
	if err != nil {
		return nil, err
	}

	return report.NewDaily(day, records, goals, t.taxonomy.Snapshot()), nil
}

// Weekly builds the report for the ISO week containing date. The seven days
// are fetched concurrently. A day that cannot be fetched is logged and
// reported as empty without affecting the other days.
func (t *Tracker) Weekly(ctx context.Context, date time.Time) (*report.Weekly, error) {
	monday, _ := timeutil.WeekRange(date.In(t.loc))

	days := make([]report.DayRecords, timeutil.DaysInAWeek)

	var g errgroup.Group

	for i := range days {
		g.Go(func() error {
			day := monday.AddDate(0, 0, i)

			records, err := t.db.RecordsBetween(ctx, day, timeutil.NextDay(day))
			if err != nil {
				t.logger.WarnContext(
					ctx,
					"unable to load records for day",
					slog.String("date", day.Format(time.DateOnly)),
					slog.Any("error", err),
				)
			}

			days[i] = report.DayRecords{
				Date:    day,
				Err:     err,
				Records: records,
			}

			// a failed day must not cancel the others
			return nil
		})
	}

	_ = g.Wait()

	goals, err := t.db.Goals(ctx)
	if err != nil {
		return nil, err
	}

	return report.NewWeekly(monday, days, goals, t.taxonomy.Snapshot()), nil
}
