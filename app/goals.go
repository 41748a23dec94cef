package app

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tally/internal/config"
	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/timeutil"
	"github.com/ayoisaiah/tally/internal/tracker"
	"github.com/ayoisaiah/tally/internal/ui"
)

const (
	noGoalsMsg = "No goals found. Add one with 'tally goals add'"
)

// parseEstimate reads an estimate given in whole minutes ("90") or as a
// duration ("1h30m").
func parseEstimate(s string) (models.Minutes, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		return models.Minutes(n), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errInvalidEstimate.Fmt(s)
	}

	return models.Minutes(d / time.Minute), nil
}

// parsePriority accepts priorities in any letter case.
func parsePriority(s string) models.Priority {
	s = strings.TrimSpace(s)

	for _, p := range []models.Priority{
		models.PriorityHigh,
		models.PriorityMedium,
		models.PriorityLow,
	} {
		if strings.EqualFold(s, string(p)) {
			return p
		}
	}

	return models.Priority(s)
}

func parseDeadline(s string, now time.Time) (time.Time, error) {
	t, err := timeutil.FromStr(s, now)
	if err != nil {
		return time.Time{}, errInvalidDate.Fmt(s).Wrap(err)
	}

	return t, nil
}

// sortGoals orders goals by deadline, then naturally by title.
func sortGoals(goals []*models.Goal) {
	slices.SortStableFunc(goals, func(a, b *models.Goal) int {
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}

		if natural.Less(a.Title, b.Title) {
			return -1
		}

		if natural.Less(b.Title, a.Title) {
			return 1
		}

		return 0
	})
}

// printGoalsTable prints a goal table to the command-line.
func printGoalsTable(w io.Writer, goals []*models.Goal) error {
	tableBody := make([][]string, len(goals))

	for i, g := range goals {
		tableBody[i] = []string{
			g.ID,
			g.Title,
			g.Deadline.Format(models.DateLayout),
			string(g.Priority),
			ui.Status(g.Status),
			fmt.Sprintf(
				"%d/%d min (%d%%)",
				g.ActualMinutes,
				g.EstimatedMinutes,
				g.Progress,
			),
		}
	}

	tableBody = append([][]string{
		{"ID", "TITLE", "DEADLINE", "PRIORITY", "STATUS", "PROGRESS"},
	}, tableBody...)

	return ui.PrintTable(w, tableBody)
}

// confirm asks the user to press ENTER before a destructive operation.
func confirm(ctx *cli.Context, msg string) {
	if ctx.Bool("yes") {
		return
	}

	fmt.Fprint(config.Stdout, pterm.Warning.Sprint(msg+" Press ENTER to proceed"))

	reader := bufio.NewReader(config.Stdin)

	_, _ = reader.ReadString('\n')
}

// listGoalsAction prints every goal, or only the open ones with --active.
func listGoalsAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	var goals []*models.Goal

	if ctx.Bool("active") {
		goals, err = e.tracker.ActiveGoals(ctx.Context)
	} else {
		goals, err = e.tracker.Goals(ctx.Context)
	}

	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(goals)
	}

	if len(goals) == 0 {
		pterm.Info.Println(noGoalsMsg)
		return nil
	}

	sortGoals(goals)

	return printGoalsTable(config.Stdout, goals)
}

// goalForm collects the details of a new goal interactively.
func goalForm() (title, deadline, estimate, priority string, err error) {
	priority = string(models.PriorityMedium)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&title),
			huh.NewInput().
				Title("Deadline").
				Description("e.g. 2025-08-31 or 'next friday'").
				Value(&deadline),
			huh.NewInput().
				Title("Estimated time").
				Description("Minutes (90) or a duration (10h)").
				Validate(func(s string) error {
					_, err := parseEstimate(s)
					return err
				}).
				Value(&estimate),
			huh.NewSelect[string]().
				Title("Priority").
				Options(huh.NewOptions(
					string(models.PriorityHigh),
					string(models.PriorityMedium),
					string(models.PriorityLow),
				)...).
				Value(&priority),
		),
	)

	err = form.Run()

	return title, deadline, estimate, priority, err
}

// addGoalAction creates a goal from flags, or from a form when --title is
// not given.
func addGoalAction(ctx *cli.Context) error {
	title := ctx.String("title")
	deadline := ctx.String("deadline")
	estimate := ctx.String("estimate")
	priority := ctx.String("priority")

	if title == "" {
		var err error

		title, deadline, estimate, priority, err = goalForm()
		if err != nil {
			return err
		}
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	in := tracker.GoalInput{
		Title:    title,
		Priority: parsePriority(priority),
		Deadline: e.tracker.Now(),
	}

	if deadline != "" {
		in.Deadline, err = parseDeadline(deadline, e.tracker.Now())
		if err != nil {
			return err
		}
	}

	if estimate != "" {
		in.Estimated, err = parseEstimate(estimate)
		if err != nil {
			return err
		}
	}

	g, err := e.tracker.CreateGoal(ctx.Context, in)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Goal '%s' added with ID %s", g.Title, g.ID)

	return nil
}

// editGoalAction changes the fields of a goal given as flags.
func editGoalAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "goal")
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	var u tracker.GoalUpdate

	if ctx.IsSet("title") {
		title := ctx.String("title")
		u.Title = &title
	}

	if ctx.IsSet("deadline") {
		d, err := parseDeadline(ctx.String("deadline"), e.tracker.Now())
		if err != nil {
			return err
		}

		u.Deadline = &d
	}

	if ctx.IsSet("estimate") {
		est, err := parseEstimate(ctx.String("estimate"))
		if err != nil {
			return err
		}

		u.Estimated = &est
	}

	if ctx.IsSet("priority") {
		p := parsePriority(ctx.String("priority"))
		u.Priority = &p
	}

	if u == (tracker.GoalUpdate{}) {
		return errNothingToEdit
	}

	g, err := e.tracker.UpdateGoal(ctx.Context, id, u)
	if err != nil {
		return err
	}

	return printGoalsTable(config.Stdout, []*models.Goal{g})
}

// abandonGoalAction marks a goal as abandoned.
func abandonGoalAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "goal")
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	g, err := e.tracker.AbandonGoal(ctx.Context, id)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Goal '%s' abandoned", g.Title)

	return nil
}

// deleteGoalAction deletes a goal after confirmation. Its records are kept.
func deleteGoalAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "goal")
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	g, err := e.tracker.Goal(ctx.Context, id)
	if err != nil {
		return err
	}

	if err := printGoalsTable(config.Stdout, []*models.Goal{g}); err != nil {
		return err
	}

	confirm(ctx, "The above goal will be deleted.")

	return e.tracker.ArchiveGoal(ctx.Context, id)
}

// recomputeGoalsAction rebuilds the progress of every goal from its records.
func recomputeGoalsAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	goals, err := e.tracker.RecomputeGoals(ctx.Context)
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		pterm.Info.Println(noGoalsMsg)
		return nil
	}

	sortGoals(goals)

	return printGoalsTable(config.Stdout, goals)
}
