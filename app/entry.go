package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/hako/durafmt"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tally/internal/config"
	"github.com/ayoisaiah/tally/internal/models"
	"github.com/ayoisaiah/tally/internal/parser"
	"github.com/ayoisaiah/tally/internal/taxonomy"
	"github.com/ayoisaiah/tally/internal/timeutil"
	"github.com/ayoisaiah/tally/internal/tracker"
	"github.com/ayoisaiah/tally/internal/ui"
)

const entryPrompt = "> "

// quitWords end an interactive session.
var quitWords = []string{"quit", "exit", "q", "退出"}

func isQuit(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, w := range quitWords {
		if s == w {
			return true
		}
	}

	return false
}

// readEntries returns the non-blank lines of r. Lines starting with '#' are
// comments.
func readEntries(r io.Reader) ([]string, error) {
	var entries []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entries = append(entries, line)
	}

	return entries, scanner.Err()
}

func humanizeMinutes(m models.Minutes) string {
	return durafmt.Parse(time.Duration(m) * time.Minute).LimitFirstN(2).String()
}

// printLogResult describes a logged entry.
func printLogResult(w io.Writer, res *tracker.LogResult, tax *taxonomy.Taxonomy) {
	r := res.Record
	c := tax.Classify(r.Activity)

	fmt.Fprintln(w, pterm.Success.Sprintf(
		"Logged %s %s - %s (%s)",
		ui.Category(c, r.Activity),
		r.Start.Format("01/02 15:04"),
		r.End.Format("15:04"),
		humanizeMinutes(r.Duration),
	))

	fmt.Fprintf(w, "  Category:    %s (%s)\n", c, c.Label())

	if r.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", r.Description)
	}

	fmt.Fprintf(
		w,
		"  Parsed by:   %s (confidence %d%%)\n",
		r.Method,
		timeutil.Round(r.Confidence*100),
	)

	g := res.Goal
	if g == nil {
		return
	}

	fmt.Fprintf(
		w,
		"  Goal:        %s %d/%d minutes (%d%%), due %s\n",
		ui.Highlight(g.Title),
		g.ActualMinutes,
		g.EstimatedMinutes,
		g.Progress,
		g.Deadline.Format("01/02"),
	)

	if res.Completed {
		fmt.Fprintln(w, pterm.Success.Sprintf("Goal '%s' completed", g.Title))
	}
}

// logEntry logs a single entry and prints the outcome.
func logEntry(
	ctx context.Context,
	w io.Writer,
	e *env,
	text string,
	opts tracker.LogOptions,
	verbose bool,
) error {
	res, err := e.tracker.Log(ctx, text, opts)
	if err != nil {
		return err
	}

	printLogResult(w, res, e.tracker.Taxonomy())

	if verbose {
		spew.Fdump(w, res.Record)
	}

	return nil
}

// logAction handles the log command which records a single entry given as
// arguments.
func logAction(ctx *cli.Context) error {
	text := strings.TrimSpace(strings.Join(ctx.Args().Slice(), " "))
	if text == "" {
		return errEmptyEntry
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	return logEntry(
		ctx.Context,
		config.Stdout,
		e,
		text,
		tracker.LogOptions{GoalID: ctx.String("goal")},
		ctx.Bool("verbose"),
	)
}

// importAction handles the import command which logs every line of a file.
// An entry that cannot be understood is reported and skipped.
func importAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		path = "-"
	}

	var r io.Reader = config.Stdin

	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errReadEntries.Fmt(path).Wrap(err)
		}

		defer f.Close()

		r = f
	}

	entries, err := readEntries(r)
	if err != nil {
		return errReadEntries.Fmt(path).Wrap(err)
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	var logged int

	for i, text := range entries {
		fmt.Fprintf(config.Stdout, "[%d/%d] %s\n", i+1, len(entries), text)

		err := logEntry(ctx.Context, config.Stdout, e, text, tracker.LogOptions{}, false)
		if err != nil {
			var pf *parser.ParseFailure
			if !errors.As(err, &pf) {
				return err
			}

			fmt.Fprintln(config.Stdout, pterm.Warning.Sprint(pf.Error()))

			continue
		}

		logged++
	}

	fmt.Fprintf(
		config.Stdout,
		"\nImported %d of %d entries\n",
		logged,
		len(entries),
	)

	return nil
}

// watchTaxonomy swaps in the activity lists whenever the config file
// changes.
func (e *env) watchTaxonomy() {
	err := config.Watch(e.cfg.System.ConfigPath, func(c *config.Config, err error) {
		if err != nil {
			e.logger.Warn("config reload failed", slog.Any("error", err))
			return
		}

		e.taxonomy.Swap(taxonomy.New(c.Taxonomy))

		e.logger.Info("activity lists reloaded")
	})
	if err != nil {
		e.logger.Warn("config watch failed", slog.Any("error", err))
	}
}

// interactive reads entries from r until it is exhausted or a quit word is
// entered. Failed entries are reported without ending the session.
func interactive(ctx context.Context, e *env, r io.Reader, w io.Writer) error {
	fmt.Fprintln(w, ui.Highlight("tally interactive mode"))
	fmt.Fprintln(w, "Describe how you spent your time, or type 'quit' to exit")
	fmt.Fprintln(w, "Examples: 7点到9点阅读, 14:30-16:00编程")

	scanner := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, "\n"+entryPrompt)

		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			continue
		}

		if isQuit(text) {
			break
		}

		err := logEntry(ctx, w, e, text, tracker.LogOptions{}, false)
		if err != nil {
			var pf *parser.ParseFailure
			if errors.As(err, &pf) {
				fmt.Fprintln(w, pterm.Warning.Sprint(pf.Error()))
			} else {
				fmt.Fprintln(w, pterm.Error.Sprint(err))
			}
		}
	}

	fmt.Fprintln(w, "Bye!")

	return scanner.Err()
}

// defaultAction starts an interactive session. The activity lists follow
// edits to the config file while the session is open.
func defaultAction(ctx *cli.Context) error {
	if ctx.Args().Present() {
		return cli.ShowAppHelp(ctx)
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	e.watchTaxonomy()

	return interactive(ctx.Context, e, config.Stdin, config.Stdout)
}
