package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tally/internal/config"
	"github.com/ayoisaiah/tally/internal/report"
	"github.com/ayoisaiah/tally/internal/timeutil"
)

const (
	envNoColor      = "NO_COLOR"
	envTallyNoColor = "TALLY_NO_COLOR"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// printJSON writes v to the standard output as indented JSON.
func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(config.Stdout, string(b))

	return err
}

// dateArg resolves the --date flag relative to now. Today is used when the
// flag is not set.
func dateArg(ctx *cli.Context, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(ctx.String("date"))
	if s == "" {
		return now, nil
	}

	t, err := timeutil.FromStr(s, now)
	if err != nil {
		return time.Time{}, errInvalidDate.Fmt(s).Wrap(err)
	}

	return t, nil
}

// idArg returns the first positional argument, which names the goal or
// record a command acts on.
func idArg(ctx *cli.Context, kind string) (string, error) {
	id := strings.TrimSpace(ctx.Args().First())
	if id == "" {
		return "", errMissingID.Fmt(kind)
	}

	return id, nil
}

// editConfigAction handles the edit-config command which opens the tally
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	// Editors are often configured with arguments, e.g. "code --wait".
	args, err := shellquote.Split(editor)
	if err != nil || len(args) == 0 {
		args = []string{editor}
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	args = append(args, cfg.System.ConfigPath)

	//nolint:gosec // the editor is chosen by the user
	cmd := exec.Command(args[0], args[1:]...)

	cmd.Stderr = config.Stderr
	cmd.Stdin = config.Stdin
	cmd.Stdout = config.Stdout

	return cmd.Run()
}

// dailyReportAction prints the report for the day given by --date.
func dailyReportAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	date, err := dateArg(ctx, e.tracker.Now())
	if err != nil {
		return err
	}

	d, err := e.tracker.Daily(ctx.Context, date)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(d)
	}

	report.RenderDaily(config.Stdout, d)

	return nil
}

// weeklyReportAction prints the report for the ISO week containing the day
// given by --date.
func weeklyReportAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	date, err := dateArg(ctx, e.tracker.Now())
	if err != nil {
		return err
	}

	w, err := e.tracker.Weekly(ctx.Context, date)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(w)
	}

	report.RenderWeekly(config.Stdout, w)

	return nil
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/tally/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if TALLY_NO_COLOR is set
	if _, exists := os.LookupEnv(envTallyNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting tally")

	return nil
}
