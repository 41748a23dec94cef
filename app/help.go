package app

import (
	"fmt"

	"github.com/pterm/pterm"
)

func helpText() string {
	description := fmt.Sprintf(
		"%s\n\t\t{{.Usage}}\n\n",
		pterm.Yellow("DESCRIPTION"),
	)

	usage := fmt.Sprintf(
		"%s\n\t\t{{.HelpName}} {{if .UsageText}}{{ .UsageText }}{{end}}\n\n",
		pterm.Yellow("USAGE"),
	)

	version := fmt.Sprintf(
		"{{if .Version}}%s\n\t\t{{.Version}}{{end}}\n\n",
		pterm.Yellow("VERSION"),
	)

	commands := fmt.Sprintf(
		"%s\n{{range .Commands}}{{if not .HideHelp}}   %s{{ `\t`}}{{.Usage}}{{ `\n` }}{{end}}{{end}}\n\n",
		pterm.Yellow("COMMANDS"),
		pterm.Green("{{join .Names `, `}}"),
	)

	options := fmt.Sprintf(
		"%s\n{{range .VisibleFlags}}\t\t{{if .Aliases}}{{range $element := .Aliases}}%s,{{end}}{{end}} %s\n\t\t\t\t{{.Usage}}\n\n{{end}}",
		pterm.Yellow("OPTIONS"),
		pterm.Green("-{{$element}}"),
		pterm.Green("--{{.Name}} {{.DefaultText}}"),
	)

	env := fmt.Sprintf(
		"%s\n\t\t%s\n\n",
		pterm.Yellow("ENVIRONMENTAL VARIABLES"),
		envHelp(),
	)

	examples := fmt.Sprintf(
		"%s\n\t\t%s\n",
		pterm.Yellow("EXAMPLES"),
		examplesHelp(),
	)

	return description + usage + version + commands + options + env + examples
}

func envHelp() string {
	return `
TALLY_NO_COLOR, NO_COLOR: set to any value to avoid printing ANSI escape sequences for color output.

TALLY_ENV: keep the config, database and logs of a separate environment (e.g. TALLY_ENV=test).

TALLY_LLM_API_KEY, GEMINI_API_KEY: API key used to parse entries with Gemini.

TALLY_<KEY>: override any config key (e.g. TALLY_STORAGE_BACKEND=sqlite).`
}

func examplesHelp() string {
	return `
tally log 7点到9点阅读
tally log --goal <id> 14:30-16:00编程
tally import entries.txt
tally report weekly --date "last monday"`
}
