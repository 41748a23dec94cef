// Package app defines tally's command-line interface.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tally/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the tally app instance.
func Get() *cli.App {
	tallyApp := &cli.App{
		Name: "tally",
		Usage: `
		Tally is a command-line time ledger. Describe how you spent your time
		in plain language ("7点到9点阅读") and tally turns it into records,
		links them to your goals and summarises them in daily and weekly reports.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "log",
				Usage:     "Log a time entry",
				UsageText: "tally log [--goal ID] [--no-ai] TEXT",
				Flags:     []cli.Flag{goalFlag, noAIFlag, verboseFlag},
				Action:    logAction,
			},
			{
				Name:      "import",
				Usage:     "Log every line of a file as a time entry ('-' reads standard input)",
				UsageText: "tally import FILE",
				Flags:     []cli.Flag{noAIFlag},
				Action:    importAction,
			},
			{
				Name:  "goals",
				Usage: "Manage goals",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List goals",
						Flags:  []cli.Flag{activeFlag, jsonFlag},
						Action: listGoalsAction,
					},
					{
						Name:  "add",
						Usage: "Add a goal. Prompts for the details when --title is omitted",
						Flags: []cli.Flag{
							titleFlag,
							deadlineFlag,
							estimateFlag,
							priorityFlag,
						},
						Action: addGoalAction,
					},
					{
						Name:      "edit",
						Usage:     "Edit a goal",
						UsageText: "tally goals edit ID [OPTIONS]",
						Flags: []cli.Flag{
							titleFlag,
							deadlineFlag,
							estimateFlag,
							priorityFlag,
						},
						Action: editGoalAction,
					},
					{
						Name:      "abandon",
						Usage:     "Mark a goal as abandoned",
						UsageText: "tally goals abandon ID",
						Action:    abandonGoalAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a goal. Its records are kept",
						UsageText: "tally goals delete ID",
						Flags:     []cli.Flag{yesFlag},
						Action:    deleteGoalAction,
					},
					{
						Name:   "recompute",
						Usage:  "Recompute the progress of every goal from its records",
						Action: recomputeGoalsAction,
					},
				},
				Action: listGoalsAction,
				Flags:  []cli.Flag{activeFlag, jsonFlag},
			},
			{
				Name:  "records",
				Usage: "Manage time records",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List the records of a day or a period",
						Flags:  []cli.Flag{dateFlag, periodFlag, jsonFlag},
						Action: listRecordsAction,
					},
					{
						Name:      "edit",
						Usage:     "Edit a record",
						UsageText: "tally records edit ID [OPTIONS]",
						Flags: []cli.Flag{
							startFlag,
							endFlag,
							activityFlag,
							descriptionFlag,
							goalFlag,
						},
						Action: editRecordAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a record",
						UsageText: "tally records delete ID",
						Flags:     []cli.Flag{yesFlag},
						Action:    deleteRecordAction,
					},
				},
				Action: listRecordsAction,
				Flags:  []cli.Flag{dateFlag, periodFlag, jsonFlag},
			},
			{
				Name:  "report",
				Usage: "Summarise your time",
				Subcommands: []*cli.Command{
					{
						Name:   "daily",
						Usage:  "Daily report",
						Flags:  []cli.Flag{dateFlag, jsonFlag},
						Action: dailyReportAction,
					},
					{
						Name:   "weekly",
						Usage:  "Weekly report for the ISO week containing --date",
						Flags:  []cli.Flag{dateFlag, jsonFlag},
						Action: weeklyReportAction,
					},
				},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			configFlag,
			timezoneFlag,
			storageFlag,
			dbFlag,
			disableNotificationFlag,
			noAIFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}

	return tallyApp
}
