package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Use a config file other than the default one",
	}

	timezoneFlag = &cli.StringFlag{
		Name:    "timezone",
		Aliases: []string{"tz"},
		Usage:   "Interpret entries in this IANA timezone (e.g. Asia/Shanghai)",
	}

	storageFlag = &cli.StringFlag{
		Name:  "storage",
		Usage: "Storage backend: bolt or sqlite",
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the database file",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears when a goal is completed",
	}

	noAIFlag = &cli.BoolFlag{
		Name:  "no-ai",
		Usage: "Parse entries with the built-in rules only",
	}

	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Print the full record after logging an entry",
	}

	goalFlag = &cli.StringFlag{
		Name:    "goal",
		Aliases: []string{"g"},
		Usage:   "Link the entry to this goal instead of matching one",
	}

	dateFlag = &cli.StringFlag{
		Name:  "date",
		Usage: "Day to report on (e.g. 2025-07-28, yesterday, '3 days ago'). Defaults to today",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "List the records of a period: today, yesterday, 7days, 14days or 30days. Overrides --date",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}

	titleFlag = &cli.StringFlag{
		Name:  "title",
		Usage: "Goal title",
	}

	deadlineFlag = &cli.StringFlag{
		Name:  "deadline",
		Usage: "Goal deadline (e.g. 2025-08-31, 'next friday')",
	}

	estimateFlag = &cli.StringFlag{
		Name:  "estimate",
		Usage: "Estimated time in minutes or as a duration (e.g. 90, 10h, 1h30m)",
	}

	priorityFlag = &cli.StringFlag{
		Name:  "priority",
		Usage: "Goal priority: High, Medium or Low",
	}

	activeFlag = &cli.BoolFlag{
		Name:  "active",
		Usage: "Only list goals that are still open",
	}

	startFlag = &cli.StringFlag{
		Name:  "start",
		Usage: "New start time (e.g. '2025-07-28 14:00')",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "New end time (e.g. '2025-07-28 16:00')",
	}

	activityFlag = &cli.StringFlag{
		Name:  "activity",
		Usage: "New activity label",
	}

	descriptionFlag = &cli.StringFlag{
		Name:  "description",
		Usage: "New description",
	}
)
