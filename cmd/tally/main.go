package main

import (
	"errors"
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/tally/app"
	"github.com/ayoisaiah/tally/internal/osutil"
	"github.com/ayoisaiah/tally/internal/parser"
	"github.com/ayoisaiah/tally/internal/pathutil"
	"github.com/ayoisaiah/tally/internal/static"
)

func run(args []string) error {
	if err := pathutil.Initialize(); err != nil {
		return err
	}

	if _, err := static.Install(pathutil.Dir()); err != nil {
		pterm.Warning.Println(err)
	}

	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err == nil {
		os.Exit(osutil.ExitOK.Int())
	}

	var pf *parser.ParseFailure
	if errors.As(err, &pf) {
		pterm.Warning.Println(pf.Error())
		os.Exit(osutil.ExitParseFailure.Int())
	}

	pterm.Error.Println(err)
	os.Exit(osutil.ExitError.Int())
}
