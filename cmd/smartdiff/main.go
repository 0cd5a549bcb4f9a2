// Package main implements a renderer and differ for SMART room levels:
// it renders rooms from the working copy and from a git reference and
// highlights the pixels that changed.
package main

import (
	"context"
	"errors"
	"os"

	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/blkerby/smartdiff/internal/app"
	"github.com/blkerby/smartdiff/internal/cli"
	"github.com/blkerby/smartdiff/internal/config"
	"github.com/blkerby/smartdiff/internal/options"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := retroapp.Context()

	opts, err := cli.ParseFlags()
	logger := config.CreateLogger(opts)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
	printBanner(logger, opts)

	a, err := app.New(logger, opts)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if err := a.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal(err.Error())
	}
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("smartdiff - SMART room diff renderer",
		log.String("version", buildinfo.Version(version, commit, date)),
		log.String("reference", opts.Reference),
	)
}
