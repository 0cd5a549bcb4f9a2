// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/blkerby/smartdiff/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(os.Args[1:]); err != nil {
		return opts, &UsageError{flags: flags}
	}

	args := flags.Args()
	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}
	if len(args) == 1 {
		opts.Room = args[0]
	}

	if opts.Baseline < 0 || opts.Baseline > 1 {
		return opts, fmt.Errorf("baseline coefficient must be between 0 and 1, got %v", opts.Baseline)
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "invalid usage"
	}
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: smartdiff [options] [room]\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks that at most one room name is given and that no
// flags follow it.
func validateArgs(flags *flag.FlagSet, args []string) error {
	if len(args) > 1 {
		for _, arg := range args[1:] {
			if len(arg) > 0 && arg[0] == '-' {
				return &UsageError{
					flags: flags,
					msg:   fmt.Sprintf("potential flag %s found after room name, please pass flags before the room name", arg),
				}
			}
		}
		return &UsageError{
			flags: flags,
			msg:   "at most one room name may be given",
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.ProjectRoot, "p", ".", "directory to search for SMART projects")
	flags.StringVar(&opts.Reference, "r", "HEAD", "git reference to compare the working copy against")
	flags.StringVar(&opts.Output, "o", "smartdiff-out", "directory to write rendered images to")
	flags.Float64Var(&opts.Baseline, "baseline", 0.3, "darkening coefficient for unchanged pixels in diff images")
	flags.BoolVar(&opts.ListOnly, "list", false, "list modified rooms without rendering")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
