// Package cli parses the harness's command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/swmmbridge/internal/app"
)

// ExitError is an error with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating the program should exit cleanly (help shown), or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("swmmbridge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
swmmbridge - GoldSim/SWMM co-simulation bridge harness.

Usage:
  swmmbridge [options] [MAPPING_PATH]

Arguments:
  MAPPING_PATH
    Path to the HCL mapping file that binds driver slots to model elements.

Options:
`)
		flagSet.PrintDefaults()
	}

	mappingFlag := flagSet.String("mapping", "", "Path to the mapping file.")
	mFlag := flagSet.String("m", "", "Path to the mapping file (shorthand).")
	modelFlag := flagSet.String("model", "", "Path to the SWMM .inp model file. Empty generates a placeholder.")
	stepsFlag := flagSet.Int("steps", 10, "Number of Calculate calls the scripted driver issues.")
	dtFlag := flagSet.Float64("dt", 60, "Driver timestep in seconds.")
	rainFlag := flagSet.Float64("rainfall", 0.5, "Constant rainfall intensity fed to GAGE inputs.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Validate and resolve the mapping, print bindings, exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *mappingFlag != "" {
		path = *mappingFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := &app.Config{
		MappingPath: path,
		ModelPath:   *modelFlag,
		Steps:       *stepsFlag,
		StepSeconds: *dtFlag,
		Rainfall:    *rainFlag,
		DryRun:      *dryRunFlag,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
