package app

import "fmt"

// Config holds everything the harness needs for one run.
type Config struct {
	MappingPath string
	// ModelPath is the engine input file. Empty means "generate a throwaway
	// placeholder", which is enough for the synthetic engine.
	ModelPath  string
	ReportPath string
	OutputPath string

	// Steps is how many Calculate calls the scripted driver issues.
	Steps int
	// StepSeconds is the driver timestep fed into the elapsed-time slot.
	StepSeconds float64
	// Rainfall is the constant intensity fed into any rainfall input slot.
	Rainfall float64

	// DryRun validates and resolves the mapping, prints the binding table
	// and exits without running an exchange loop.
	DryRun bool

	LogLevel  string
	LogFormat string
}

// Validate rejects configurations the harness cannot run.
func (c *Config) Validate() error {
	if c.MappingPath == "" {
		return fmt.Errorf("a mapping file is required")
	}
	if c.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", c.Steps)
	}
	if c.StepSeconds <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.StepSeconds)
	}
	return nil
}
