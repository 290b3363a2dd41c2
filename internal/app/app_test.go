package app_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/swmmbridge/internal/app"
	"github.com/specialistvlad/swmmbridge/internal/testutil"
)

const syntheticMapping = `
version      = "1.0"
input_count  = 2
output_count = 3

input {
  index       = 0
  name        = "ElapsedTime"
  object_type = "SYSTEM"
  property    = "ELAPSEDTIME"
}

input {
  index       = 1
  name        = "RG1"
  object_type = "GAGE"
  property    = "RAINFALL"
}

output {
  index       = 0
  name        = "SU1"
  object_type = "STORAGE"
  property    = "VOLUME"
}

output {
  index       = 1
  name        = "O1"
  object_type = "OUTFALL"
  property    = "FLOW"
}

output {
  index       = 2
  name        = "S1/InfilTrench"
  object_type = "LID"
  property    = "STORAGE_VOLUME"
}
`

func harnessConfig(t *testing.T, mapping string) *app.Config {
	t.Helper()
	return &app.Config{
		MappingPath: testutil.WriteFile(t, t.TempDir(), "bindings.hcl", mapping),
		Steps:       5,
		StepSeconds: 60,
		Rainfall:    1.0,
		LogLevel:    "error",
		LogFormat:   "text",
	}
}

func TestRunDrivesSyntheticEngineEndToEnd(t *testing.T) {
	var out bytes.Buffer
	harness := app.NewApp(&out, harnessConfig(t, syntheticMapping), nil)

	require.NoError(t, harness.Run(harness.Context()))

	text := out.String()
	require.Contains(t, text, "bridge version 1.10")
	require.Contains(t, text, "interface: 2 inputs, 3 outputs")
	require.Contains(t, text, "step 0")
	require.Contains(t, text, "step 4")
	require.Contains(t, text, "SU1=")
	require.Contains(t, text, "O1=")
	require.Contains(t, text, "S1/InfilTrench=")

	// The first exchange reports the dry initial condition; by the last the
	// rainfall has filled the storage node.
	lines := strings.Split(strings.TrimSpace(text), "\n")
	first, last := "", ""
	for _, line := range lines {
		if strings.HasPrefix(line, "step 0") {
			first = line
		}
		if strings.HasPrefix(line, "step 4") {
			last = line
		}
	}
	require.Contains(t, first, "SU1=0.0000")
	require.NotContains(t, last, "SU1=0.0000")
}

func TestRunDryRunPrintsBindingTable(t *testing.T) {
	var out bytes.Buffer
	cfg := harnessConfig(t, syntheticMapping)
	cfg.DryRun = true
	harness := app.NewApp(&out, cfg, nil)

	require.NoError(t, harness.Run(harness.Context()))

	text := out.String()
	require.Contains(t, text, "2 inputs, 3 outputs")
	require.Contains(t, text, "RG1")
	require.Contains(t, text, "S1/InfilTrench")
	require.NotContains(t, text, "step 0")
}

func TestRunSurfacesResolutionFailure(t *testing.T) {
	bad := strings.Replace(syntheticMapping, `name        = "O1"`, `name        = "NOPE"`, 1)

	var out bytes.Buffer
	harness := app.NewApp(&out, harnessConfig(t, bad), nil)

	err := harness.Run(harness.Context())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Initialize failed")
	require.Contains(t, err.Error(), "NOPE")
	require.Contains(t, err.Error(), "Error:")
	require.Contains(t, err.Error(), "Suggestion:")
}

func TestRunRejectsMissingMappingFile(t *testing.T) {
	var out bytes.Buffer
	cfg := harnessConfig(t, syntheticMapping)
	cfg.MappingPath = "no/such/bindings.hcl"
	harness := app.NewApp(&out, cfg, nil)

	err := harness.Run(harness.Context())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Mapping file not found")
}

func TestConfigValidate(t *testing.T) {
	cfg := harnessConfig(t, syntheticMapping)
	require.NoError(t, cfg.Validate())

	cfg.Steps = 0
	require.ErrorContains(t, cfg.Validate(), "steps")

	cfg = harnessConfig(t, syntheticMapping)
	cfg.StepSeconds = 0
	require.ErrorContains(t, cfg.Validate(), "dt")

	cfg = harnessConfig(t, syntheticMapping)
	cfg.MappingPath = ""
	require.ErrorContains(t, cfg.Validate(), "mapping")
}
