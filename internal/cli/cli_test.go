package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/swmmbridge/internal/cli"
)

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"bindings.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	require.Equal(t, "bindings.hcl", cfg.MappingPath)
	require.Equal(t, 10, cfg.Steps)
	require.Equal(t, 60.0, cfg.StepSeconds)
	require.Equal(t, 0.5, cfg.Rainfall)
	require.False(t, cfg.DryRun)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{
		"-mapping", "m.hcl",
		"-model", "model.inp",
		"-steps", "3",
		"-dt", "30",
		"-rainfall", "1.25",
		"-dry-run",
		"-log-format", "json",
		"-log-level", "debug",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	require.Equal(t, "m.hcl", cfg.MappingPath)
	require.Equal(t, "model.inp", cfg.ModelPath)
	require.Equal(t, 3, cfg.Steps)
	require.Equal(t, 30.0, cfg.StepSeconds)
	require.Equal(t, 1.25, cfg.Rainfall)
	require.True(t, cfg.DryRun)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParseShorthandMapping(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-m", "short.hcl"}, &out)
	require.NoError(t, err)
	require.Equal(t, "short.hcl", cfg.MappingPath)
}

func TestParseNoArgsShowsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse(nil, &out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParseHelpFlag(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-bogus"}, "-bogus"},
		{"bad log format", []string{"-log-format", "xml", "m.hcl"}, "log-format"},
		{"bad log level", []string{"-log-level", "loud", "m.hcl"}, "log-level"},
		{"zero steps", []string{"-steps", "0", "m.hcl"}, "steps"},
		{"negative dt", []string{"-dt", "-5", "m.hcl"}, "dt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := cli.Parse(tc.args, &out)
			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.want)
		})
	}
}
