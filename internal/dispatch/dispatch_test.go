package dispatch_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/dispatch"
	"github.com/specialistvlad/swmmbridge/internal/exchange"
	"github.com/specialistvlad/swmmbridge/internal/swmm"
	"github.com/specialistvlad/swmmbridge/internal/testutil"
	"github.com/specialistvlad/swmmbridge/internal/xf"
)

type rig struct {
	engine     *testutil.FakeEngine
	loader     *testutil.StaticLoader
	level      *slog.LevelVar
	dispatcher *dispatch.Dispatcher
}

func newRig(t *testing.T, mapping *config.Mapping) *rig {
	t.Helper()
	engine := testutil.NewFakeEngine().
		AddObject(swmm.Gage, "RG1", 0).
		AddObject(swmm.Node, "O1", 5).
		SetReading(swmm.NodeInflow, 5, 1.5)
	loader := &testutil.StaticLoader{Mapping: mapping}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	session := exchange.NewSession(engine, exchange.Paths{
		Input:  testutil.ModelFile(t),
		Report: "model.rpt",
		Output: "model.out",
	})
	return &rig{
		engine:     engine,
		loader:     loader,
		level:      level,
		dispatcher: dispatch.New(loader, "bindings.hcl", session, level),
	}
}

func gageToOutfall() *config.Mapping {
	return &config.Mapping{
		Version:         config.SchemaVersion,
		DeclaredInputs:  1,
		DeclaredOutputs: 1,
		Inputs: []config.InputRecord{
			{Slot: 0, Name: "RG1", ObjectType: "GAGE", Property: "RAINFALL"},
		},
		Outputs: []config.OutputRecord{
			{Slot: 0, Name: "O1", ObjectType: "OUTFALL", Property: "FLOW"},
		},
	}
}

func TestReportVersion(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	outargs := make([]float64, 2)
	status := r.dispatcher.Handle(ctx, xf.MethodReportVersion, nil, outargs)
	require.Equal(t, xf.StatusSuccess, status)
	require.InDelta(t, 1.10, outargs[0], 1e-9)
	// Version reporting must work before any mapping is available.
	require.Zero(t, r.loader.Loads)
}

func TestReportArgumentsLoadsOnDemand(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	outargs := make([]float64, 2)
	status := r.dispatcher.Handle(ctx, xf.MethodReportArguments, nil, outargs)
	require.Equal(t, xf.StatusSuccess, status)
	require.Equal(t, 1.0, outargs[0])
	require.Equal(t, 1.0, outargs[1])
	require.Equal(t, 1, r.loader.Loads)

	// The cached mapping serves repeat calls.
	r.dispatcher.Handle(ctx, xf.MethodReportArguments, nil, outargs)
	require.Equal(t, 1, r.loader.Loads)
}

func TestInitializeReloadsMappingEveryTime(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	outargs := make([]float64, 2)
	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs))
	require.Equal(t, 1, r.loader.Loads)
	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs))
	require.Equal(t, 2, r.loader.Loads)
}

func TestInitializeAppliesMappingLogLevel(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := gageToOutfall()
	m.LogLevel = "DEBUG"
	r := newRig(t, m)

	outargs := make([]float64, 2)
	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs))
	require.Equal(t, slog.LevelDebug, r.level.Level())

	// An unrecognized level is ignored, not fatal.
	m2 := gageToOutfall()
	m2.LogLevel = "CHATTY"
	r.loader.Mapping = m2
	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs))
	require.Equal(t, slog.LevelDebug, r.level.Level())
}

func TestCalculateBeforeInitializeIsPlainFailure(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	inargs := []float64{0.1}
	outargs := []float64{0}
	status := r.dispatcher.Handle(ctx, xf.MethodCalculate, inargs, outargs)
	require.Equal(t, xf.StatusFailure, status)
	require.Empty(t, xf.DecodeErrorMessage(outargs))
}

func TestUnknownMethodSelector(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	require.Equal(t, xf.StatusFailure, r.dispatcher.Handle(ctx, 42, nil, nil))
}

func TestMissingElementProducesThreePartMessage(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := gageToOutfall()
	m.Outputs[0].Name = "NOPE"
	r := newRig(t, m)

	outargs := make([]float64, 2)
	status := r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs)
	require.Equal(t, xf.StatusFailureWithMessage, status)

	msg := xf.DecodeErrorMessage(outargs)
	require.Contains(t, msg, "NOPE")
	require.Contains(t, msg, "Error:")
	require.Contains(t, msg, "Context:")
	require.Contains(t, msg, "Suggestion:")
	require.False(t, r.engine.Started)
}

// The driver-visible channel is capped at xf.ErrorBufferSize; the offending
// pair and the start of the accepted-pair enumeration must survive even when
// the full rendering does not fit.
func TestUnknownPropertyMessageSurvivesBufferCap(t *testing.T) {
	ctx, _ := testutil.Context(t)

	t.Run("input pair fits whole", func(t *testing.T) {
		m := gageToOutfall()
		m.Inputs[0].Property = "FLOW"
		r := newRig(t, m)

		outargs := make([]float64, 2)
		require.Equal(t, xf.StatusFailureWithMessage, r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs))
		msg := xf.DecodeErrorMessage(outargs)
		require.Contains(t, msg, "GAGE.FLOW")
		require.Contains(t, msg, "NODE.LATFLOW") // last entry of the enumeration
	})

	t.Run("output pair truncates after the pair", func(t *testing.T) {
		m := gageToOutfall()
		m.Outputs[0].Property = "DEPTH"
		r := newRig(t, m)

		outargs := make([]float64, 2)
		require.Equal(t, xf.StatusFailureWithMessage, r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs))
		msg := xf.DecodeErrorMessage(outargs)
		require.LessOrEqual(t, len(msg), xf.ErrorBufferSize-1)
		require.Contains(t, msg, "OUTFALL.DEPTH")
		require.Contains(t, msg, "Valid pairs: STORAGE.VOLUME")
	})
}

func TestInvalidMappingFailsInitialize(t *testing.T) {
	ctx, _ := testutil.Context(t)
	m := gageToOutfall()
	m.DeclaredInputs = 3
	r := newRig(t, m)

	outargs := make([]float64, 2)
	status := r.dispatcher.Handle(ctx, xf.MethodInitialize, nil, outargs)
	require.Equal(t, xf.StatusFailureWithMessage, status)
	require.Contains(t, xf.DecodeErrorMessage(outargs), "Expected 3 inputs, found 1")
	// The engine must never be touched with a bad mapping.
	require.Zero(t, r.engine.OpenCalls)
}

func TestFullLifecycle(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	inargs := []float64{0}
	outargs := make([]float64, 2)

	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodReportVersion, inargs, outargs))
	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodReportArguments, inargs, outargs))
	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodInitialize, inargs, outargs))

	for step := 0; step < 5; step++ {
		inargs[0] = 0.1 * float64(step)
		require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodCalculate, inargs, outargs))
		require.Equal(t, 1.5, outargs[0])
	}
	// Exchange 0 reports the initial condition without stepping.
	require.Equal(t, 4, r.engine.StepCount)

	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodCleanup, inargs, outargs))
	require.False(t, r.engine.Opened)

	// Cleanup drops the cached mapping; the next query reloads.
	loads := r.loader.Loads
	r.dispatcher.Handle(ctx, xf.MethodReportArguments, inargs, outargs)
	require.Equal(t, loads+1, r.loader.Loads)
}

func TestCleanupWithoutSessionSucceeds(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig(t, gageToOutfall())

	require.Equal(t, xf.StatusSuccess, r.dispatcher.Handle(ctx, xf.MethodCleanup, nil, make([]float64, 2)))
	require.Zero(t, r.engine.EndCalls)
}
