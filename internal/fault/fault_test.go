package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderThreePartFormat(t *testing.T) {
	f := New(KindElementNotFound,
		"SWMM element not found",
		"OUTFALL 'NOPE'",
		"Verify that OUTFALL 'NOPE' exists in the SWMM .inp file")

	msg := f.Render()
	require.Contains(t, msg, "Error: SWMM element not found")
	require.Contains(t, msg, "Context: OUTFALL 'NOPE'")
	require.Contains(t, msg, "Suggestion: Verify that OUTFALL 'NOPE' exists")
	require.Equal(t, msg, f.Error())
}

func TestNewfFormatsContext(t *testing.T) {
	f := Newf(KindConfiguration, "Input count mismatch", "Regenerate",
		"Expected %d inputs, found %d", 3, 1)
	require.Equal(t, "Expected 3 inputs, found 1", f.Context)
}

func TestEngineWrapsVerbatimMessage(t *testing.T) {
	f := Engine("step", "ERROR 317: routing instability")
	require.Equal(t, KindEngine, f.Kind)
	require.Contains(t, f.Render(), "ERROR 317: routing instability")
	require.Contains(t, f.Render(), "during step")

	empty := Engine("open", "")
	require.Contains(t, empty.Context, "no message is available")
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	f := New(KindUnknownProperty, "Unknown input property combination", "GAGE.FLOW", "see list")
	wrapped := fmt.Errorf("initialize: %w", f)

	got, ok := As(wrapped)
	require.True(t, ok)
	require.Equal(t, KindUnknownProperty, got.Kind)

	require.True(t, IsKind(wrapped, KindUnknownProperty))
	require.False(t, IsKind(wrapped, KindEngine))
	require.False(t, IsKind(errors.New("plain"), KindEngine))
}

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindConfiguration:       "ConfigurationError",
		KindUnknownObjectType:   "UnknownObjectType",
		KindUnknownProperty:     "UnknownProperty",
		KindElementNotFound:     "ElementNotFound",
		KindSubElementNotFound:  "SubElementNotFound",
		KindMalformedCompoundID: "MalformedCompoundId",
		KindEngine:              "EngineError",
	}
	for kind, want := range cases {
		require.Equal(t, want, kind.String())
	}
}
