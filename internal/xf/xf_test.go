package xf_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/swmmbridge/internal/xf"
)

func TestErrorMessageRoundTrip(t *testing.T) {
	outargs := make([]float64, 3)
	msg := "Error: SWMM element not found\nContext: OUTFALL 'NOPE'\nSuggestion: Check the model"

	xf.SetErrorMessage(outargs, msg)
	require.Equal(t, msg, xf.DecodeErrorMessage(outargs))
}

func TestErrorMessageTruncation(t *testing.T) {
	outargs := make([]float64, 1)
	long := strings.Repeat("x", xf.ErrorBufferSize*2)

	xf.SetErrorMessage(outargs, long)
	got := xf.DecodeErrorMessage(outargs)
	require.Len(t, got, xf.ErrorBufferSize-1)
	require.Equal(t, long[:xf.ErrorBufferSize-1], got)
}

func TestErrorMessageOverwrite(t *testing.T) {
	outargs := make([]float64, 1)
	xf.SetErrorMessage(outargs, "first failure")
	xf.SetErrorMessage(outargs, "second")
	require.Equal(t, "second", xf.DecodeErrorMessage(outargs))
}

func TestEmptyOutargs(t *testing.T) {
	require.NotPanics(t, func() { xf.SetErrorMessage(nil, "dropped") })
	require.Empty(t, xf.DecodeErrorMessage(nil))
	require.Empty(t, xf.DecodeErrorMessage([]float64{0}))
}
