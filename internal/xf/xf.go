// Package xf is the shim for GoldSim's external-function ABI. The protocol
// has no string channel, so a failure message is placed in a fixed buffer and
// the buffer's machine address is written over the first output slot's bytes;
// the driver reinterprets that slot as a pointer to a NUL-terminated C
// string. All unsafe pointer reinterpretation in the bridge lives here.
package xf

import "unsafe"

// Method selectors of the external-function protocol.
const (
	MethodInitialize      = 0
	MethodCalculate       = 1
	MethodReportVersion   = 2
	MethodReportArguments = 3
	MethodCleanup         = 99
)

// Status codes returned to the driver.
const (
	StatusSuccess = 0
	// StatusFailure is a recoverable failure with no message attached.
	StatusFailure = 1
	// StatusFailureWithMessage tells the driver that outargs[0] carries the
	// address of a diagnostic string.
	StatusFailureWithMessage = -1
)

// ErrorBufferSize bounds the diagnostic text, including the terminating NUL.
// The legacy driver allocates nothing; it reads in place.
const ErrorBufferSize = 200

// errorBuffer is process-global on purpose: the driver may read the address
// after the call returns, so the storage must outlive every stack frame. It
// is overwritten on each new failure; callers must copy the text out before
// the next bridge call.
var errorBuffer [ErrorBufferSize]byte

// SetErrorMessage copies msg into the bridge's error buffer (truncating to
// fit, always NUL-terminated) and encodes the buffer's address into
// outargs[0]. A nil or empty outargs slice is a no-op.
func SetErrorMessage(outargs []float64, msg string) {
	n := copy(errorBuffer[:ErrorBufferSize-1], msg)
	errorBuffer[n] = 0

	if len(outargs) == 0 {
		return
	}
	*(*uintptr)(unsafe.Pointer(&outargs[0])) = uintptr(unsafe.Pointer(&errorBuffer[0]))
}

// DecodeErrorMessage reverses SetErrorMessage: it reads the address encoded
// in outargs[0] and returns the NUL-terminated string found there. This is
// what the driver side does; the bridge itself only uses it in tests and in
// the CLI harness's driver loop.
func DecodeErrorMessage(outargs []float64) string {
	if len(outargs) == 0 {
		return ""
	}
	addr := *(*unsafe.Pointer)(unsafe.Pointer(&outargs[0]))
	if addr == nil {
		return ""
	}
	buf := (*[ErrorBufferSize]byte)(addr)
	for i := 0; i < ErrorBufferSize; i++ {
		if buf[i] == 0 {
			return string(buf[:i])
		}
	}
	return string(buf[:])
}
