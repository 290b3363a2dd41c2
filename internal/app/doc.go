// Package app wires the bridge together for the command-line harness: it
// builds the logger, the mapping loader, the synthetic engine and the
// dispatcher, and plays the driver's role in a scripted exchange loop. The
// production deployment replaces this package with the host DLL shim; the
// bridge internals are identical.
package app
