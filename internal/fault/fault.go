// Package fault defines the bridge's failure taxonomy and the three-part
// diagnostic format (Error/Context/Suggestion) that operators see in the
// driver's error dialog.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure. The dispatcher uses it to pick a status code;
// tests use it to assert on the exact failure path.
type Kind int

const (
	// KindConfiguration covers bad, missing or inconsistent mapping content.
	KindConfiguration Kind = iota
	// KindUnknownObjectType is a type tag outside the supported set.
	KindUnknownObjectType
	// KindUnknownProperty is a (type tag, property) pair outside the accepted set.
	KindUnknownProperty
	// KindElementNotFound is a name the engine could not resolve to a handle.
	KindElementNotFound
	// KindSubElementNotFound is a compound name whose container resolved but
	// whose sub-object name matched nothing.
	KindSubElementNotFound
	// KindMalformedCompoundID is a name missing the container separator that
	// its type tag demands.
	KindMalformedCompoundID
	// KindEngine is an error propagated from the engine's own error channel.
	KindEngine
)

// String returns the kind's identifier, mostly for logs.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindUnknownObjectType:
		return "UnknownObjectType"
	case KindUnknownProperty:
		return "UnknownProperty"
	case KindElementNotFound:
		return "ElementNotFound"
	case KindSubElementNotFound:
		return "SubElementNotFound"
	case KindMalformedCompoundID:
		return "MalformedCompoundId"
	case KindEngine:
		return "EngineError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Fault is a classified failure with the operator-facing three-part message.
type Fault struct {
	Kind       Kind
	Summary    string // one line, e.g. "SWMM element not found"
	Context    string // the offending name/type/property/file
	Suggestion string // what the operator should do about it
}

// Error implements the error interface with the full rendered message.
func (f *Fault) Error() string {
	return f.Render()
}

// Render formats the message exactly as the legacy bridge did, so existing
// driver-side tooling that scans for the "Error:"/"Context:"/"Suggestion:"
// markers keeps working.
func (f *Fault) Render() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(f.Summary)
	b.WriteString("\nContext: ")
	b.WriteString(f.Context)
	b.WriteString("\nSuggestion: ")
	b.WriteString(f.Suggestion)
	return b.String()
}

// New constructs a Fault.
func New(kind Kind, summary, context, suggestion string) *Fault {
	return &Fault{Kind: kind, Summary: summary, Context: context, Suggestion: suggestion}
}

// Newf constructs a Fault with a formatted context clause.
func Newf(kind Kind, summary, suggestion, contextFormat string, args ...any) *Fault {
	return &Fault{
		Kind:       kind,
		Summary:    summary,
		Context:    fmt.Sprintf(contextFormat, args...),
		Suggestion: suggestion,
	}
}

// Engine wraps a verbatim engine message. The engine text lands in the
// context clause so the leading summary stays scannable.
func Engine(operation, engineMsg string) *Fault {
	if engineMsg == "" {
		engineMsg = "engine reported an error but no message is available"
	}
	return &Fault{
		Kind:       KindEngine,
		Summary:    "SWMM engine error during " + operation,
		Context:    engineMsg,
		Suggestion: "Check the SWMM report file for details",
	}
}

// As unwraps err into a *Fault if it is (or wraps) one.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Fault of the given kind.
func IsKind(err error, kind Kind) bool {
	f, ok := As(err)
	return ok && f.Kind == kind
}
