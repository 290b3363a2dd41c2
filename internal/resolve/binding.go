package resolve

import "github.com/specialistvlad/swmmbridge/internal/swmm"

// BindingKind says how a binding talks to the engine.
type BindingKind int

const (
	// BindProperty reads or writes a plain GetValue/SetValue channel.
	BindProperty BindingKind = iota
	// BindLid reads a sub-object channel through the LID extension.
	BindLid
	// BindInformational is never applied to the engine; the slot's value is
	// consumed by the bridge itself (elapsed driver time).
	BindInformational
)

// Binding is one resolved association between a driver array slot and an
// engine value channel.
type Binding struct {
	// Slot is the position in the driver's flat array.
	Slot int
	// Name is the mapping record's display name, kept for diagnostics.
	Name string
	Kind BindingKind

	// Prop is the engine property channel (BindProperty only).
	Prop swmm.Property
	// Lid selects the sub-object getter (BindLid only).
	Lid LidChannel

	// Handle is the engine object handle, or -1 for informational bindings.
	Handle int
	// SubHandle is the LID unit index within the container (BindLid only).
	SubHandle int
}

// Read returns the binding's current value from the engine. Callers guarantee
// the engine passed resolution, so a BindLid binding can assert the LID
// extension without re-checking.
func (b *Binding) Read(engine swmm.API) float64 {
	switch b.Kind {
	case BindLid:
		lid := engine.(swmm.LidAPI)
		switch b.Lid {
		case LidSurfaceInflow:
			return lid.LidSurfaceInflow(b.Handle, b.SubHandle)
		case LidSurfaceOutflow:
			return lid.LidSurfaceOutflow(b.Handle, b.SubHandle)
		default:
			return lid.LidStorageVolume(b.Handle, b.SubHandle)
		}
	case BindProperty:
		return engine.GetValue(b.Prop, b.Handle)
	default:
		return 0
	}
}

// Apply writes a value to the binding's engine channel. Informational
// bindings are a no-op.
func (b *Binding) Apply(engine swmm.API, value float64) {
	if b.Kind != BindProperty {
		return
	}
	engine.SetValue(b.Prop, b.Handle, value)
}
