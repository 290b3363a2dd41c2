package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
	"github.com/specialistvlad/swmmbridge/internal/fault"
	"github.com/specialistvlad/swmmbridge/internal/swmm"
)

// Separator splits a compound "Container/SubObject" identifier.
const Separator = "/"

// Sdump of every binding is costly, so the full dump stays behind an
// Enabled check at debug level.
const levelDump = slog.LevelDebug

// Bindings holds the fully resolved interface for one session, in slot order
// of the mapping file.
type Bindings struct {
	Inputs  []Binding
	Outputs []Binding
}

// Resolve converts every mapping record into a live binding against an
// opened, started engine. It is strictly fail-fast: the first unresolvable
// record aborts with a fault and no bindings are returned, so a failed
// Initialize never leaves partial state behind.
func Resolve(ctx context.Context, engine swmm.API, m *config.Mapping) (*Bindings, error) {
	logger := ctxlog.FromContext(ctx)

	b := &Bindings{
		Inputs:  make([]Binding, 0, len(m.Inputs)),
		Outputs: make([]Binding, 0, len(m.Outputs)),
	}

	for _, rec := range m.Inputs {
		bound, err := resolveInput(engine, rec)
		if err != nil {
			return nil, err
		}
		b.Inputs = append(b.Inputs, bound)
		logger.Debug("input resolved",
			"slot", bound.Slot, "name", rec.Name, "handle", bound.Handle)
	}

	for _, rec := range m.Outputs {
		bound, err := resolveOutput(engine, rec)
		if err != nil {
			return nil, err
		}
		b.Outputs = append(b.Outputs, bound)
		logger.Debug("output resolved",
			"slot", bound.Slot, "name", rec.Name,
			"handle", bound.Handle, "sub", bound.SubHandle)
	}

	if logger.Enabled(ctx, levelDump) {
		logger.Log(ctx, levelDump, "resolved bindings", "dump", spew.Sdump(b))
	}
	return b, nil
}

func resolveInput(engine swmm.API, rec config.InputRecord) (Binding, error) {
	if !inputTagKnown(rec.ObjectType) {
		return Binding{}, fault.Newf(fault.KindUnknownObjectType,
			"Unknown input object type",
			"Supported types are "+supportedInputTags,
			"Type '%s' for element '%s'", rec.ObjectType, rec.Name)
	}

	spec, ok := inputTable[tagProp{rec.ObjectType, rec.Property}]
	if !ok {
		return Binding{}, fault.Newf(fault.KindUnknownProperty,
			"Unknown input property",
			validInputPairs,
			"%s.%s for element '%s'", rec.ObjectType, rec.Property, rec.Name)
	}

	if spec.informational {
		return Binding{
			Slot:   rec.Slot,
			Name:   rec.Name,
			Kind:   BindInformational,
			Handle: -1,
		}, nil
	}

	if strings.Contains(rec.Name, Separator) {
		return Binding{}, fault.Newf(fault.KindMalformedCompoundID,
			"Compound identifier on a non-LID record",
			"Only LID records address sub-objects; use a plain element name here",
			"%s '%s'", rec.ObjectType, rec.Name)
	}

	handle := engine.GetIndex(spec.objType, rec.Name)
	if handle < 0 {
		return Binding{}, notFound(rec.ObjectType, rec.Name)
	}

	return Binding{
		Slot:   rec.Slot,
		Name:   rec.Name,
		Kind:   BindProperty,
		Prop:   spec.prop,
		Handle: handle,
	}, nil
}

func resolveOutput(engine swmm.API, rec config.OutputRecord) (Binding, error) {
	if !outputTagKnown(rec.ObjectType) {
		return Binding{}, fault.Newf(fault.KindUnknownObjectType,
			"Unknown output object type",
			"Supported types are "+supportedOutputTags,
			"Type '%s' for element '%s'", rec.ObjectType, rec.Name)
	}

	spec, ok := outputTable[tagProp{rec.ObjectType, rec.Property}]
	if !ok {
		return Binding{}, fault.Newf(fault.KindUnknownProperty,
			"Unknown output property",
			validOutputPairs,
			"%s.%s for element '%s'", rec.ObjectType, rec.Property, rec.Name)
	}

	if spec.isLid {
		return resolveLidOutput(engine, rec, spec)
	}

	if strings.Contains(rec.Name, Separator) {
		return Binding{}, fault.Newf(fault.KindMalformedCompoundID,
			"Compound identifier on a non-LID record",
			"Only LID records address sub-objects; use a plain element name here",
			"%s '%s'", rec.ObjectType, rec.Name)
	}

	handle := engine.GetIndex(spec.objType, rec.Name)
	if handle < 0 {
		return Binding{}, notFound(rec.ObjectType, rec.Name)
	}

	return Binding{
		Slot:   rec.Slot,
		Name:   rec.Name,
		Kind:   BindProperty,
		Prop:   spec.prop,
		Handle: handle,
	}, nil
}

// resolveLidOutput performs the two-level lookup for "Subcatch/LidControl"
// identifiers: the container resolves to a subcatchment handle, then the LID
// unit list of that subcatchment is scanned for an exact name match.
func resolveLidOutput(engine swmm.API, rec config.OutputRecord, spec outputSpec) (Binding, error) {
	container, sub, found := strings.Cut(rec.Name, Separator)
	if !found || container == "" || sub == "" {
		return Binding{}, fault.Newf(fault.KindMalformedCompoundID,
			"Malformed LID identifier",
			"LID names must be 'SubcatchmentName/LidControlName'",
			"LID '%s'", rec.Name)
	}

	lid, ok := engine.(swmm.LidAPI)
	if !ok {
		return Binding{}, fault.Newf(fault.KindUnknownObjectType,
			"LID addressing not supported by this engine build",
			"Use an engine build that includes the LID API extension",
			"LID '%s'", rec.Name)
	}

	handle := engine.GetIndex(spec.objType, container)
	if handle < 0 {
		return Binding{}, notFound("SUBCATCH", container)
	}

	count := lid.LidUnitCount(handle)
	for i := 0; i < count; i++ {
		if lid.LidUnitName(handle, i) == sub {
			return Binding{
				Slot:      rec.Slot,
				Name:      rec.Name,
				Kind:      BindLid,
				Lid:       spec.lid,
				Handle:    handle,
				SubHandle: i,
			}, nil
		}
	}

	return Binding{}, fault.Newf(fault.KindSubElementNotFound,
		"LID unit not found in subcatchment",
		"Verify the LID control is deployed in that subcatchment in the SWMM .inp file",
		"LID unit '%s' in subcatchment '%s' (%d units present)", sub, container, count)
}

func notFound(objectType, name string) error {
	return fault.Newf(fault.KindElementNotFound,
		"SWMM element not found",
		"Verify that "+objectType+" '"+name+"' exists in the SWMM .inp file",
		"%s '%s'", objectType, name)
}
