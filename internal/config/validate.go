package config

import (
	"fmt"

	"github.com/specialistvlad/swmmbridge/internal/fault"
)

// Validate enforces the structural invariants of a loaded mapping: supported
// schema version, declared-count consistency, required fields present, and
// unique slot indices. It returns a *fault.Fault on the first violation.
func (m *Mapping) Validate() error {
	if m.Version != SchemaVersion {
		return fault.Newf(fault.KindConfiguration,
			"Unsupported mapping file version",
			"Regenerate the mapping file using the current version of the parser",
			"Version '%s' (this build supports version '%s')", m.Version, SchemaVersion)
	}

	if len(m.Inputs) != m.DeclaredInputs {
		return fault.Newf(fault.KindConfiguration,
			"Input count mismatch",
			"Regenerate the mapping file to ensure consistency",
			"Expected %d inputs, found %d", m.DeclaredInputs, len(m.Inputs))
	}
	if len(m.Outputs) != m.DeclaredOutputs {
		return fault.Newf(fault.KindConfiguration,
			"Output count mismatch",
			"Regenerate the mapping file to ensure consistency",
			"Expected %d outputs, found %d", m.DeclaredOutputs, len(m.Outputs))
	}

	seen := make(map[int]string, len(m.Inputs))
	for i, in := range m.Inputs {
		if err := requireFields(fmt.Sprintf("input #%d", i), in.Name, in.ObjectType, in.Property); err != nil {
			return err
		}
		if in.Slot < 0 {
			return fault.Newf(fault.KindConfiguration,
				"Invalid input slot index",
				"Slot indices must be zero-based positions in the driver's input array",
				"Input '%s' has index %d", in.Name, in.Slot)
		}
		if prev, dup := seen[in.Slot]; dup {
			return fault.Newf(fault.KindConfiguration,
				"Duplicate input slot index",
				"Each input must occupy a distinct position in the driver's input array",
				"Inputs '%s' and '%s' both use index %d", prev, in.Name, in.Slot)
		}
		seen[in.Slot] = in.Name
	}

	seen = make(map[int]string, len(m.Outputs))
	for i, out := range m.Outputs {
		if err := requireFields(fmt.Sprintf("output #%d", i), out.Name, out.ObjectType, out.Property); err != nil {
			return err
		}
		if out.Slot < 0 {
			return fault.Newf(fault.KindConfiguration,
				"Invalid output slot index",
				"Slot indices must be zero-based positions in the driver's output array",
				"Output '%s' has index %d", out.Name, out.Slot)
		}
		if prev, dup := seen[out.Slot]; dup {
			return fault.Newf(fault.KindConfiguration,
				"Duplicate output slot index",
				"Each output must occupy a distinct position in the driver's output array",
				"Outputs '%s' and '%s' both use index %d", prev, out.Name, out.Slot)
		}
		seen[out.Slot] = out.Name
	}

	return nil
}

func requireFields(record, name, objectType, property string) error {
	missing := ""
	switch {
	case name == "":
		missing = "name"
	case objectType == "":
		missing = "object_type"
	case property == "":
		missing = "property"
	}
	if missing == "" {
		return nil
	}
	return fault.Newf(fault.KindConfiguration,
		"Missing required mapping field",
		"Every mapping record needs index, name, object_type and property",
		"%s is missing '%s'", record, missing)
}
