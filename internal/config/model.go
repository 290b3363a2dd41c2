package config

// SchemaVersion is the only mapping schema revision this build understands.
// Mapping files carry their version explicitly so that a stale file fails
// loudly instead of binding the wrong slots.
const SchemaVersion = "1.0"

// InputRecord describes one slot of the driver's input array.
type InputRecord struct {
	// Slot is the position in the driver's flat inargs array. Unique within
	// the inputs; order in the file is not significant.
	Slot int
	// Name is the engine element name. Purely informational for SYSTEM
	// records.
	Name string
	// ObjectType is the mapping-level type tag, e.g. "GAGE" or "SYSTEM".
	ObjectType string
	// Property is the channel name, e.g. "RAINFALL".
	Property string
}

// OutputRecord describes one slot of the driver's output array.
type OutputRecord struct {
	Slot       int
	Name       string // possibly compound: "Subcatch/LidControl"
	ObjectType string
	Property   string
	// PrecomputedHandle is the optional swmm_index carried by generated
	// mapping files. It may be stale, so it is retained for diagnostics but
	// never substitutes for resolution by name.
	PrecomputedHandle int
}

// Mapping is the validated, in-memory interface definition for one session.
type Mapping struct {
	// Version is the schema version string found in the file.
	Version string
	// ModelHash is an optional SHA-256 hex digest of the model input file the
	// mapping was generated against. When set, Initialize verifies it.
	ModelHash string
	// LogLevel is the optional diagnostics verbosity requested by the file
	// ("DEBUG", "INFO", "WARN", "ERROR"; empty means leave as-is).
	LogLevel string
	// DeclaredInputs and DeclaredOutputs are the counts the file claims;
	// Validate checks them against the record slices.
	DeclaredInputs  int
	DeclaredOutputs int

	Inputs  []InputRecord
	Outputs []OutputRecord
}

// InputCount returns the number of input records.
func (m *Mapping) InputCount() int { return len(m.Inputs) }

// OutputCount returns the number of output records.
func (m *Mapping) OutputCount() int { return len(m.Outputs) }
