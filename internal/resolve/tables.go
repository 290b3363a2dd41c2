package resolve

import "github.com/specialistvlad/swmmbridge/internal/swmm"

// LidChannel selects one of the sub-object value getters of the LID
// extension.
type LidChannel int

const (
	LidStorageVolume LidChannel = iota
	LidSurfaceInflow
	LidSurfaceOutflow
)

// tagProp keys the accepted-combination tables. Both parts are the uppercase
// strings used in mapping files.
type tagProp struct {
	Tag  string
	Prop string
}

// inputSpec describes how one accepted input combination maps onto the
// engine. Informational inputs (the driver's elapsed time) are never applied
// to the engine and need no handle.
type inputSpec struct {
	objType       swmm.ObjectType
	prop          swmm.Property
	informational bool
}

// outputSpec describes how one accepted output combination maps onto the
// engine. LID outputs read through the sub-object getters instead of
// GetValue.
type outputSpec struct {
	objType swmm.ObjectType
	prop    swmm.Property
	lid     LidChannel
	isLid   bool
}

// Accepted input combinations. The set is deliberately asymmetric with the
// outputs: drivers push control settings and forcings in, and pull state out.
var inputTable = map[tagProp]inputSpec{
	{"SYSTEM", "ELAPSEDTIME"}: {informational: true},
	{"GAGE", "RAINFALL"}:      {objType: swmm.Gage, prop: swmm.GageRainfall},
	{"PUMP", "SETTING"}:       {objType: swmm.Link, prop: swmm.LinkSetting},
	{"ORIFICE", "SETTING"}:    {objType: swmm.Link, prop: swmm.LinkSetting},
	{"WEIR", "SETTING"}:       {objType: swmm.Link, prop: swmm.LinkSetting},
	{"NODE", "LATFLOW"}:       {objType: swmm.Node, prop: swmm.NodeLatFlow},
}

// Accepted output combinations.
var outputTable = map[tagProp]outputSpec{
	{"STORAGE", "VOLUME"}:       {objType: swmm.Node, prop: swmm.NodeVolume},
	{"OUTFALL", "FLOW"}:         {objType: swmm.Node, prop: swmm.NodeInflow},
	{"NODE", "DEPTH"}:           {objType: swmm.Node, prop: swmm.NodeDepth},
	{"ORIFICE", "FLOW"}:         {objType: swmm.Link, prop: swmm.LinkFlow},
	{"WEIR", "FLOW"}:            {objType: swmm.Link, prop: swmm.LinkFlow},
	{"SUBCATCH", "RUNOFF"}:      {objType: swmm.Subcatch, prop: swmm.SubcatchRunoff},
	{"LID", "STORAGE_VOLUME"}:   {objType: swmm.Subcatch, lid: LidStorageVolume, isLid: true},
	{"LID", "SURFACE_INFLOW"}:   {objType: swmm.Subcatch, lid: LidSurfaceInflow, isLid: true},
	{"LID", "SURFACE_OUTFLOW"}:  {objType: swmm.Subcatch, lid: LidSurfaceOutflow, isLid: true},
}

// Operator-facing enumerations for error messages. Kept as literal constants
// so the wording stays stable for driver-side tooling that greps diagnostics.
// Single-line and comma-separated on purpose: the driver's message channel is
// capped at xf.ErrorBufferSize bytes, so a truncated rendering must still
// carry the offending pair and as much of the enumeration as fits. The full
// text always reaches the log.
const (
	supportedInputTags  = "GAGE, PUMP, ORIFICE, WEIR, NODE, SYSTEM"
	supportedOutputTags = "STORAGE, OUTFALL, ORIFICE, WEIR, NODE, SUBCATCH, LID"

	validInputPairs = "Valid pairs: SYSTEM.ELAPSEDTIME, GAGE.RAINFALL, PUMP.SETTING, " +
		"ORIFICE.SETTING, WEIR.SETTING, NODE.LATFLOW"

	validOutputPairs = "Valid pairs: STORAGE.VOLUME, OUTFALL.FLOW, ORIFICE.FLOW, " +
		"WEIR.FLOW, NODE.DEPTH, SUBCATCH.RUNOFF, LID.STORAGE_VOLUME, " +
		"LID.SURFACE_INFLOW, LID.SURFACE_OUTFLOW"
)

// inputTagKnown reports whether any accepted input combination uses the tag.
func inputTagKnown(tag string) bool {
	for k := range inputTable {
		if k.Tag == tag {
			return true
		}
	}
	return false
}

// outputTagKnown reports whether any accepted output combination uses the tag.
func outputTagKnown(tag string) bool {
	for k := range outputTable {
		if k.Tag == tag {
			return true
		}
	}
	return false
}
