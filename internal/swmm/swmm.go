// Package swmm defines the contract the bridge requires from the EPA SWMM 5
// engine. The native engine is consumed purely through this interface; the
// constants mirror the toolkit API in swmm5.h so that a cgo-backed
// implementation can pass them straight through.
package swmm

// ObjectType identifies a category of model object, as used by GetIndex and
// GetCount.
type ObjectType int

// Object type codes from swmm5.h.
const (
	Gage        ObjectType = 0
	Subcatch    ObjectType = 1
	Node        ObjectType = 2
	Link        ObjectType = 3
	Pollut      ObjectType = 4
	Landuse     ObjectType = 5
	TimePattern ObjectType = 6
	Curve       ObjectType = 7
	Tseries     ObjectType = 8
	Control     ObjectType = 9
	Transect    ObjectType = 10
	Aquifer     ObjectType = 11
	UnitHyd     ObjectType = 12
	Snowmelt    ObjectType = 13
	Shape       ObjectType = 14
	LID         ObjectType = 15
)

// Property identifies a value channel for GetValue/SetValue.
type Property int

// System property codes (object index is ignored for these).
const (
	SysStartDate   Property = 0
	SysCurrentDate Property = 1
	SysElapsedTime Property = 2
	SysRouteStep   Property = 3
	SysReportStep  Property = 4
	SysTotalSteps  Property = 5
	SysNoReport    Property = 6
	SysFlowUnits   Property = 7
)

// Rain gage property codes.
const (
	GageTotalPrecip Property = 100
	GageRainfall    Property = 101
	GageSnowfall    Property = 102
)

// Subcatchment property codes.
const (
	SubcatchArea     Property = 200
	SubcatchRainGage Property = 201
	SubcatchRainfall Property = 202
	SubcatchEvap     Property = 203
	SubcatchInfil    Property = 204
	SubcatchRunoff   Property = 205
)

// Node property codes.
const (
	NodeType     Property = 300
	NodeElev     Property = 301
	NodeMaxDepth Property = 302
	NodeDepth    Property = 303
	NodeHead     Property = 304
	NodeVolume   Property = 305
	NodeLatFlow  Property = 306
	NodeInflow   Property = 307
	NodeOverflow Property = 308
)

// Link property codes.
const (
	LinkType       Property = 400
	LinkNode1      Property = 401
	LinkNode2      Property = 402
	LinkLength     Property = 403
	LinkSlope      Property = 404
	LinkFullDepth  Property = 405
	LinkFullFlow   Property = 406
	LinkSetting    Property = 407
	LinkTimeOpen   Property = 408
	LinkTimeClosed Property = 409
	LinkFlow       Property = 410
	LinkDepth      Property = 411
	LinkVelocity   Property = 412
	LinkTopWidth   Property = 413
)

// StepResult classifies the return code of API.Step.
type StepResult int

const (
	// StepContinue means the simulation advanced and more steps remain.
	StepContinue StepResult = iota
	// StepEnded means the simulation reached its end date normally.
	StepEnded
	// StepError means the engine raised an internal error; the message is
	// available through LastError.
	StepError
)

// API is the stateful engine lifecycle plus per-object accessors. A code of 0
// means success wherever an error code is returned; the corresponding message
// is retrieved with LastError. Handles returned by GetIndex are only valid
// between Open and Close.
type API interface {
	// Open loads a model. Paths name the input, report and binary output files.
	Open(inputFile, reportFile, outputFile string) int
	// Start begins a simulation. saveResults controls whether the engine
	// writes its own results file (swmm_start save flag).
	Start(saveResults bool) int
	// Step advances the simulation by one routing step. elapsed is the new
	// simulation time in decimal days.
	Step() (elapsed float64, result StepResult)
	// End terminates a started simulation.
	End() int
	// Close unloads the model.
	Close() int

	// GetIndex resolves an object name within a category to a handle,
	// or a negative value if the name is unknown.
	GetIndex(objType ObjectType, name string) int
	// GetCount reports how many objects exist in a category.
	GetCount(objType ObjectType) int
	// GetValue reads a property channel. For system properties the handle is
	// ignored.
	GetValue(prop Property, handle int) float64
	// SetValue writes a property channel.
	SetValue(prop Property, handle int, value float64)

	// LastError returns the engine's most recent error message.
	LastError() string
}

// LidAPI is the optional extension for enumerating and querying LID units
// nested inside a subcatchment. Engine builds without the extension simply do
// not implement this interface; the resolver detects that with a type
// assertion.
type LidAPI interface {
	// LidUnitCount returns the number of LID units in a subcatchment, or a
	// negative value if the handle is invalid.
	LidUnitCount(subcatchHandle int) int
	// LidUnitName returns the LID control name of the unit at lidIndex.
	LidUnitName(subcatchHandle, lidIndex int) string
	// LidStorageVolume returns the unit's current total stored volume.
	LidStorageVolume(subcatchHandle, lidIndex int) float64
	// LidSurfaceInflow returns the current runoff rate entering the unit.
	LidSurfaceInflow(subcatchHandle, lidIndex int) float64
	// LidSurfaceOutflow returns the current overflow rate leaving the unit.
	LidSurfaceOutflow(subcatchHandle, lidIndex int) float64
}
