// Package testutil provides the configurable fake engine and small helpers
// shared by the bridge's tests.
package testutil

import (
	"fmt"

	"github.com/specialistvlad/swmmbridge/internal/swmm"
)

// SetCall records one SetValue invocation for verification.
type SetCall struct {
	Prop   swmm.Property
	Handle int
	Value  float64
}

// FakeEngine is a controllable swmm.API implementation. Failure injection
// mirrors the knobs of the original test mock: per-operation return codes
// plus "end after N steps" / "error after N steps" step behavior.
type FakeEngine struct {
	// Name tables per category; GetIndex consults these.
	Objects map[swmm.ObjectType]map[string]int
	// Values keyed by property then handle; GetValue consults these.
	Values map[swmm.Property]map[int]float64

	// Injected return codes (0 = success).
	OpenCode  int
	StartCode int
	EndCode   int
	CloseCode int

	// StepEndAfter makes Step report normal termination once StepCount
	// reaches it (0 = never). StepErrorAfter likewise for an engine error.
	StepEndAfter   int
	StepErrorAfter int
	// StepSeconds is the simulated routing step (defaults to 60s).
	StepSeconds float64

	// ErrMsg is what LastError returns.
	ErrMsg string

	// Recorded activity.
	OpenCalls  int
	StartCalls int
	StepCount  int
	EndCalls   int
	CloseCalls int
	SetCalls   []SetCall
	LastInput  string
	LastReport string
	LastOutput string
	SaveFlag   bool

	Opened  bool
	Started bool

	elapsedDays float64
}

// NewFakeEngine returns a fake that succeeds at everything and knows no
// objects. Populate Objects/Values per test.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		Objects:     map[swmm.ObjectType]map[string]int{},
		Values:      map[swmm.Property]map[int]float64{},
		StepSeconds: 60,
	}
}

// AddObject registers a name/handle pair in a category.
func (f *FakeEngine) AddObject(objType swmm.ObjectType, name string, handle int) *FakeEngine {
	if f.Objects[objType] == nil {
		f.Objects[objType] = map[string]int{}
	}
	f.Objects[objType][name] = handle
	return f
}

// SetReading seeds the value GetValue returns for a channel.
func (f *FakeEngine) SetReading(prop swmm.Property, handle int, value float64) *FakeEngine {
	if f.Values[prop] == nil {
		f.Values[prop] = map[int]float64{}
	}
	f.Values[prop][handle] = value
	return f
}

func (f *FakeEngine) Open(inputFile, reportFile, outputFile string) int {
	f.OpenCalls++
	f.LastInput, f.LastReport, f.LastOutput = inputFile, reportFile, outputFile
	if f.OpenCode == 0 {
		f.Opened = true
	}
	return f.OpenCode
}

func (f *FakeEngine) Start(saveResults bool) int {
	f.StartCalls++
	f.SaveFlag = saveResults
	if f.StartCode == 0 {
		f.Started = true
	}
	return f.StartCode
}

func (f *FakeEngine) Step() (float64, swmm.StepResult) {
	f.StepCount++
	f.elapsedDays += f.StepSeconds / 86400.0
	if f.StepErrorAfter > 0 && f.StepCount >= f.StepErrorAfter {
		return f.elapsedDays, swmm.StepError
	}
	if f.StepEndAfter > 0 && f.StepCount >= f.StepEndAfter {
		return f.elapsedDays, swmm.StepEnded
	}
	return f.elapsedDays, swmm.StepContinue
}

func (f *FakeEngine) End() int {
	f.EndCalls++
	f.Started = false
	return f.EndCode
}

func (f *FakeEngine) Close() int {
	f.CloseCalls++
	f.Opened = false
	return f.CloseCode
}

func (f *FakeEngine) GetIndex(objType swmm.ObjectType, name string) int {
	if handles, ok := f.Objects[objType]; ok {
		if h, ok := handles[name]; ok {
			return h
		}
	}
	return -1
}

func (f *FakeEngine) GetCount(objType swmm.ObjectType) int {
	return len(f.Objects[objType])
}

func (f *FakeEngine) GetValue(prop swmm.Property, handle int) float64 {
	if prop == swmm.SysElapsedTime {
		return f.elapsedDays
	}
	return f.Values[prop][handle]
}

func (f *FakeEngine) SetValue(prop swmm.Property, handle int, value float64) {
	f.SetCalls = append(f.SetCalls, SetCall{Prop: prop, Handle: handle, Value: value})
	f.SetReading(prop, handle, value)
}

func (f *FakeEngine) LastError() string {
	if f.ErrMsg != "" {
		return f.ErrMsg
	}
	return fmt.Sprintf("fake engine error (step %d)", f.StepCount)
}

var _ swmm.API = (*FakeEngine)(nil)

// LidUnit is one synthetic LID unit inside a FakeLidEngine subcatchment.
type LidUnit struct {
	Name    string
	Storage float64
	Inflow  float64
	Outflow float64
}

// FakeLidEngine extends FakeEngine with the LID API. Kept as a separate type
// so tests can also exercise the "engine build without the extension" path
// with a plain FakeEngine.
type FakeLidEngine struct {
	*FakeEngine
	// Units maps a subcatchment handle to its LID units.
	Units map[int][]LidUnit
}

// NewFakeLidEngine wraps a fresh FakeEngine with an empty LID table.
func NewFakeLidEngine() *FakeLidEngine {
	return &FakeLidEngine{FakeEngine: NewFakeEngine(), Units: map[int][]LidUnit{}}
}

// AddLidUnit appends a unit to a subcatchment.
func (f *FakeLidEngine) AddLidUnit(subcatchHandle int, unit LidUnit) *FakeLidEngine {
	f.Units[subcatchHandle] = append(f.Units[subcatchHandle], unit)
	return f
}

func (f *FakeLidEngine) LidUnitCount(subcatchHandle int) int {
	units, ok := f.Units[subcatchHandle]
	if !ok {
		return -1
	}
	return len(units)
}

func (f *FakeLidEngine) LidUnitName(subcatchHandle, lidIndex int) string {
	units := f.Units[subcatchHandle]
	if lidIndex < 0 || lidIndex >= len(units) {
		return ""
	}
	return units[lidIndex].Name
}

func (f *FakeLidEngine) LidStorageVolume(subcatchHandle, lidIndex int) float64 {
	units := f.Units[subcatchHandle]
	if lidIndex < 0 || lidIndex >= len(units) {
		return 0
	}
	return units[lidIndex].Storage
}

func (f *FakeLidEngine) LidSurfaceInflow(subcatchHandle, lidIndex int) float64 {
	units := f.Units[subcatchHandle]
	if lidIndex < 0 || lidIndex >= len(units) {
		return 0
	}
	return units[lidIndex].Inflow
}

func (f *FakeLidEngine) LidSurfaceOutflow(subcatchHandle, lidIndex int) float64 {
	units := f.Units[subcatchHandle]
	if lidIndex < 0 || lidIndex >= len(units) {
		return 0
	}
	return units[lidIndex].Outflow
}

var (
	_ swmm.API    = (*FakeLidEngine)(nil)
	_ swmm.LidAPI = (*FakeLidEngine)(nil)
)
