// Package synth is a deterministic stand-in for the native SWMM engine. It
// implements the full engine contract, including the LID extension, with toy
// linear-reservoir arithmetic, so mappings can be dry-run and the whole
// bridge exercised end-to-end on machines without the native DLL.
package synth

import (
	"fmt"

	"github.com/specialistvlad/swmmbridge/internal/swmm"
)

// Default model layout. One rain gage, one LID-equipped subcatchment, a
// storage node draining through an orifice and a weir to an outfall, and a
// junction accepting lateral inflow.
const (
	GageName     = "RG1"
	SubcatchName = "S1"
	StorageName  = "SU1"
	JunctionName = "J1"
	OutfallName  = "O1"
	OrificeName  = "OR1"
	WeirName     = "W1"
	PumpName     = "P1"

	LidTrenchName  = "InfilTrench"
	LidBarrelsName = "RainBarrels"
)

const (
	routeStepSeconds = 60.0
	// runoffCoeff converts rainfall intensity to subcatchment runoff.
	runoffCoeff = 0.3
	// reservoirK drains a fraction of storage volume per step.
	reservoirK = 0.05
)

type lidUnit struct {
	name    string
	storage float64
	inflow  float64
	outflow float64
	// capacity caps storage; excess becomes surface outflow.
	capacity float64
}

type node struct {
	name    string
	depth   float64
	volume  float64
	latFlow float64
	inflow  float64
}

type link struct {
	name    string
	setting float64
	flow    float64
}

// Engine is a synthetic swmm.API + swmm.LidAPI implementation. The zero
// value is not usable; construct with New.
type Engine struct {
	opened  bool
	started bool
	lastErr string

	elapsedDays float64
	// durationDays is when Step reports normal termination.
	durationDays float64
	stepCount    int

	rainfall float64 // current gage rainfall intensity

	subcatchRunoff float64
	nodes          []node
	links          []link
	lids           []lidUnit
}

// New builds an engine over the default model with a one-day simulation.
func New() *Engine {
	return &Engine{durationDays: 1.0}
}

// WithDuration overrides the simulated duration in days.
func (e *Engine) WithDuration(days float64) *Engine {
	e.durationDays = days
	return e
}

// StepCount reports how many routing steps have been taken since Start.
func (e *Engine) StepCount() int { return e.stepCount }

// Open loads the (ignored) model files and builds the object tables.
func (e *Engine) Open(inputFile, reportFile, outputFile string) int {
	if e.opened {
		e.lastErr = "model already open"
		return 1
	}
	e.opened = true
	e.lastErr = ""
	e.elapsedDays = 0
	e.stepCount = 0
	e.rainfall = 0
	e.subcatchRunoff = 0
	e.nodes = []node{
		{name: StorageName},
		{name: JunctionName},
		{name: OutfallName},
	}
	e.links = []link{
		{name: OrificeName, setting: 1},
		{name: WeirName, setting: 1},
		{name: PumpName},
	}
	e.lids = []lidUnit{
		{name: LidTrenchName, capacity: 120},
		{name: LidBarrelsName, capacity: 40},
	}
	return 0
}

// Start begins the simulation.
func (e *Engine) Start(saveResults bool) int {
	if !e.opened {
		e.lastErr = "start called before open"
		return 1
	}
	e.started = true
	return 0
}

// Step advances one routing step of toy hydraulics.
func (e *Engine) Step() (float64, swmm.StepResult) {
	if !e.started {
		e.lastErr = "step called before start"
		return e.elapsedDays, swmm.StepError
	}

	dt := routeStepSeconds / 86400.0
	e.elapsedDays += dt
	e.stepCount++

	// Rainfall drives the subcatchment; the LID units intercept part of it.
	e.subcatchRunoff = runoffCoeff * e.rainfall
	for i := range e.lids {
		u := &e.lids[i]
		u.inflow = e.subcatchRunoff * 0.5
		u.storage += u.inflow * routeStepSeconds
		u.outflow = 0
		if u.storage > u.capacity {
			u.outflow = (u.storage - u.capacity) / routeStepSeconds
			u.storage = u.capacity
		}
	}

	// Storage node fills from runoff and lateral inflow, drains through the
	// orifice and weir according to their settings.
	st := &e.nodes[0]
	jn := &e.nodes[1]
	of := &e.nodes[2]

	inflow := e.subcatchRunoff + jn.latFlow
	st.volume += inflow * routeStepSeconds

	orifice := &e.links[0]
	weir := &e.links[1]
	orifice.flow = reservoirK * st.volume * orifice.setting / routeStepSeconds
	weir.flow = 0.5 * reservoirK * st.volume * weir.setting / routeStepSeconds
	released := (orifice.flow + weir.flow) * routeStepSeconds
	if released > st.volume {
		released = st.volume
	}
	st.volume -= released
	st.depth = st.volume / 100.0

	jn.inflow = jn.latFlow
	jn.depth = jn.latFlow / 10.0

	of.inflow = released / routeStepSeconds
	of.volume = 0

	if e.elapsedDays >= e.durationDays {
		return e.elapsedDays, swmm.StepEnded
	}
	return e.elapsedDays, swmm.StepContinue
}

// End terminates a started simulation.
func (e *Engine) End() int {
	if !e.started {
		e.lastErr = "end called before start"
		return 1
	}
	e.started = false
	return 0
}

// Close unloads the model.
func (e *Engine) Close() int {
	if !e.opened {
		e.lastErr = "close called before open"
		return 1
	}
	e.opened = false
	return 0
}

// GetIndex resolves names within the default model.
func (e *Engine) GetIndex(objType swmm.ObjectType, name string) int {
	switch objType {
	case swmm.Gage:
		if name == GageName {
			return 0
		}
	case swmm.Subcatch:
		if name == SubcatchName {
			return 0
		}
	case swmm.Node:
		for i := range e.nodes {
			if e.nodes[i].name == name {
				return i
			}
		}
	case swmm.Link:
		for i := range e.links {
			if e.links[i].name == name {
				return i
			}
		}
	}
	return -1
}

// GetCount reports object counts per category.
func (e *Engine) GetCount(objType swmm.ObjectType) int {
	switch objType {
	case swmm.Gage, swmm.Subcatch:
		return 1
	case swmm.Node:
		return len(e.nodes)
	case swmm.Link:
		return len(e.links)
	default:
		return 0
	}
}

// GetValue reads a property channel.
func (e *Engine) GetValue(prop swmm.Property, handle int) float64 {
	switch prop {
	case swmm.SysElapsedTime:
		return e.elapsedDays
	case swmm.SysRouteStep:
		return routeStepSeconds
	case swmm.GageRainfall:
		return e.rainfall
	case swmm.SubcatchRunoff:
		return e.subcatchRunoff
	}
	switch {
	case prop >= swmm.NodeType && prop <= swmm.NodeOverflow && handle >= 0 && handle < len(e.nodes):
		n := &e.nodes[handle]
		switch prop {
		case swmm.NodeDepth:
			return n.depth
		case swmm.NodeVolume:
			return n.volume
		case swmm.NodeLatFlow:
			return n.latFlow
		case swmm.NodeInflow:
			return n.inflow
		}
	case prop >= swmm.LinkType && prop <= swmm.LinkTopWidth && handle >= 0 && handle < len(e.links):
		l := &e.links[handle]
		switch prop {
		case swmm.LinkFlow:
			return l.flow
		case swmm.LinkSetting:
			return l.setting
		}
	}
	return 0
}

// SetValue writes a property channel.
func (e *Engine) SetValue(prop swmm.Property, handle int, value float64) {
	switch prop {
	case swmm.GageRainfall:
		e.rainfall = value
	case swmm.NodeLatFlow:
		if handle >= 0 && handle < len(e.nodes) {
			e.nodes[handle].latFlow = value
		}
	case swmm.LinkSetting:
		if handle >= 0 && handle < len(e.links) {
			e.links[handle].setting = value
		}
	}
}

// LastError returns the most recent error message.
func (e *Engine) LastError() string { return e.lastErr }

// LidUnitCount implements the LID extension.
func (e *Engine) LidUnitCount(subcatchHandle int) int {
	if subcatchHandle != 0 {
		e.lastErr = fmt.Sprintf("invalid subcatchment index %d", subcatchHandle)
		return -1
	}
	return len(e.lids)
}

// LidUnitName implements the LID extension.
func (e *Engine) LidUnitName(subcatchHandle, lidIndex int) string {
	if subcatchHandle != 0 || lidIndex < 0 || lidIndex >= len(e.lids) {
		return ""
	}
	return e.lids[lidIndex].name
}

// LidStorageVolume implements the LID extension.
func (e *Engine) LidStorageVolume(subcatchHandle, lidIndex int) float64 {
	if subcatchHandle != 0 || lidIndex < 0 || lidIndex >= len(e.lids) {
		return 0
	}
	return e.lids[lidIndex].storage
}

// LidSurfaceInflow implements the LID extension.
func (e *Engine) LidSurfaceInflow(subcatchHandle, lidIndex int) float64 {
	if subcatchHandle != 0 || lidIndex < 0 || lidIndex >= len(e.lids) {
		return 0
	}
	return e.lids[lidIndex].inflow
}

// LidSurfaceOutflow implements the LID extension.
func (e *Engine) LidSurfaceOutflow(subcatchHandle, lidIndex int) float64 {
	if subcatchHandle != 0 || lidIndex < 0 || lidIndex >= len(e.lids) {
		return 0
	}
	return e.lids[lidIndex].outflow
}

var (
	_ swmm.API    = (*Engine)(nil)
	_ swmm.LidAPI = (*Engine)(nil)
)
