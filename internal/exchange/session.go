package exchange

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
	"github.com/specialistvlad/swmmbridge/internal/fault"
	"github.com/specialistvlad/swmmbridge/internal/resolve"
	"github.com/specialistvlad/swmmbridge/internal/swmm"
)

// ErrNotRunning is returned by Exchange when no session is running. It is a
// recoverable, driver-caused condition and deliberately not a fault: the
// dispatcher reports it as a plain failure with no message.
var ErrNotRunning = errors.New("exchange: session not running")

// Paths names the three engine files for one session.
type Paths struct {
	Input  string // model .inp, in the driver's working directory
	Report string
	Output string
}

// Session drives one co-simulation run against one engine instance. It is an
// explicit value so tests (and, if ever needed, multiple models in one
// process) can hold independent sessions; nothing in here is global.
type Session struct {
	engine swmm.API
	paths  Paths

	running  bool
	bindings *resolve.Bindings

	// pending holds one buffered value per input binding, in binding order.
	// On exchange k the engine receives pending (the inputs supplied on
	// exchange k-1), then pending is overwritten with the inputs from k.
	pending   []float64
	firstDone bool
}

// NewSession creates a session around an engine. The engine must be in its
// closed state.
func NewSession(engine swmm.API, paths Paths) *Session {
	return &Session{engine: engine, paths: paths}
}

// Running reports whether the engine is opened and started.
func (s *Session) Running() bool { return s.running }

// Initialize opens and starts the engine and resolves the mapping into live
// bindings. A prior running session is torn down first, so re-entrant-style
// Initialize calls from the driver cannot leak engine resources. On any
// failure the engine is fully closed again and no session state survives.
func (s *Session) Initialize(ctx context.Context, m *config.Mapping) error {
	logger := ctxlog.FromContext(ctx)

	if s.running {
		logger.Debug("session already running, tearing down before re-initialize")
		if err := s.Cleanup(ctx); err != nil {
			return err
		}
	}

	if err := validateModelFile(s.paths.Input, m.ModelHash); err != nil {
		return err
	}

	logger.Debug("opening engine model",
		"input", s.paths.Input, "report", s.paths.Report, "output", s.paths.Output)
	if code := s.engine.Open(s.paths.Input, s.paths.Report, s.paths.Output); code != 0 {
		return fault.Engine("open", s.engine.LastError())
	}
	if code := s.engine.Start(true); code != 0 {
		s.engine.Close()
		return fault.Engine("start", s.engine.LastError())
	}

	// Handles are only valid once the model is loaded and started, so
	// resolution has to happen here rather than at mapping load time.
	bindings, err := resolve.Resolve(ctx, s.engine, m)
	if err != nil {
		s.engine.End()
		s.engine.Close()
		return err
	}

	s.bindings = bindings
	s.pending = make([]float64, len(bindings.Inputs))
	s.firstDone = false
	s.running = true

	logger.Info("session initialized",
		"inputs", len(bindings.Inputs), "outputs", len(bindings.Outputs))
	return nil
}

// Exchange performs one driver call: push inputs, maybe step, pull outputs.
//
// The first exchange of a session reports the engine's initial condition: no
// step is taken, outputs are read at time zero, and the supplied inputs are
// only remembered for the next exchange. Every later exchange applies the
// previously remembered inputs, advances the engine one internal step, then
// reads outputs and remembers the inputs just supplied.
//
// When the engine signals normal termination the session is torn down and
// Exchange returns nil with the outputs zeroed.
func (s *Session) Exchange(ctx context.Context, inargs, outargs []float64) error {
	if !s.running {
		return ErrNotRunning
	}
	logger := ctxlog.FromContext(ctx)

	if !s.firstDone {
		s.readOutputs(outargs)
		s.stashInputs(inargs)
		s.firstDone = true
		logger.Debug("first exchange: reported initial condition, no step taken")
		return nil
	}

	for i := range s.bindings.Inputs {
		b := &s.bindings.Inputs[i]
		b.Apply(s.engine, s.pending[i])
	}

	elapsed, result := s.engine.Step()
	switch result {
	case swmm.StepError:
		// The engine's internal state is suspect now, but the session stays
		// formally running so a later Cleanup still ends and closes it.
		return fault.Engine("step", s.engine.LastError())
	case swmm.StepEnded:
		logger.Info("engine reported normal termination", "elapsed_days", elapsed)
		s.zeroOutputs(outargs)
		return s.Cleanup(ctx)
	}

	s.readOutputs(outargs)
	s.stashInputs(inargs)
	logger.Debug("exchange complete", "elapsed_days", elapsed)
	return nil
}

// Cleanup ends and closes the engine and discards all session state. It is
// idempotent: with no running session it succeeds trivially. The session is
// left closed even when the engine reports an end/close error; the error is
// still surfaced so the driver sees it.
func (s *Session) Cleanup(ctx context.Context) error {
	if !s.running {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	endCode := s.engine.End()
	closeCode := s.engine.Close()

	s.running = false
	s.bindings = nil
	s.pending = nil
	s.firstDone = false

	if endCode != 0 {
		return fault.Engine("end", s.engine.LastError())
	}
	if closeCode != 0 {
		return fault.Engine("close", s.engine.LastError())
	}
	logger.Debug("session closed")
	return nil
}

func (s *Session) readOutputs(outargs []float64) {
	for i := range s.bindings.Outputs {
		b := &s.bindings.Outputs[i]
		if b.Slot < len(outargs) {
			outargs[b.Slot] = b.Read(s.engine)
		}
	}
}

func (s *Session) stashInputs(inargs []float64) {
	for i := range s.bindings.Inputs {
		slot := s.bindings.Inputs[i].Slot
		if slot < len(inargs) {
			s.pending[i] = inargs[slot]
		}
	}
}

func (s *Session) zeroOutputs(outargs []float64) {
	for i := range s.bindings.Outputs {
		slot := s.bindings.Outputs[i].Slot
		if slot < len(outargs) {
			outargs[slot] = 0
		}
	}
}

// validateModelFile rejects a missing or directory model path before the
// engine sees it, and checks the mapping's model hash when one is recorded.
func validateModelFile(path, wantHash string) error {
	if path == "" {
		return fault.New(fault.KindConfiguration,
			"Input file path is not provided",
			"File path is empty",
			"Ensure the input file path is specified in the model configuration")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fault.Newf(fault.KindConfiguration,
			"Input file does not exist",
			"Verify the file path is correct and the file exists",
			"File path '%s'", path)
	}
	if info.IsDir() {
		return fault.Newf(fault.KindConfiguration,
			"Input file path is a directory",
			"Provide a file path, not a directory path",
			"Path '%s'", path)
	}

	if wantHash == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fault.Newf(fault.KindConfiguration,
			"Input file is not readable",
			"Check the file permissions",
			"File path '%s': %v", path, err)
	}
	got := sha256.Sum256(data)
	gotHex := hex.EncodeToString(got[:])
	if !strings.EqualFold(gotHex, wantHash) {
		return fault.Newf(fault.KindConfiguration,
			"Model file does not match the mapping",
			"Regenerate the mapping file against the current model",
			"File '%s' has hash %s, mapping expects %s",
			path, abbrevHash(gotHex), abbrevHash(wantHash))
	}
	return nil
}

func abbrevHash(h string) string {
	if len(h) > 12 {
		return fmt.Sprintf("%s…", h[:12])
	}
	return h
}
