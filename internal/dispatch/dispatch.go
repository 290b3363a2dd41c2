// Package dispatch routes the driver's method selector to the bridge
// operations and translates their results into the numeric status protocol.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
	"github.com/specialistvlad/swmmbridge/internal/exchange"
	"github.com/specialistvlad/swmmbridge/internal/fault"
	"github.com/specialistvlad/swmmbridge/internal/xf"
)

// Version is reported to the driver by ReportVersion. The 1.x line is the
// lagged-exchange protocol.
const Version = 1.10

// Dispatcher owns one session and the mapping (re)load policy around it.
type Dispatcher struct {
	loader      config.Loader
	mappingPath string
	session     *exchange.Session

	// level, when non-nil, is retargeted by the mapping file's
	// logging_level attribute on every Initialize.
	level *slog.LevelVar

	mapping *config.Mapping
}

// New creates a dispatcher. level may be nil if the caller does not want
// mapping-driven verbosity.
func New(loader config.Loader, mappingPath string, session *exchange.Session, level *slog.LevelVar) *Dispatcher {
	return &Dispatcher{
		loader:      loader,
		mappingPath: mappingPath,
		session:     session,
		level:       level,
	}
}

// Handle executes one driver call and returns the status code. inargs and
// outargs are the driver's flat value arrays; on StatusFailureWithMessage the
// first output slot carries the encoded diagnostic address (see package xf).
func (d *Dispatcher) Handle(ctx context.Context, method int, inargs, outargs []float64) int {
	logger := ctxlog.With(ctx, "method", method)

	switch method {
	case xf.MethodInitialize:
		return d.handleInitialize(ctx, outargs)
	case xf.MethodCalculate:
		return d.handleCalculate(ctx, inargs, outargs)
	case xf.MethodReportVersion:
		if len(outargs) > 0 {
			outargs[0] = Version
		}
		return xf.StatusSuccess
	case xf.MethodReportArguments:
		return d.handleReportArguments(ctx, outargs)
	case xf.MethodCleanup:
		return d.handleCleanup(ctx, outargs)
	default:
		logger.Warn("unknown method selector")
		return xf.StatusFailure
	}
}

func (d *Dispatcher) handleInitialize(ctx context.Context, outargs []float64) int {
	logger := ctxlog.FromContext(ctx)
	logger.Info("initialize requested", "bridge_version", Version)

	// The mapping is reloaded on every Initialize so a regenerated file is
	// picked up without reloading the host process.
	mapping, err := d.loadMapping(ctx)
	if err != nil {
		return d.failWithMessage(ctx, outargs, err)
	}
	d.mapping = mapping
	d.applyLogLevel(ctx, mapping.LogLevel)

	if err := d.session.Initialize(ctx, mapping); err != nil {
		return d.failWithMessage(ctx, outargs, err)
	}
	logger.Info("initialize successful")
	return xf.StatusSuccess
}

func (d *Dispatcher) handleCalculate(ctx context.Context, inargs, outargs []float64) int {
	if d.mapping == nil {
		mapping, err := d.loadMapping(ctx)
		if err != nil {
			return d.failWithMessage(ctx, outargs, err)
		}
		d.mapping = mapping
	}

	err := d.session.Exchange(ctx, inargs, outargs)
	if err == nil {
		return xf.StatusSuccess
	}
	if errors.Is(err, exchange.ErrNotRunning) {
		// Driver-caused and recoverable: no message channel involvement.
		ctxlog.FromContext(ctx).Debug("calculate before initialize")
		return xf.StatusFailure
	}
	return d.failWithMessage(ctx, outargs, err)
}

func (d *Dispatcher) handleReportArguments(ctx context.Context, outargs []float64) int {
	if d.mapping == nil {
		mapping, err := d.loadMapping(ctx)
		if err != nil {
			return d.failWithMessage(ctx, outargs, err)
		}
		d.mapping = mapping
	}
	if len(outargs) > 1 {
		outargs[0] = float64(d.mapping.InputCount())
		outargs[1] = float64(d.mapping.OutputCount())
	}
	return xf.StatusSuccess
}

func (d *Dispatcher) handleCleanup(ctx context.Context, outargs []float64) int {
	logger := ctxlog.FromContext(ctx)
	// The mapping is discarded with the session; the next run reloads it.
	d.mapping = nil

	if err := d.session.Cleanup(ctx); err != nil {
		return d.failWithMessage(ctx, outargs, err)
	}
	logger.Info("cleanup successful")
	return xf.StatusSuccess
}

func (d *Dispatcher) loadMapping(ctx context.Context) (*config.Mapping, error) {
	mapping, err := d.loader.Load(ctx, d.mappingPath)
	if err != nil {
		return nil, err
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// failWithMessage renders err through the error channel and returns the
// message-carrying status code.
func (d *Dispatcher) failWithMessage(ctx context.Context, outargs []float64, err error) int {
	var msg string
	if f, ok := fault.As(err); ok {
		msg = f.Render()
	} else {
		// Non-fault errors should not reach here, but the driver still
		// deserves a readable message if one does.
		msg = "Error: Bridge internal error\nContext: " + err.Error() +
			"\nSuggestion: Check the bridge log for details"
	}
	ctxlog.FromContext(ctx).Error("bridge call failed", "error", err)
	xf.SetErrorMessage(outargs, msg)
	return xf.StatusFailureWithMessage
}

func (d *Dispatcher) applyLogLevel(ctx context.Context, levelStr string) {
	if d.level == nil || levelStr == "" {
		return
	}
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		d.level.Set(slog.LevelDebug)
	case "INFO":
		d.level.Set(slog.LevelInfo)
	case "WARN", "WARNING":
		d.level.Set(slog.LevelWarn)
	case "ERROR":
		d.level.Set(slog.LevelError)
	default:
		ctxlog.FromContext(ctx).Warn("unrecognized logging_level in mapping, keeping current level",
			"logging_level", levelStr)
	}
}
