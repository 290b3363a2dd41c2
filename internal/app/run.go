package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
	"github.com/specialistvlad/swmmbridge/internal/resolve"
	"github.com/specialistvlad/swmmbridge/internal/xf"
)

// Run executes the configured harness mode: dry-run mapping validation or
// the scripted driver loop.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.cfg.DryRun {
		return a.dryRun(ctx)
	}
	return a.driveLoop(ctx)
}

// dryRun loads and validates the mapping, resolves it against the engine and
// prints the binding table without running an exchange loop.
func (a *App) dryRun(ctx context.Context) error {
	mapping, err := a.loader.Load(ctx, a.cfg.MappingPath)
	if err != nil {
		return err
	}
	if err := mapping.Validate(); err != nil {
		return err
	}

	if code := a.engine.Open(a.cfg.ModelPath, "", ""); code != 0 {
		return fmt.Errorf("engine open failed: %s", a.engine.LastError())
	}
	defer a.engine.Close()
	if code := a.engine.Start(false); code != 0 {
		return fmt.Errorf("engine start failed: %s", a.engine.LastError())
	}
	defer a.engine.End()

	bindings, err := resolve.Resolve(ctx, a.engine, mapping)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "mapping %s: %d inputs, %d outputs\n",
		a.cfg.MappingPath, len(bindings.Inputs), len(bindings.Outputs))
	for _, b := range bindings.Inputs {
		fmt.Fprintf(a.outW, "  in  slot %-3d %-30s handle=%d\n", b.Slot, b.Name, b.Handle)
	}
	for _, b := range bindings.Outputs {
		if b.Kind == resolve.BindLid {
			fmt.Fprintf(a.outW, "  out slot %-3d %-30s handle=%d sub=%d\n", b.Slot, b.Name, b.Handle, b.SubHandle)
			continue
		}
		fmt.Fprintf(a.outW, "  out slot %-3d %-30s handle=%d\n", b.Slot, b.Name, b.Handle)
	}
	return nil
}

// driveLoop plays the driver: report version and argument counts, initialize,
// run the requested number of exchanges, clean up.
func (a *App) driveLoop(ctx context.Context) error {
	// The mapping is loaded once here only to size the arrays and label the
	// printed outputs; the dispatcher does its own loading.
	mapping, err := a.loader.Load(ctx, a.cfg.MappingPath)
	if err != nil {
		return err
	}
	if err := mapping.Validate(); err != nil {
		return err
	}

	inargs := make([]float64, arraySize(maxSlot(mapping.Inputs, nil)))
	outargs := make([]float64, arraySize(maxSlot(nil, mapping.Outputs)))

	if status := a.dispatcher.Handle(ctx, xf.MethodReportVersion, inargs, outargs); status != xf.StatusSuccess {
		return fmt.Errorf("ReportVersion returned status %d", status)
	}
	fmt.Fprintf(a.outW, "bridge version %.2f\n", outargs[0])

	if status := a.dispatcher.Handle(ctx, xf.MethodReportArguments, inargs, outargs); status != xf.StatusSuccess {
		return a.statusErr("ReportArguments", outargs)
	}
	fmt.Fprintf(a.outW, "interface: %.0f inputs, %.0f outputs\n", outargs[0], outargs[1])

	if status := a.dispatcher.Handle(ctx, xf.MethodInitialize, inargs, outargs); status != xf.StatusSuccess {
		return a.statusErr("Initialize", outargs)
	}

	for step := 0; step < a.cfg.Steps; step++ {
		a.fillInputs(mapping, inargs, float64(step)*a.cfg.StepSeconds)
		status := a.dispatcher.Handle(ctx, xf.MethodCalculate, inargs, outargs)
		if status != xf.StatusSuccess {
			return a.statusErr(fmt.Sprintf("Calculate step %d", step), outargs)
		}
		a.printOutputs(mapping, outargs, step)
	}

	if status := a.dispatcher.Handle(ctx, xf.MethodCleanup, inargs, outargs); status != xf.StatusSuccess {
		return a.statusErr("Cleanup", outargs)
	}
	return nil
}

// fillInputs populates the driver array: elapsed time into SYSTEM slots,
// constant rainfall into GAGE slots, zeros elsewhere.
func (a *App) fillInputs(mapping *config.Mapping, inargs []float64, elapsedSeconds float64) {
	for _, rec := range mapping.Inputs {
		if rec.Slot >= len(inargs) {
			continue
		}
		switch rec.ObjectType {
		case "SYSTEM":
			inargs[rec.Slot] = elapsedSeconds
		case "GAGE":
			inargs[rec.Slot] = a.cfg.Rainfall
		default:
			inargs[rec.Slot] = 0
		}
	}
}

func (a *App) printOutputs(mapping *config.Mapping, outargs []float64, step int) {
	fmt.Fprintf(a.outW, "step %-4d", step)
	for _, rec := range mapping.Outputs {
		if rec.Slot < len(outargs) {
			fmt.Fprintf(a.outW, "  %s=%.4f", rec.Name, outargs[rec.Slot])
		}
	}
	fmt.Fprintln(a.outW)
}

// statusErr recovers the smuggled diagnostic, if any, into a normal error.
func (a *App) statusErr(operation string, outargs []float64) error {
	if msg := xf.DecodeErrorMessage(outargs); msg != "" {
		return fmt.Errorf("%s failed:\n%s", operation, msg)
	}
	return fmt.Errorf("%s failed", operation)
}

func maxSlot(inputs []config.InputRecord, outputs []config.OutputRecord) int {
	max := 0
	for _, r := range inputs {
		if r.Slot > max {
			max = r.Slot
		}
	}
	for _, r := range outputs {
		if r.Slot > max {
			max = r.Slot
		}
	}
	return max
}

// arraySize leaves room for the two ReportArguments values and the message
// address slot even with a single-value mapping.
func arraySize(max int) int {
	if max < 1 {
		max = 1
	}
	return max + 1
}
