package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tugas/internal/config"
	"tugas/internal/controller"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

// clock is replaced in tests.
var clock = time.Now

// newController builds a controller over store with the configured zone and logger.
func newController(cfg *config.Config, store service.Store, dlg controller.Dialog, opts ...controller.Option) *controller.Controller {
	base := []controller.Option{
		controller.WithClock(clock),
		controller.WithLocation(cfg.Loc()),
		controller.WithLogger(cfg.Logger()),
	}
	return controller.New(store, dlg, append(base, opts...)...)
}

// loadController creates a controller, loads the list, and ticks once.
// On failure the error is reported and a non-zero exit code returned.
func loadController(ctx context.Context, cfg *config.Config, store service.Store, dlg controller.Dialog, errOut io.Writer, opts ...controller.Option) (*controller.Controller, int) {
	ctl := newController(cfg, store, dlg, opts...)
	if err := ctl.Load(ctx); err != nil {
		return nil, reportError(errOut, err)
	}
	ctl.Tick(clock())
	return ctl, exitcode.Success
}

// resolveRef finds the task ref points at in the loaded list.
func resolveRef(ctl *controller.Controller, ref TaskRef, errOut io.Writer) (service.Task, bool) {
	task, err := ref.Resolve(ctl.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, false
	}
	return task, true
}

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %v\n", verr)
		return exitcode.UserError
	case errors.Is(err, controller.ErrTaskNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case service.IsAuth(err):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// reportRefError prints a task reference parse error.
func reportRefError(errOut io.Writer, err error) int {
	if err == ErrTaskRefRequired {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// SetClock replaces the clock (for testing). It returns a function that
// restores the previous one.
func SetClock(now func() time.Time) (restore func()) {
	prev := clock
	clock = now
	return func() { clock = prev }
}
