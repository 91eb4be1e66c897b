// Package loader talks to the scx_loader service that starts, stops and
// switches sched_ext schedulers.
package loader

import (
	"context"
	"errors"

	"github.com/scxmgr/scxmgr/internal/scx"
)

// ErrRemoteCall is returned when the loader service is unreachable or
// rejects a request.
var ErrRemoteCall = errors.New("loader service call failed")

// Well-known names of the scx_loader D-Bus interface.
const (
	BusName    = "org.scx.Loader"
	ObjectPath = "/org/scx/Loader"
	Interface  = "org.scx.Loader"
)

// Client is the remote surface of the loader service.
type Client interface {
	// SupportedSchedulers lists the scheduler names the service can run.
	SupportedSchedulers(ctx context.Context) ([]string, error)
	// CurrentScheduler returns the running scheduler name, or "unknown".
	CurrentScheduler(ctx context.Context) (string, error)
	// CurrentMode returns the mode of the running scheduler.
	CurrentMode(ctx context.Context) (scx.Mode, error)
	// SwitchScheduler starts s with the flags the service derives from m.
	SwitchScheduler(ctx context.Context, s scx.Scheduler, m scx.Mode) error
	// SwitchSchedulerWithArgs starts s with exactly args.
	SwitchSchedulerWithArgs(ctx context.Context, s scx.Scheduler, args []string) error
	// StopScheduler stops the running scheduler.
	StopScheduler(ctx context.Context) error
}
