// Package systemd probes and toggles the service units that compete for the
// sched_ext hook.
package systemd

import (
	"context"
	"errors"
)

// ErrUnitAction is returned when an enable, disable, start or stop request
// does not complete.
var ErrUnitAction = errors.New("unit action failed")

// Units controls systemd units. Probes never fail: any error reads as
// false.
type Units interface {
	IsEnabled(ctx context.Context, unit string) bool
	IsActive(ctx context.Context, unit string) bool

	Enable(ctx context.Context, unit string) error
	// Disable removes the unit from boot; with now it is also stopped.
	Disable(ctx context.Context, unit string, now bool) error
	Start(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
}

// Backend names accepted by New.
const (
	BackendSystemctl = "systemctl"
	BackendDBus      = "dbus"
)
