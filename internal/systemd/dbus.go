package systemd

import (
	"context"
	"fmt"
	"strings"

	sd "github.com/coreos/go-systemd/v22/dbus"
)

// managerConn is the part of the systemd manager API the backend uses.
type managerConn interface {
	GetUnitPropertyContext(ctx context.Context, unit string, propertyName string) (*sd.Property, error)
	EnableUnitFilesContext(ctx context.Context, files []string, runtime bool, force bool) (bool, []sd.EnableUnitFileChange, error)
	DisableUnitFilesContext(ctx context.Context, files []string, runtime bool) ([]sd.DisableUnitFileChange, error)
	StartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	ReloadContext(ctx context.Context) error
	Close()
}

// DBus drives units through the systemd manager on the system bus. Like
// the loader client it opens one connection per operation.
type DBus struct {
	dial func(ctx context.Context) (managerConn, error)
}

var _ Units = (*DBus)(nil)

// NewDBus returns a backend connected to the system manager.
func NewDBus() *DBus {
	return &DBus{dial: func(ctx context.Context) (managerConn, error) {
		return sd.NewSystemConnectionContext(ctx)
	}}
}

func (d *DBus) IsEnabled(ctx context.Context, unit string) bool {
	return d.property(ctx, unit, "UnitFileState") == "enabled"
}

func (d *DBus) IsActive(ctx context.Context, unit string) bool {
	return d.property(ctx, unit, "ActiveState") == "active"
}

func (d *DBus) Enable(ctx context.Context, unit string) error {
	return d.with(ctx, "enable", unit, func(conn managerConn) error {
		if _, _, err := conn.EnableUnitFilesContext(ctx, []string{serviceName(unit)}, false, true); err != nil {
			return err
		}
		return conn.ReloadContext(ctx)
	})
}

func (d *DBus) Disable(ctx context.Context, unit string, now bool) error {
	return d.with(ctx, "disable", unit, func(conn managerConn) error {
		if _, err := conn.DisableUnitFilesContext(ctx, []string{serviceName(unit)}, false); err != nil {
			return err
		}
		if err := conn.ReloadContext(ctx); err != nil {
			return err
		}
		if now {
			return waitJob(ctx, func(ch chan<- string) (int, error) {
				return conn.StopUnitContext(ctx, serviceName(unit), "replace", ch)
			})
		}
		return nil
	})
}

func (d *DBus) Start(ctx context.Context, unit string) error {
	return d.with(ctx, "start", unit, func(conn managerConn) error {
		return waitJob(ctx, func(ch chan<- string) (int, error) {
			return conn.StartUnitContext(ctx, serviceName(unit), "replace", ch)
		})
	})
}

func (d *DBus) Stop(ctx context.Context, unit string) error {
	return d.with(ctx, "stop", unit, func(conn managerConn) error {
		return waitJob(ctx, func(ch chan<- string) (int, error) {
			return conn.StopUnitContext(ctx, serviceName(unit), "replace", ch)
		})
	})
}

// property returns a unit property as a string, or "" on any failure.
func (d *DBus) property(ctx context.Context, unit, name string) string {
	conn, err := d.dial(ctx)
	if err != nil {
		return ""
	}
	defer conn.Close()

	prop, err := conn.GetUnitPropertyContext(ctx, serviceName(unit), name)
	if err != nil || prop == nil {
		return ""
	}
	value, _ := prop.Value.Value().(string)
	return value
}

func (d *DBus) with(ctx context.Context, action, unit string, fn func(managerConn) error) error {
	conn, err := d.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnitAction, action, unit, err)
	}
	defer conn.Close()

	if err := fn(conn); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnitAction, action, unit, err)
	}
	return nil
}

// waitJob enqueues a job and waits for systemd to report its result.
func waitJob(ctx context.Context, enqueue func(ch chan<- string) (int, error)) error {
	ch := make(chan string, 1)
	if _, err := enqueue(ch); err != nil {
		return err
	}
	select {
	case result := <-ch:
		if result != "done" {
			return fmt.Errorf("job finished with result %q", result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serviceName appends ".service" to bare unit names.
func serviceName(unit string) string {
	if strings.Contains(unit, ".") {
		return unit
	}
	return unit + ".service"
}
