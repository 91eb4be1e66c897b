package loader

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/scxmgr/scxmgr/internal/scx"
)

// Bus selects which message bus the client dials.
type Bus string

const (
	SystemBus  Bus = "system"
	SessionBus Bus = "session"
)

// busConn is the part of *dbus.Conn the client uses.
type busConn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	Close() error
}

type dialFunc func(ctx context.Context) (busConn, error)

// DBusClient implements Client over D-Bus. Every operation opens its own
// connection and closes it before returning.
type DBusClient struct {
	bus  Bus
	dial dialFunc
}

var _ Client = (*DBusClient)(nil)

// NewDBusClient returns a client for the given bus.
func NewDBusClient(bus Bus) (*DBusClient, error) {
	var dial dialFunc
	switch bus {
	case SystemBus, "":
		bus = SystemBus
		dial = func(ctx context.Context) (busConn, error) {
			return dbus.ConnectSystemBus(dbus.WithContext(ctx))
		}
	case SessionBus:
		dial = func(ctx context.Context) (busConn, error) {
			return dbus.ConnectSessionBus(dbus.WithContext(ctx))
		}
	default:
		return nil, fmt.Errorf("unsupported bus %q", bus)
	}
	return &DBusClient{bus: bus, dial: dial}, nil
}

// Bus returns the bus the client dials.
func (c *DBusClient) Bus() Bus { return c.bus }

func (c *DBusClient) SupportedSchedulers(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.property(ctx, "SupportedSchedulers", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *DBusClient) CurrentScheduler(ctx context.Context) (string, error) {
	var name string
	if err := c.property(ctx, "CurrentScheduler", &name); err != nil {
		return "", err
	}
	return name, nil
}

func (c *DBusClient) CurrentMode(ctx context.Context) (scx.Mode, error) {
	var code uint32
	if err := c.property(ctx, "SchedulerMode", &code); err != nil {
		return 0, err
	}
	m, err := scx.ParseModeCode(code)
	if err != nil {
		return 0, fmt.Errorf("%w: SchedulerMode: %w", ErrRemoteCall, err)
	}
	return m, nil
}

func (c *DBusClient) SwitchScheduler(ctx context.Context, s scx.Scheduler, m scx.Mode) error {
	return c.call(ctx, "SwitchScheduler", nil, s.String(), m.Code())
}

func (c *DBusClient) SwitchSchedulerWithArgs(ctx context.Context, s scx.Scheduler, args []string) error {
	if args == nil {
		args = []string{}
	}
	return c.call(ctx, "SwitchSchedulerWithArgs", nil, s.String(), args)
}

func (c *DBusClient) StopScheduler(ctx context.Context) error {
	return c.call(ctx, "StopScheduler", nil)
}

// property reads an org.scx.Loader property into dst.
func (c *DBusClient) property(ctx context.Context, name string, dst any) error {
	var v dbus.Variant
	if err := c.invoke(ctx, "org.freedesktop.DBus.Properties.Get", name, &v, Interface, name); err != nil {
		return err
	}
	if err := dbus.Store([]any{v.Value()}, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRemoteCall, name, err)
	}
	return nil
}

// call invokes an org.scx.Loader method.
func (c *DBusClient) call(ctx context.Context, method string, dst any, args ...any) error {
	return c.invoke(ctx, Interface+"."+method, method, dst, args...)
}

// invoke dials the bus, issues one asynchronous call and waits for it to
// complete or for ctx to end.
func (c *DBusClient) invoke(ctx context.Context, member, label string, dst any, args ...any) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: connect to %s bus: %w", ErrRemoteCall, c.bus, err)
	}
	defer func() { _ = conn.Close() }()

	obj := conn.Object(BusName, ObjectPath)
	pending := obj.GoWithContext(ctx, member, 0, make(chan *dbus.Call, 1), args...)

	var call *dbus.Call
	select {
	case call = <-pending.Done:
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", ErrRemoteCall, label, ctx.Err())
	}
	if call.Err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRemoteCall, label, call.Err)
	}
	if dst != nil {
		if err := call.Store(dst); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRemoteCall, label, err)
		}
	}
	return nil
}
