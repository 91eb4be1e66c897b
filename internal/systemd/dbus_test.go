package systemd

import (
	"context"
	"errors"
	"testing"

	sd "github.com/coreos/go-systemd/v22/dbus"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	props     map[string]string
	calls     []string
	jobResult string
	failOn    string
	closes    int
}

func (m *fakeManager) record(call string) error {
	m.calls = append(m.calls, call)
	if call == m.failOn {
		return errors.New("access denied")
	}
	return nil
}

func (m *fakeManager) GetUnitPropertyContext(_ context.Context, unit, name string) (*sd.Property, error) {
	value, ok := m.props[unit+"/"+name]
	if !ok {
		return nil, errors.New("no such unit")
	}
	return &sd.Property{Name: name, Value: dbus.MakeVariant(value)}, nil
}

func (m *fakeManager) EnableUnitFilesContext(_ context.Context, files []string, runtime, force bool) (bool, []sd.EnableUnitFileChange, error) {
	if runtime || !force {
		return false, nil, errors.New("unexpected flags")
	}
	return false, nil, m.record("enable " + files[0])
}

func (m *fakeManager) DisableUnitFilesContext(_ context.Context, files []string, _ bool) ([]sd.DisableUnitFileChange, error) {
	return nil, m.record("disable " + files[0])
}

func (m *fakeManager) StartUnitContext(_ context.Context, name, mode string, ch chan<- string) (int, error) {
	return m.job("start "+name+" "+mode, ch)
}

func (m *fakeManager) StopUnitContext(_ context.Context, name, mode string, ch chan<- string) (int, error) {
	return m.job("stop "+name+" "+mode, ch)
}

func (m *fakeManager) job(call string, ch chan<- string) (int, error) {
	if err := m.record(call); err != nil {
		return 0, err
	}
	result := m.jobResult
	if result == "" {
		result = "done"
	}
	ch <- result
	return 1, nil
}

func (m *fakeManager) ReloadContext(context.Context) error {
	return m.record("reload")
}

func (m *fakeManager) Close() { m.closes++ }

func newFakeDBus(m *fakeManager) *DBus {
	return &DBus{dial: func(context.Context) (managerConn, error) { return m, nil }}
}

func TestDBus_Probes(t *testing.T) {
	t.Parallel()

	m := &fakeManager{props: map[string]string{
		"scx.service/UnitFileState":        "enabled",
		"scx.service/ActiveState":          "failed",
		"scx_loader.service/UnitFileState": "disabled",
		"scx_loader.service/ActiveState":   "active",
	}}
	units := newFakeDBus(m)
	ctx := context.Background()

	assert.True(t, units.IsEnabled(ctx, "scx"))
	assert.False(t, units.IsActive(ctx, "scx"))
	assert.False(t, units.IsEnabled(ctx, "scx_loader.service"))
	assert.True(t, units.IsActive(ctx, "scx_loader"))
	assert.False(t, units.IsEnabled(ctx, "missing"))
	assert.Equal(t, 5, m.closes)
}

func TestDBus_Actions(t *testing.T) {
	t.Parallel()

	m := &fakeManager{}
	units := newFakeDBus(m)
	ctx := context.Background()

	require.NoError(t, units.Disable(ctx, "scx", true))
	require.NoError(t, units.Stop(ctx, "scx"))
	require.NoError(t, units.Enable(ctx, "scx_loader"))
	require.NoError(t, units.Start(ctx, "scx_loader"))

	assert.Equal(t, []string{
		"disable scx.service",
		"reload",
		"stop scx.service replace",
		"stop scx.service replace",
		"enable scx_loader.service",
		"reload",
		"start scx_loader.service replace",
	}, m.calls)
}

func TestDBus_Failures(t *testing.T) {
	t.Parallel()

	t.Run("Call", func(t *testing.T) {
		t.Parallel()
		m := &fakeManager{failOn: "enable scx_loader.service"}
		err := newFakeDBus(m).Enable(context.Background(), "scx_loader")
		require.ErrorIs(t, err, ErrUnitAction)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("JobResult", func(t *testing.T) {
		t.Parallel()
		m := &fakeManager{jobResult: "failed"}
		err := newFakeDBus(m).Stop(context.Background(), "scx")
		require.ErrorIs(t, err, ErrUnitAction)
		assert.Contains(t, err.Error(), `"failed"`)
	})

	t.Run("Dial", func(t *testing.T) {
		t.Parallel()
		units := &DBus{dial: func(context.Context) (managerConn, error) { return nil, errors.New("no bus") }}
		require.ErrorIs(t, units.Start(context.Background(), "scx_loader"), ErrUnitAction)
		assert.False(t, units.IsActive(context.Background(), "scx_loader"))
	})
}
