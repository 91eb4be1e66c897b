// Package fake provides recording test doubles for the collaborators of
// the reconciliation engine.
package fake

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
	"github.com/scxmgr/scxmgr/internal/cmn/fileutil"
	"github.com/scxmgr/scxmgr/internal/elevate"
	"github.com/scxmgr/scxmgr/internal/loader"
	"github.com/scxmgr/scxmgr/internal/scx"
	"github.com/scxmgr/scxmgr/internal/systemd"
)

// Loader is an in-memory loader.Client. A successful switch updates the
// reported current scheduler and mode.
type Loader struct {
	mu sync.Mutex

	Supported []string
	Current   string
	Mode      scx.Mode

	// Err fails every call when set; per-method errors take precedence.
	Err       error
	SwitchErr error
	StopErr   error

	Calls []string
}

var _ loader.Client = (*Loader)(nil)

// NewLoader returns a Loader advertising every known scheduler.
func NewLoader() *Loader {
	l := &Loader{Current: "unknown"}
	for _, s := range scx.Schedulers() {
		l.Supported = append(l.Supported, s.String())
	}
	return l
}

func (l *Loader) record(call string) {
	l.Calls = append(l.Calls, call)
}

func (l *Loader) SupportedSchedulers(context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("SupportedSchedulers")
	if l.Err != nil {
		return nil, l.Err
	}
	return slices.Clone(l.Supported), nil
}

func (l *Loader) CurrentScheduler(context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CurrentScheduler")
	if l.Err != nil {
		return "", l.Err
	}
	return l.Current, nil
}

func (l *Loader) CurrentMode(context.Context) (scx.Mode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("CurrentMode")
	if l.Err != nil {
		return 0, l.Err
	}
	return l.Mode, nil
}

func (l *Loader) SwitchScheduler(_ context.Context, s scx.Scheduler, m scx.Mode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(fmt.Sprintf("SwitchScheduler %s %d", s, m.Code()))
	if err := l.switchErr(); err != nil {
		return err
	}
	l.Current, l.Mode = s.String(), m
	return nil
}

func (l *Loader) SwitchSchedulerWithArgs(_ context.Context, s scx.Scheduler, args []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(fmt.Sprintf("SwitchSchedulerWithArgs %s [%s]", s, strings.Join(args, " ")))
	if err := l.switchErr(); err != nil {
		return err
	}
	l.Current, l.Mode = s.String(), scx.Auto
	return nil
}

func (l *Loader) StopScheduler(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("StopScheduler")
	if l.StopErr != nil {
		return l.StopErr
	}
	if l.Err != nil {
		return l.Err
	}
	l.Current = "unknown"
	return nil
}

func (l *Loader) switchErr() error {
	if l.SwitchErr != nil {
		return l.SwitchErr
	}
	return l.Err
}

// Count returns how many recorded calls start with prefix.
func (l *Loader) Count(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Units is an in-memory systemd.Units keyed by unit name.
type Units struct {
	mu sync.Mutex

	Enabled map[string]bool
	Active  map[string]bool
	// ActionErr fails every action when set.
	ActionErr error

	Actions []string
}

var _ systemd.Units = (*Units)(nil)

func NewUnits() *Units {
	return &Units{Enabled: map[string]bool{}, Active: map[string]bool{}}
}

func (u *Units) IsEnabled(_ context.Context, unit string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Enabled[unit]
}

func (u *Units) IsActive(_ context.Context, unit string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.Active[unit]
}

func (u *Units) Enable(_ context.Context, unit string) error {
	return u.act("enable "+unit, func() { u.Enabled[unit] = true })
}

func (u *Units) Disable(_ context.Context, unit string, now bool) error {
	name := "disable " + unit
	if now {
		name = "disable --now " + unit
	}
	return u.act(name, func() {
		u.Enabled[unit] = false
		if now {
			u.Active[unit] = false
		}
	})
}

func (u *Units) Start(_ context.Context, unit string) error {
	return u.act("start "+unit, func() { u.Active[unit] = true })
}

func (u *Units) Stop(_ context.Context, unit string) error {
	return u.act("stop "+unit, func() { u.Active[unit] = false })
}

func (u *Units) act(name string, apply func()) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Actions = append(u.Actions, name)
	if u.ActionErr != nil {
		return u.ActionErr
	}
	apply()
	return nil
}

// Copier records privileged copies and performs them with a plain copy.
type Copier struct {
	mu sync.Mutex

	Err    error
	Copies [][2]string
}

var _ elevate.Copier = (*Copier)(nil)

func (c *Copier) Copy(_ context.Context, src, dst string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Copies = append(c.Copies, [2]string{src, dst})
	if c.Err != nil {
		return fmt.Errorf("%w: %w", elevate.ErrPrivilegedCopy, c.Err)
	}
	return fileutil.CopyFile(src, dst)
}

// Runner is a scripted cmdutil.Runner.
type Runner struct {
	mu sync.Mutex

	Outputs map[string]string
	ExecErr error

	Runs  []string
	Execs []string
}

var _ cmdutil.Runner = (*Runner)(nil)

func (r *Runner) Run(_ context.Context, command string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Runs = append(r.Runs, command)
	if out, ok := r.Outputs[command]; ok {
		return out
	}
	return cmdutil.Sentinel
}

func (r *Runner) Exec(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Execs = append(r.Execs, strings.Join(append([]string{name}, args...), " "))
	return r.ExecErr
}
