package systemd

import (
	"context"
	"fmt"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
)

// DefaultSystemctl is the systemctl binary used when none is configured.
const DefaultSystemctl = "/usr/bin/systemctl"

// Systemctl drives units through the systemctl command line.
type Systemctl struct {
	runner cmdutil.Runner
	path   string
}

var _ Units = (*Systemctl)(nil)

// NewSystemctl returns a backend that runs path with runner.
func NewSystemctl(runner cmdutil.Runner, path string) *Systemctl {
	if path == "" {
		path = DefaultSystemctl
	}
	return &Systemctl{runner: runner, path: path}
}

func (s *Systemctl) IsEnabled(ctx context.Context, unit string) bool {
	return s.probe(ctx, "is-enabled", unit) == "enabled"
}

func (s *Systemctl) IsActive(ctx context.Context, unit string) bool {
	return s.probe(ctx, "is-active", unit) == "active"
}

func (s *Systemctl) Enable(ctx context.Context, unit string) error {
	return s.exec(ctx, "enable", "-f", unit)
}

func (s *Systemctl) Disable(ctx context.Context, unit string, now bool) error {
	if now {
		return s.exec(ctx, "disable", "--now", "-f", unit)
	}
	return s.exec(ctx, "disable", "-f", unit)
}

func (s *Systemctl) Start(ctx context.Context, unit string) error {
	return s.exec(ctx, "start", unit)
}

func (s *Systemctl) Stop(ctx context.Context, unit string) error {
	return s.exec(ctx, "stop", "-f", unit)
}

// probe returns the single-word state systemctl prints, or the runner
// sentinel.
func (s *Systemctl) probe(ctx context.Context, verb, unit string) string {
	return s.runner.Run(ctx, cmdutil.JoinFlags([]string{s.path, verb, unit}))
}

func (s *Systemctl) exec(ctx context.Context, args ...string) error {
	if err := s.runner.Exec(ctx, s.path, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrUnitAction, err)
	}
	return nil
}
