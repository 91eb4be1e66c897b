// Package elevate copies files into locations the current user cannot
// write, delegating authorization to an external elevation tool.
package elevate

import (
	"context"
	"errors"
	"fmt"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
)

// ErrPrivilegedCopy is returned when the elevated copy did not happen.
var ErrPrivilegedCopy = errors.New("privileged copy failed")

// Default tool locations.
const (
	DefaultPkexec = "/usr/bin/pkexec"
	DefaultCp     = "/usr/bin/cp"
)

// Copier places src at dst with elevated privileges.
type Copier interface {
	Copy(ctx context.Context, src, dst string) error
}

// Pkexec runs `pkexec cp src dst`. The polkit agent prompts the user when
// authorization is required.
type Pkexec struct {
	runner cmdutil.Runner
	pkexec string
	cp     string
}

var _ Copier = (*Pkexec)(nil)

// NewPkexec returns a Copier using the given binaries; empty paths select
// the defaults.
func NewPkexec(runner cmdutil.Runner, pkexec, cp string) *Pkexec {
	if pkexec == "" {
		pkexec = DefaultPkexec
	}
	if cp == "" {
		cp = DefaultCp
	}
	return &Pkexec{runner: runner, pkexec: pkexec, cp: cp}
}

func (p *Pkexec) Copy(ctx context.Context, src, dst string) error {
	if err := p.runner.Exec(ctx, p.pkexec, p.cp, src, dst); err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrPrivilegedCopy, src, dst, err)
	}
	return nil
}
