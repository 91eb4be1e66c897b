package reconcile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
	"github.com/scxmgr/scxmgr/internal/scx"
)

// LegacyAction records what Apply did to the conflicting service.
type LegacyAction string

const (
	LegacyUntouched LegacyAction = "untouched"
	LegacyDisabled  LegacyAction = "disabled"
	LegacyStopped   LegacyAction = "stopped"
)

// ApplyResult describes the side effects of a successful Apply.
type ApplyResult struct {
	OpID      string
	Scheduler scx.Scheduler
	Mode      scx.Mode
	// Args are the arguments the scheduler was switched with.
	Args []string
	// ByMode is true when the loader was asked to derive the arguments
	// from the mode itself.
	ByMode bool
	// OverrideStored is true when Args were saved as the per-mode override.
	OverrideStored bool
	Legacy         LegacyAction
	// SupervisorEnabled is true when the loader unit had to be enabled.
	SupervisorEnabled bool
	// SwitchErr holds the remote failure of the live switch, if any. It
	// does not fail the operation.
	SwitchErr error
}

// Apply makes name in the mode with code modeCode the running and the
// boot-time scheduler, and installs the updated document at finalPath.
//
// Blank extraFlags select the arguments currently resolved for the mode.
// Otherwise the flags are tokenized like a shell command line; when the
// tokens equal the resolved arguments the loader switches by mode and no
// override is stored, else it switches with the explicit tokens and they
// become the override for that scheduler and mode.
//
// A failed live switch is logged and reported in the result. Failures to
// write or install the document are returned.
func (e *Engine) Apply(ctx context.Context, name string, modeCode uint32, extraFlags, finalPath string) (*ApplyResult, error) {
	s, m, err := e.Resolve(name, modeCode)
	if err != nil {
		return nil, err
	}
	defaultArgs := e.config.FlagsForMode(s, m)

	args := defaultArgs
	if strings.TrimSpace(extraFlags) != "" {
		args, err = cmdutil.SplitFlags(extraFlags)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFlags, err)
		}
	}

	ctx, opID := e.opContext(ctx, "apply")
	ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(tag.Scheduler(s.String()), tag.Mode(m.String())))
	res := &ApplyResult{OpID: opID, Scheduler: s, Mode: m, Args: args}

	res.Legacy = e.retireLegacy(ctx)

	res.ByMode = slices.Equal(args, defaultArgs)
	if res.ByMode {
		logger.Info(ctx, "Switching scheduler by mode")
		res.SwitchErr = e.client.SwitchScheduler(ctx, s, m)
	} else {
		logger.Info(ctx, "Switching scheduler with arguments", tag.Flags(args))
		res.SwitchErr = e.client.SwitchSchedulerWithArgs(ctx, s, args)
	}
	if res.SwitchErr != nil {
		logger.Warn(ctx, "Live scheduler switch failed; saving the selection anyway", tag.Error(res.SwitchErr))
	}

	if !e.units.IsEnabled(ctx, e.supervisorUnit) {
		logger.Info(ctx, "Enabling loader service", tag.Unit(e.supervisorUnit))
		if err := e.units.Enable(ctx, e.supervisorUnit); err != nil {
			logger.Warn(ctx, "Failed to enable loader service", tag.Unit(e.supervisorUnit), tag.Error(err))
		} else {
			res.SupervisorEnabled = true
		}
	}

	e.config.SetDefault(s, m)
	if !res.ByMode {
		e.config.SetOverride(s, m, args)
		res.OverrideStored = true
	}

	if err := e.persist(ctx, finalPath); err != nil {
		return nil, err
	}
	return res, nil
}

// retireLegacy disables and stops the legacy service when it is enabled,
// or only stops it when it merely runs.
func (e *Engine) retireLegacy(ctx context.Context) LegacyAction {
	unit := e.legacyUnit
	switch {
	case e.units.IsEnabled(ctx, unit):
		logger.Info(ctx, "Disabling legacy scheduler service", tag.Unit(unit))
		if err := e.units.Disable(ctx, unit, true); err != nil {
			logger.Warn(ctx, "Failed to disable legacy scheduler service", tag.Unit(unit), tag.Error(err))
		}
		return LegacyDisabled
	case e.units.IsActive(ctx, unit):
		logger.Info(ctx, "Stopping legacy scheduler service", tag.Unit(unit))
		if err := e.units.Stop(ctx, unit); err != nil {
			logger.Warn(ctx, "Failed to stop legacy scheduler service", tag.Unit(unit), tag.Error(err))
		}
		return LegacyStopped
	default:
		return LegacyUntouched
	}
}
