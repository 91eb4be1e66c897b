package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
	"github.com/scxmgr/scxmgr/internal/scx"
)

func Apply() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "apply [flags] <scheduler>",
			Short: "Switch to a sched_ext scheduler and make it the boot default",
			Long: `Switch the running sched_ext scheduler and record it as the boot-time default.

The legacy scx service is disabled or stopped first, the scx_loader service is
enabled if needed, and the updated scx_loader config is installed with pkexec.

Without --flags the scheduler runs with the arguments configured for the mode.
Flags that differ from those arguments are stored as the mode's override.

Example:
  scxmgr apply scx_lavd --mode Gaming
  scxmgr apply scx_bpfland --mode LowLatency --flags "-s 5000 -m performance"
`,
			Args: cobra.ExactArgs(1),
		}, applyFlags, runApply,
	)
}

var applyFlags = []commandLineFlag{
	loaderConfigFlag,
	modeFlag,
	schedFlagsFlag,
	strictFlag,
}

func runApply(ctx *Context, args []string) error {
	modeName, err := ctx.StringParam(modeFlag.name)
	if err != nil {
		return err
	}
	mode, err := scx.ParseModeName(modeName)
	if err != nil {
		return err
	}
	flags, err := ctx.StringParam(schedFlagsFlag.name)
	if err != nil {
		return err
	}

	name, err := ctx.Session.ResolveScheduler(args[0])
	if err != nil {
		return err
	}

	if err := ctx.Session.ApplySchedulerChange(ctx, name, mode.Code(), flags, ""); err != nil {
		return err
	}

	effective, err := ctx.Session.FlagsForMode(name, mode.Code())
	if err != nil {
		return err
	}

	logger.Info(ctx, "Scheduler applied",
		tag.Scheduler(name),
		tag.Mode(mode.String()),
		tag.Path(ctx.Session.LoaderConfigPath()),
	)
	_, err = fmt.Fprintf(ctx.Out, "%s (%s) %s\n", name, mode, joinOrNone(effective))
	return err
}
