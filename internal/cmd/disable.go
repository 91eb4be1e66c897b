package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
)

func Disable() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "disable [flags]",
			Short: "Stop the running scheduler and clear the boot default",
			Long: `Stop the sched_ext scheduler run by scx_loader and remove the boot-time
default from the scx_loader config. Per-mode flag overrides are kept.

Example:
  scxmgr disable
`,
			Args: cobra.NoArgs,
		}, disableFlags, runDisable,
	)
}

var disableFlags = []commandLineFlag{
	loaderConfigFlag,
}

func runDisable(ctx *Context, _ []string) error {
	if err := ctx.Session.DisableScheduler(ctx, ""); err != nil {
		return err
	}

	logger.Info(ctx, "Scheduler disabled", tag.Path(ctx.Session.LoaderConfigPath()))
	_, err := fmt.Fprintln(ctx.Out, "disabled")
	return err
}
