package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
	"github.com/scxmgr/scxmgr/internal/output"
)

func List() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the schedulers the loader service can run",
			Long: `List the sched_ext schedulers advertised by the scx_loader service, whether
they have mode-specific arguments, and which one is running.

Example:
  scxmgr list
`,
			Args: cobra.NoArgs,
		}, listFlags, runList,
	)
}

var listFlags = []commandLineFlag{}

func runList(ctx *Context, _ []string) error {
	names, err := ctx.Session.SupportedSchedulers(ctx)
	if err != nil {
		return err
	}

	current, err := ctx.Session.CurrentScheduler(ctx)
	if err != nil {
		logger.Warn(ctx, "Failed to read the running scheduler", tag.Error(err))
		current = ""
	}

	_, err = fmt.Fprintln(ctx.Out, output.RenderSchedulers(names, current))
	return err
}
