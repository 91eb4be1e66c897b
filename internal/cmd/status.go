package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
	"github.com/scxmgr/scxmgr/internal/output"
	"github.com/scxmgr/scxmgr/internal/persis/fileloaderconfig"
	"github.com/scxmgr/scxmgr/internal/schedext"
)

func Status() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "status [flags]",
			Short: "Show the running scheduler and the boot default",
			Long: `Show the scheduler and mode reported by the scx_loader service, the kernel's
sched_ext state, and the boot-time default from the scx_loader config.

With --watch the status is printed again every --interval until interrupted.

Example:
  scxmgr status
  scxmgr status --watch --interval 2s
`,
			Args: cobra.NoArgs,
		}, statusFlags, runStatus,
	)
}

var statusFlags = []commandLineFlag{
	loaderConfigFlag,
	watchFlag,
	intervalFlag,
	countFlag,
}

func runStatus(ctx *Context, _ []string) error {
	watch, err := ctx.BoolParam(watchFlag.name)
	if err != nil {
		return err
	}
	if !watch {
		return printStatus(ctx)
	}

	rawInterval, err := ctx.StringParam(intervalFlag.name)
	if err != nil {
		return err
	}
	interval, err := time.ParseDuration(rawInterval)
	if err != nil || interval <= 0 {
		return fmt.Errorf("invalid interval %q", rawInterval)
	}
	rawCount, err := ctx.StringParam(countFlag.name)
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(rawCount)
	if err != nil || count < 0 {
		return fmt.Errorf("invalid count %q", rawCount)
	}

	logger.Debug(ctx, "Watching status", tag.Interval(interval), tag.Count(count))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		if err := printStatus(ctx); err != nil {
			return err
		}
		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printStatus(ctx *Context) error {
	st := output.Status{
		Kernel: schedext.NewReader(ctx.Config.Paths.SysfsRoot).Read(),
	}

	if name, err := ctx.Session.CurrentScheduler(ctx); err != nil {
		logger.Warn(ctx, "Failed to read the running scheduler", tag.Error(err))
	} else {
		st.Scheduler = name
	}
	if code, err := ctx.Session.CurrentMode(ctx); err != nil {
		logger.Warn(ctx, "Failed to read the running mode", tag.Error(err))
	} else if mode, err := ctx.Session.ResolveMode(uint32(code)); err == nil {
		st.Mode = mode
	}

	// Read from disk; other processes may have changed it since Open.
	doc, err := fileloaderconfig.LoadOrDefault(ctx.Session.LoaderConfigPath())
	if err != nil {
		logger.Warn(ctx, "Failed to read the loader config", tag.File(ctx.Session.LoaderConfigPath()), tag.Error(err))
	} else if s, m, ok := doc.Selection(); ok {
		st.BootScheduler = s.String()
		st.BootMode = m.String()
		st.Flags = joinOrNone(doc.FlagsForMode(s, m))
	}

	_, err = fmt.Fprintln(ctx.Out, output.RenderStatus(st))
	return err
}
