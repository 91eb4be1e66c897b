package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
	"github.com/scxmgr/scxmgr/internal/scx"
)

func Flags() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "flags [flags] <scheduler>",
			Short: "Print the arguments a scheduler runs with in a mode",
			Long: `Print the arguments the scheduler runs with in the given mode.

The stored override is printed when there is one, otherwise the scheduler's
built-in arguments for the mode. The output is quoted so it can be passed back
to "scxmgr apply --flags".

Example:
  scxmgr flags scx_bpfland --mode Gaming
`,
			Args: cobra.ExactArgs(1),
		}, flagsFlags, runFlags,
	)
}

var flagsFlags = []commandLineFlag{
	loaderConfigFlag,
	modeFlag,
}

func runFlags(ctx *Context, args []string) error {
	modeName, err := ctx.StringParam(modeFlag.name)
	if err != nil {
		return err
	}
	mode, err := scx.ParseModeName(modeName)
	if err != nil {
		return err
	}

	flags, err := ctx.Session.FlagsForMode(args[0], mode.Code())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(ctx.Out, cmdutil.JoinFlags(flags))
	return err
}

func joinOrNone(args []string) string {
	if len(args) == 0 {
		return "(no flags)"
	}
	return cmdutil.JoinFlags(args)
}
