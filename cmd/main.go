package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmd"
	"github.com/scxmgr/scxmgr/internal/cmn/config"
)

var rootCmd = &cobra.Command{
	Use:   config.AppSlug,
	Short: "scxmgr switches sched_ext schedulers through scx_loader",
	Long: `scxmgr switches the running sched_ext scheduler through the scx_loader
service and keeps the boot-time selection in the scx_loader config in sync.

The updated config is installed with pkexec.
`,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(cmd.Apply())
	rootCmd.AddCommand(cmd.Disable())
	rootCmd.AddCommand(cmd.Flags())
	rootCmd.AddCommand(cmd.List())
	rootCmd.AddCommand(cmd.Status())
	rootCmd.AddCommand(cmd.Version())

	config.Version = version
}

var version = "0.0.0"
