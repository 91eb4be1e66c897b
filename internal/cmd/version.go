package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scxmgr/scxmgr/internal/cmn/config"
)

func Version() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the binary version",
		Long:  `Print the current version of the scxmgr executable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.Version)
			return err
		},
	}
	// Common flags are accepted and ignored.
	initFlags(cmd)
	return cmd
}
