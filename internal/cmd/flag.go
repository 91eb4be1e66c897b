package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scxmgr/scxmgr/internal/cmn/config"
)

type commandLineFlag struct {
	name, shorthand, defaultValue, usage string
	required                             bool
	isBool                               bool
}

var (
	configFlag = commandLineFlag{
		name:      "config",
		shorthand: "c",
		usage:     "config file (default is $XDG_CONFIG_HOME/scxmgr/config.yaml)",
	}
	quietFlag = commandLineFlag{
		name:      "quiet",
		shorthand: "q",
		usage:     "suppress log output",
		isBool:    true,
	}
	loaderConfigFlag = commandLineFlag{
		name:      "loader-config",
		shorthand: "l",
		usage:     "scx_loader config file to update (default is loader_config from the app config)",
	}
	modeFlag = commandLineFlag{
		name:         "mode",
		shorthand:    "m",
		defaultValue: "Auto",
		usage:        "scheduler mode: Auto, Gaming, PowerSave, LowLatency or Server",
	}
	schedFlagsFlag = commandLineFlag{
		name:      "flags",
		shorthand: "f",
		usage:     "scheduler arguments, quoted like a shell command line (default is the mode's arguments)",
	}
	strictFlag = commandLineFlag{
		name:   "strict",
		usage:  "reject schedulers the loader service does not advertise",
		isBool: true,
	}
	watchFlag = commandLineFlag{
		name:      "watch",
		shorthand: "w",
		usage:     "refresh the status until interrupted",
		isBool:    true,
	}
	intervalFlag = commandLineFlag{
		name:         "interval",
		shorthand:    "i",
		defaultValue: "1s",
		usage:        "refresh interval for --watch",
	}
	countFlag = commandLineFlag{
		name:         "count",
		shorthand:    "n",
		defaultValue: "0",
		usage:        "stop --watch after this many refreshes (0 means no limit)",
	}
)

// initFlags registers the common flags and addFlags on cmd.
func initFlags(cmd *cobra.Command, addFlags ...commandLineFlag) {
	flags := append([]commandLineFlag{configFlag, quietFlag}, addFlags...)
	for _, flag := range flags {
		if flag.isBool {
			cmd.Flags().BoolP(flag.name, flag.shorthand, flag.defaultValue == "true", flag.usage)
		} else {
			cmd.Flags().StringP(flag.name, flag.shorthand, flag.defaultValue, flag.usage)
		}
		if flag.required {
			if err := cmd.MarkFlagRequired(flag.name); err != nil {
				fmt.Printf("failed to mark flag %s as required: %v\n", flag.name, err)
			}
		}
	}
}

// bindFlags binds the command's flags to a fresh viper instance. A flag
// left unset falls back to SCXMGR_<NAME> in the environment.
func bindFlags(cmd *cobra.Command, addFlags ...commandLineFlag) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(config.AppSlug))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := append([]commandLineFlag{configFlag, quietFlag}, addFlags...)
	for _, flag := range flags {
		if err := v.BindPFlag(flag.name, cmd.Flags().Lookup(flag.name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.name, err)
		}
	}
	if err := v.BindEnv(configFlag.name); err != nil {
		return nil, fmt.Errorf("failed to bind environment for %s: %w", configFlag.name, err)
	}
	return v, nil
}
