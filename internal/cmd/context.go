package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scxmgr/scxmgr/internal/bridge"
	"github.com/scxmgr/scxmgr/internal/cmn/config"
	"github.com/scxmgr/scxmgr/internal/cmn/logger"
	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
)

// Context holds the configuration for a command.
type Context struct {
	context.Context

	Command *cobra.Command
	Flags   []commandLineFlag
	Config  *config.Config
	Quiet   bool
	Session *bridge.Session
	// Out receives the command's results.
	Out io.Writer

	params *viper.Viper
}

// NewContext initializes the application setup by loading configuration,
// setting up the logger, logging any warnings and opening the loader
// config session.
func NewContext(cmd *cobra.Command, flags []commandLineFlag) (*Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	params, err := bindFlags(cmd, flags...)
	if err != nil {
		return nil, err
	}

	quiet := params.GetBool(quietFlag.name)

	var configLoaderOpts []config.ConfigLoaderOption

	// Use a custom config file if provided via the flag or SCXMGR_CONFIG
	if cfgPath := params.GetString(configFlag.name); cfgPath != "" {
		configLoaderOpts = append(configLoaderOpts, config.WithConfigFile(cfgPath))
	}

	cfg, err := config.Load(configLoaderOpts...)
	if err != nil {
		return nil, err
	}

	// Create a logger context based on config and quiet mode
	opts := []logger.Option{logger.WithConsole(cmd.ErrOrStderr())}
	if cfg.Core.Debug || os.Getenv("DEBUG") != "" {
		opts = append(opts, logger.WithDebug())
	}
	if quiet {
		opts = append(opts, logger.WithQuiet())
	}
	if cfg.Core.LogFormat != "" {
		opts = append(opts, logger.WithFormat(cfg.Core.LogFormat))
	}
	ctx = logger.WithLogger(ctx, logger.NewLogger(opts...))

	// Log any warnings collected during configuration loading
	for _, w := range cfg.Warnings {
		logger.Warn(ctx, w, tag.File(cfg.Paths.ConfigFileUsed))
	}

	var sessionOpts []bridge.Option
	sessionOpts = append(sessionOpts, bridge.WithAppConfig(cfg))
	if cmd.Flags().Lookup(strictFlag.name) != nil && params.GetBool(strictFlag.name) {
		sessionOpts = append(sessionOpts, bridge.WithAdvertisedOnly())
	}

	var loaderConfig string
	if cmd.Flags().Lookup(loaderConfigFlag.name) != nil {
		loaderConfig = params.GetString(loaderConfigFlag.name)
	}

	session, err := bridge.Open(ctx, loaderConfig, sessionOpts...)
	if err != nil {
		return nil, err
	}

	return &Context{
		Context: ctx,
		Command: cmd,
		Flags:   flags,
		Config:  cfg,
		Quiet:   quiet,
		Session: session,
		Out:     cmd.OutOrStdout(),
		params:  params,
	}, nil
}

// StringParam retrieves a string parameter from the command line flags.
func (c *Context) StringParam(name string) (string, error) {
	if c.Command.Flags().Lookup(name) == nil {
		return "", fmt.Errorf("failed to get flag %s: not defined", name)
	}
	return c.params.GetString(name), nil
}

// BoolParam retrieves a boolean parameter from the command line flags.
func (c *Context) BoolParam(name string) (bool, error) {
	if c.Command.Flags().Lookup(name) == nil {
		return false, fmt.Errorf("failed to get flag %s: not defined", name)
	}
	return c.params.GetBool(name), nil
}

// NewCommand creates a new command instance with the given cobra command and run function.
func NewCommand(cmd *cobra.Command, flags []commandLineFlag, runFunc func(cmd *Context, args []string) error) *cobra.Command {
	initFlags(cmd, flags...)
	cmd.SilenceUsage = true

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := NewContext(cmd, flags)
		if err != nil {
			return fmt.Errorf("initialization error: %w", err)
		}
		if err := runFunc(ctx, args); err != nil {
			logger.Error(ctx, "Command failed", tag.Error(err))
			return err
		}
		return nil
	}

	return cmd
}
