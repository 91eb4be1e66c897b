package config

import (
	"fmt"
	"slices"
)

// Config holds the overall configuration for the application.
type Config struct {
	Core     Core
	Paths    PathsConfig
	Loader   LoaderConfig
	Units    UnitsConfig
	Elevate  ElevateConfig
	Warnings []string
}

// Core holds the process-wide settings.
type Core struct {
	// Debug enables debug logging.
	Debug bool
	// LogFormat is "text" or "json".
	LogFormat string
	// Shell runs the unit probe commands.
	Shell string
}

// PathsConfig holds the filesystem locations the application touches.
type PathsConfig struct {
	LoaderConfig   string
	TempPath       string
	SysfsRoot      string
	ConfigFileUsed string
}

// LoaderConfig holds the settings for reaching the scx_loader service.
type LoaderConfig struct {
	Bus string
}

// UnitsConfig holds the systemd unit settings.
type UnitsConfig struct {
	Backend    string
	Systemctl  string
	Legacy     string
	Supervisor string
}

// ElevateConfig names the binaries of the privileged copy.
type ElevateConfig struct {
	Pkexec string
	Cp     string
}

// Accepted values for the enumerated settings.
const (
	BusSystem  = "system"
	BusSession = "session"

	BackendSystemctl = "systemctl"
	BackendDBus      = "dbus"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	validBuses     = []string{BusSystem, BusSession}
	validBackends  = []string{BackendSystemctl, BackendDBus}
	validLogFormat = []string{LogFormatText, LogFormatJSON}
)

// Validate checks the enumerated settings and the paths that must be set.
func (c *Config) Validate() error {
	if !slices.Contains(validBuses, c.Loader.Bus) {
		return fmt.Errorf("invalid bus %q (must be one of %v)", c.Loader.Bus, validBuses)
	}
	if !slices.Contains(validBackends, c.Units.Backend) {
		return fmt.Errorf("invalid unit backend %q (must be one of %v)", c.Units.Backend, validBackends)
	}
	if !slices.Contains(validLogFormat, c.Core.LogFormat) {
		return fmt.Errorf("invalid log format %q (must be one of %v)", c.Core.LogFormat, validLogFormat)
	}
	if c.Paths.LoaderConfig == "" {
		return fmt.Errorf("loader config path must not be empty")
	}
	if c.Paths.TempPath == "" {
		return fmt.Errorf("temp path must not be empty")
	}
	if c.Paths.TempPath == c.Paths.LoaderConfig {
		return fmt.Errorf("temp path must differ from the loader config path %q", c.Paths.LoaderConfig)
	}
	return nil
}
