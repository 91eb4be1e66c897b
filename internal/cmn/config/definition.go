package config

// Definition holds the raw application configuration as read from the YAML
// file and the environment. Each field maps to a configuration key.
type Definition struct {
	// Debug toggles debug logging.
	Debug bool `mapstructure:"debug"`

	// LogFormat selects the log encoding: "text" or "json".
	LogFormat string `mapstructure:"log_format"`

	// Shell evaluates the unit probe commands. Empty picks a POSIX sh.
	Shell string `mapstructure:"shell"`

	// LoaderConfig is the path of the scx_loader document that is read at
	// startup and replaced on every change.
	LoaderConfig string `mapstructure:"loader_config"`

	// TempPath is where the document is staged before it is copied into place.
	TempPath string `mapstructure:"temp_path"`

	// Bus is the message bus the loader service is reached on.
	Bus string `mapstructure:"bus"`

	// SysfsRoot is the sched_ext directory in sysfs.
	SysfsRoot string `mapstructure:"sysfs_root"`

	Units *UnitsDef `mapstructure:"units"`

	Elevate *ElevateDef `mapstructure:"elevate"`
}

// UnitsDef configures how systemd units are inspected and toggled.
type UnitsDef struct {
	// Backend is "systemctl" or "dbus".
	Backend string `mapstructure:"backend"`

	// Systemctl is the systemctl binary used by the systemctl backend.
	Systemctl string `mapstructure:"systemctl"`

	// Legacy is the unit that must not run alongside the loader.
	Legacy string `mapstructure:"legacy"`

	// Supervisor is the loader's own unit.
	Supervisor string `mapstructure:"supervisor"`
}

// ElevateDef configures the privileged copy.
type ElevateDef struct {
	Pkexec string `mapstructure:"pkexec"`
	Cp     string `mapstructure:"cp"`
}
