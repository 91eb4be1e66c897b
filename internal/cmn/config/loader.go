package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/scxmgr/scxmgr/internal/cmn/fileutil"
)

// Default values of the application settings.
const (
	DefaultLoaderConfig = "/etc/scx_loader.toml"
	DefaultTempPath     = "/tmp/scx_loader.toml"
	DefaultSysfsRoot    = "/sys/kernel/sched_ext"
	DefaultSystemctl    = "/usr/bin/systemctl"
	DefaultPkexec       = "/usr/bin/pkexec"
	DefaultCp           = "/usr/bin/cp"
	DefaultLegacyUnit   = "scx"
	DefaultLoaderUnit   = "scx_loader"
)

// Load creates a ConfigLoader on a fresh viper instance and loads the
// configuration.
func Load(opts ...ConfigLoaderOption) (*Config, error) {
	cfg, err := NewConfigLoader(viper.New(), opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// ConfigLoader reads and merges configuration from the config file, the
// environment and the built-in defaults.
type ConfigLoader struct {
	v          *viper.Viper
	configFile string
	configDir  string
	warnings   []string
}

// ConfigLoaderOption defines a functional option for configuring a ConfigLoader.
type ConfigLoaderOption func(*ConfigLoader)

// WithConfigFile returns a ConfigLoaderOption that sets the configuration file path.
func WithConfigFile(configFile string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configFile = configFile
	}
}

// WithConfigDir overrides the directory searched for config.yaml when no
// file is given. It defaults to $XDG_CONFIG_HOME/scxmgr.
func WithConfigDir(dir string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configDir = dir
	}
}

// NewConfigLoader creates a ConfigLoader with the given viper instance and options.
func NewConfigLoader(v *viper.Viper, options ...ConfigLoaderOption) *ConfigLoader {
	loader := &ConfigLoader{v: v}
	for _, opt := range options {
		opt(loader)
	}
	return loader
}

// Load reads the configuration file, applies defaults and environment
// overrides, and returns a validated Config.
func (l *ConfigLoader) Load() (*Config, error) {
	configDir := l.configDir
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, AppSlug)
	}

	l.configureViper(configDir, l.configFile)
	l.bindEnvironmentVariables()
	l.setViperDefaultValues()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	configFileUsed, err := l.resolvePath("config file", l.v.ConfigFileUsed())
	if err != nil {
		return nil, err
	}

	var def Definition
	if err := l.v.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg, err := l.buildConfig(def)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	cfg.Paths.ConfigFileUsed = configFileUsed
	cfg.Warnings = l.warnings

	return cfg, nil
}

// buildConfig transforms the Definition into a validated Config.
func (l *ConfigLoader) buildConfig(def Definition) (*Config, error) {
	var cfg Config

	cfg.Core = Core{
		Debug:     def.Debug,
		LogFormat: strings.ToLower(strings.TrimSpace(def.LogFormat)),
		Shell:     def.Shell,
	}
	cfg.Loader.Bus = strings.ToLower(strings.TrimSpace(def.Bus))

	if err := l.loadPathsConfig(&cfg, def); err != nil {
		return nil, err
	}
	l.loadUnitsConfig(&cfg, def)
	l.loadElevateConfig(&cfg, def)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *ConfigLoader) loadPathsConfig(cfg *Config, def Definition) error {
	for _, p := range []struct {
		name   string
		value  string
		target *string
	}{
		{"loader_config", def.LoaderConfig, &cfg.Paths.LoaderConfig},
		{"temp_path", def.TempPath, &cfg.Paths.TempPath},
		{"sysfs_root", def.SysfsRoot, &cfg.Paths.SysfsRoot},
	} {
		resolved, err := l.resolvePath(p.name, p.value)
		if err != nil {
			return err
		}
		*p.target = resolved
	}
	return nil
}

func (l *ConfigLoader) loadUnitsConfig(cfg *Config, def Definition) {
	cfg.Units = UnitsConfig{
		Backend:    BackendSystemctl,
		Systemctl:  DefaultSystemctl,
		Legacy:     DefaultLegacyUnit,
		Supervisor: DefaultLoaderUnit,
	}
	if def.Units != nil {
		setIfNotEmpty(&cfg.Units.Backend, strings.ToLower(strings.TrimSpace(def.Units.Backend)))
		setIfNotEmpty(&cfg.Units.Systemctl, def.Units.Systemctl)
		setIfNotEmpty(&cfg.Units.Legacy, def.Units.Legacy)
		setIfNotEmpty(&cfg.Units.Supervisor, def.Units.Supervisor)
	}

	if cfg.Units.Legacy == cfg.Units.Supervisor {
		l.warnings = append(l.warnings, fmt.Sprintf(
			"units.legacy and units.supervisor are both %q; the loader unit will be stopped on every apply",
			cfg.Units.Legacy))
	}
	if cfg.Units.Backend == BackendDBus && def.Units != nil && def.Units.Systemctl != "" {
		l.warnings = append(l.warnings, "units.systemctl is ignored by the dbus unit backend")
	}
}

func (l *ConfigLoader) loadElevateConfig(cfg *Config, def Definition) {
	cfg.Elevate = ElevateConfig{Pkexec: DefaultPkexec, Cp: DefaultCp}
	if def.Elevate != nil {
		setIfNotEmpty(&cfg.Elevate.Pkexec, def.Elevate.Pkexec)
		setIfNotEmpty(&cfg.Elevate.Cp, def.Elevate.Cp)
	}
	for _, bin := range []string{cfg.Elevate.Pkexec, cfg.Elevate.Cp} {
		if !filepath.IsAbs(bin) {
			l.warnings = append(l.warnings, fmt.Sprintf("%s is not an absolute path; it will be looked up in PATH", bin))
		}
	}
}

// resolvePath resolves a path to an absolute path. Empty paths are returned as-is.
func (l *ConfigLoader) resolvePath(fieldName, pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	resolved, err := fileutil.ResolvePath(pathValue)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path %q: %w", fieldName, pathValue, err)
	}
	return resolved, nil
}

func setIfNotEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func (l *ConfigLoader) setViperDefaultValues() {
	l.v.SetDefault("debug", false)
	l.v.SetDefault("log_format", LogFormatText)
	l.v.SetDefault("shell", "")

	// Paths
	l.v.SetDefault("loader_config", DefaultLoaderConfig)
	l.v.SetDefault("temp_path", DefaultTempPath)
	l.v.SetDefault("sysfs_root", DefaultSysfsRoot)

	// Loader service
	l.v.SetDefault("bus", BusSystem)

	// Units
	l.v.SetDefault("units.backend", BackendSystemctl)
	l.v.SetDefault("units.systemctl", DefaultSystemctl)
	l.v.SetDefault("units.legacy", DefaultLegacyUnit)
	l.v.SetDefault("units.supervisor", DefaultLoaderUnit)

	// Elevation
	l.v.SetDefault("elevate.pkexec", DefaultPkexec)
	l.v.SetDefault("elevate.cp", DefaultCp)
}

type envBinding struct {
	key    string
	env    string
	isPath bool
}

var envBindings = []envBinding{
	{key: "debug", env: "DEBUG"},
	{key: "log_format", env: "LOG_FORMAT"},
	{key: "shell", env: "SHELL"},
	{key: "loader_config", env: "LOADER_CONFIG", isPath: true},
	{key: "temp_path", env: "TEMP_PATH", isPath: true},
	{key: "sysfs_root", env: "SYSFS_ROOT", isPath: true},
	{key: "bus", env: "BUS"},
	{key: "units.backend", env: "UNITS_BACKEND"},
	{key: "units.systemctl", env: "SYSTEMCTL"},
	{key: "units.legacy", env: "LEGACY_UNIT"},
	{key: "units.supervisor", env: "LOADER_UNIT"},
	{key: "elevate.pkexec", env: "PKEXEC"},
	{key: "elevate.cp", env: "CP"},
}

func (l *ConfigLoader) bindEnvironmentVariables() {
	prefix := strings.ToUpper(AppSlug) + "_"

	for _, b := range envBindings {
		fullEnv := prefix + b.env

		if b.isPath {
			if val := os.Getenv(fullEnv); val != "" {
				if abs, err := filepath.Abs(val); err == nil && abs != val {
					_ = os.Setenv(fullEnv, abs)
				}
			}
		}

		_ = l.v.BindEnv(b.key, fullEnv)
	}
}

func (l *ConfigLoader) configureViper(configDir, configFile string) {
	if configFile == "" {
		l.v.AddConfigPath(configDir)
		l.v.SetConfigName("config")
	} else {
		l.v.SetConfigFile(configFile)
	}
	l.v.SetConfigType("yaml")
	l.v.SetEnvPrefix(strings.ToUpper(AppSlug))
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	l.v.AutomaticEnv()
}
