// Package fileloaderconfig provides file-based storage for the scx_loader
// configuration document.
package fileloaderconfig

import (
	"slices"

	"github.com/scxmgr/scxmgr/internal/scx"
)

// Config is the desired scheduler state read by scx_loader at startup.
//
// DefaultScheduler and DefaultMode are either both set or both nil; the
// methods on Config keep them paired.
type Config struct {
	DefaultScheduler *scx.Scheduler              `toml:"default_sched,omitempty"`
	DefaultMode      *scx.Mode                   `toml:"default_mode,omitempty"`
	Schedulers       map[string]*SchedulerConfig `toml:"scheds,omitempty"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `toml:"-"`
}

// SchedulerConfig holds the per-mode argument overrides of one scheduler.
// A nil field means "use the built-in default for that mode".
type SchedulerConfig struct {
	AutoMode       *[]string `toml:"auto_mode,omitempty"`
	GamingMode     *[]string `toml:"gaming_mode,omitempty"`
	LowLatencyMode *[]string `toml:"lowlatency_mode,omitempty"`
	PowerSaveMode  *[]string `toml:"powersave_mode,omitempty"`
	ServerMode     *[]string `toml:"server_mode,omitempty"`
}

// DefaultConfig returns the document used when no file exists yet: no
// default scheduler and no overrides, so every scheduler runs with its
// built-in flags.
func DefaultConfig() *Config {
	return &Config{Schedulers: make(map[string]*SchedulerConfig)}
}

// field returns the slot holding the arguments for mode m.
func (sc *SchedulerConfig) field(m scx.Mode) **[]string {
	switch m {
	case scx.Gaming:
		return &sc.GamingMode
	case scx.LowLatency:
		return &sc.LowLatencyMode
	case scx.PowerSave:
		return &sc.PowerSaveMode
	case scx.Server:
		return &sc.ServerMode
	default:
		return &sc.AutoMode
	}
}

// Override returns the stored arguments for s in mode m, if any.
func (c *Config) Override(s scx.Scheduler, m scx.Mode) ([]string, bool) {
	sc, ok := c.Schedulers[s.String()]
	if !ok || sc == nil {
		return nil, false
	}
	args := *sc.field(m)
	if args == nil {
		return nil, false
	}
	return slices.Clone(*args), true
}

// FlagsForMode resolves the arguments s runs with in mode m: the stored
// override when present, otherwise the built-in default.
func (c *Config) FlagsForMode(s scx.Scheduler, m scx.Mode) []string {
	if args, ok := c.Override(s, m); ok {
		if args == nil {
			return []string{}
		}
		return args
	}
	return scx.DefaultFlags(s, m)
}

// SetOverride stores args as the arguments for s in mode m.
func (c *Config) SetOverride(s scx.Scheduler, m scx.Mode, args []string) {
	if c.Schedulers == nil {
		c.Schedulers = make(map[string]*SchedulerConfig)
	}
	sc, ok := c.Schedulers[s.String()]
	if !ok || sc == nil {
		sc = &SchedulerConfig{}
		c.Schedulers[s.String()] = sc
	}
	stored := slices.Clone(args)
	if stored == nil {
		stored = []string{}
	}
	*sc.field(m) = &stored
}

// SetDefault makes s in mode m the scheduler scx_loader starts on boot.
func (c *Config) SetDefault(s scx.Scheduler, m scx.Mode) {
	c.DefaultScheduler = &s
	c.DefaultMode = &m
}

// ClearDefault removes the boot-time scheduler selection.
func (c *Config) ClearDefault() {
	c.DefaultScheduler = nil
	c.DefaultMode = nil
}

// Selection returns the boot-time scheduler and mode, if set.
func (c *Config) Selection() (scx.Scheduler, scx.Mode, bool) {
	if c.DefaultScheduler == nil || c.DefaultMode == nil {
		return 0, 0, false
	}
	return *c.DefaultScheduler, *c.DefaultMode, true
}

// normalize restores the paired presence of the default scheduler and mode
// on documents edited by hand, and reports what it changed.
func (c *Config) normalize() {
	switch {
	case c.DefaultScheduler != nil && c.DefaultMode == nil:
		m := scx.Auto
		c.DefaultMode = &m
		c.Warnings = append(c.Warnings, "default_sched is set without default_mode; assuming Auto")
	case c.DefaultScheduler == nil && c.DefaultMode != nil:
		c.DefaultMode = nil
		c.Warnings = append(c.Warnings, "default_mode is set without default_sched; ignoring it")
	}
	for name, sc := range c.Schedulers {
		if _, err := scx.ParseScheduler(name); err != nil {
			c.Warnings = append(c.Warnings, "unknown scheduler table scheds."+name+" is kept as is")
		}
		if sc == nil {
			c.Schedulers[name] = &SchedulerConfig{}
		}
	}
	slices.Sort(c.Warnings)
}
