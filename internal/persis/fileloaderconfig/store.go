package fileloaderconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/scxmgr/scxmgr/internal/cmn/fileutil"
)

// ErrConfigIO is returned when the configuration document cannot be read,
// parsed, encoded or written.
var ErrConfigIO = errors.New("loader config I/O error")

const filePermissions = 0644

// LoadOrDefault reads the document at path. A missing file yields
// DefaultConfig; a file that exists but cannot be read or parsed is an error
// and is never silently replaced.
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfigIO, path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// Parse decodes a TOML document and normalizes it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: malformed document at line %d, column %d: %v", ErrConfigIO, row, col, err)
		}
		return nil, fmt.Errorf("%w: malformed document: %v", ErrConfigIO, err)
	}
	if cfg.Schedulers == nil {
		cfg.Schedulers = make(map[string]*SchedulerConfig)
	}
	cfg.normalize()
	return cfg, nil
}

// Marshal encodes the document. Map keys are emitted in sorted order, so
// equal documents always encode to identical bytes.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("%w: failed to encode document: %v", ErrConfigIO, err)
	}
	return buf.Bytes(), nil
}

// WriteFile replaces the file at path with the encoded document.
func (c *Config) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigIO, err)
	}
	return nil
}

// Clone returns a deep copy of the document.
func (c *Config) Clone() *Config {
	out := &Config{Schedulers: make(map[string]*SchedulerConfig, len(c.Schedulers))}
	if c.DefaultScheduler != nil {
		s := *c.DefaultScheduler
		out.DefaultScheduler = &s
	}
	if c.DefaultMode != nil {
		m := *c.DefaultMode
		out.DefaultMode = &m
	}
	for name, sc := range c.Schedulers {
		cp := &SchedulerConfig{}
		if sc != nil {
			for _, slot := range []struct{ dst, src **[]string }{
				{&cp.AutoMode, &sc.AutoMode},
				{&cp.GamingMode, &sc.GamingMode},
				{&cp.LowLatencyMode, &sc.LowLatencyMode},
				{&cp.PowerSaveMode, &sc.PowerSaveMode},
				{&cp.ServerMode, &sc.ServerMode},
			} {
				if *slot.src != nil {
					args := append([]string{}, (**slot.src)...)
					*slot.dst = &args
				}
			}
		}
		out.Schedulers[name] = cp
	}
	out.Warnings = append(out.Warnings, c.Warnings...)
	return out
}
