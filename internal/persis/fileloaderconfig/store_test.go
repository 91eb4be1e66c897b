package fileloaderconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scxmgr/scxmgr/internal/scx"
)

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "scx_loader.toml"))
		require.NoError(t, err)

		_, _, ok := cfg.Selection()
		assert.False(t, ok)
		assert.Nil(t, cfg.DefaultScheduler)
		assert.Nil(t, cfg.DefaultMode)
		assert.Equal(t, scx.DefaultFlags(scx.Lavd, scx.Gaming), cfg.FlagsForMode(scx.Lavd, scx.Gaming))
	})

	t.Run("Malformed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "scx_loader.toml")
		require.NoError(t, os.WriteFile(path, []byte("default_sched = [unterminated"), 0600))

		_, err := LoadOrDefault(path)
		require.ErrorIs(t, err, ErrConfigIO)
	})

	t.Run("UnknownScheduler", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "scx_loader.toml")
		require.NoError(t, os.WriteFile(path, []byte(`default_sched = "scx_nope"`), 0600))

		_, err := LoadOrDefault(path)
		require.ErrorIs(t, err, ErrConfigIO)
	})

	t.Run("Unreadable", func(t *testing.T) {
		t.Parallel()
		// A directory cannot be read as a file.
		_, err := LoadOrDefault(t.TempDir())
		require.ErrorIs(t, err, ErrConfigIO)
	})

	t.Run("LoaderDocument", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "scx_loader.toml")
		doc := `default_sched = "scx_bpfland"
default_mode = "Gaming"

[scheds.scx_bpfland]
gaming_mode = ["-k", "-m", "performance"]
server_mode = []
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

		cfg, err := LoadOrDefault(path)
		require.NoError(t, err)
		assert.Empty(t, cfg.Warnings)

		s, m, ok := cfg.Selection()
		require.True(t, ok)
		assert.Equal(t, scx.Bpfland, s)
		assert.Equal(t, scx.Gaming, m)

		assert.Equal(t, []string{"-k", "-m", "performance"}, cfg.FlagsForMode(scx.Bpfland, scx.Gaming))

		// An explicit empty override wins over the built-in flags.
		args, ok := cfg.Override(scx.Bpfland, scx.Server)
		require.True(t, ok)
		assert.Empty(t, args)
		assert.Equal(t, []string{}, cfg.FlagsForMode(scx.Bpfland, scx.Server))

		// Modes without an override fall back to the built-in flags.
		_, ok = cfg.Override(scx.Bpfland, scx.PowerSave)
		assert.False(t, ok)
		assert.Equal(t, scx.DefaultFlags(scx.Bpfland, scx.PowerSave), cfg.FlagsForMode(scx.Bpfland, scx.PowerSave))
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		doc       string
		wantSched *scx.Scheduler
		wantMode  *scx.Mode
		warnings  int
	}{
		{
			name:      "SchedulerWithoutMode",
			doc:       `default_sched = "scx_lavd"`,
			wantSched: ptr(scx.Lavd),
			wantMode:  ptr(scx.Auto),
			warnings:  1,
		},
		{
			name:     "ModeWithoutScheduler",
			doc:      `default_mode = "Server"`,
			warnings: 1,
		},
		{
			name:     "UnknownSchedulerTable",
			doc:      "[scheds.scx_future]\nauto_mode = [\"-x\"]\n",
			warnings: 1,
		},
		{
			name:      "Consistent",
			doc:       "default_sched = \"scx_flash\"\ndefault_mode = \"LowLatency\"\n",
			wantSched: ptr(scx.Flash),
			wantMode:  ptr(scx.LowLatency),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSched, cfg.DefaultScheduler)
			assert.Equal(t, tt.wantMode, cfg.DefaultMode)
			assert.Len(t, cfg.Warnings, tt.warnings)
			assert.Equal(t, cfg.DefaultScheduler == nil, cfg.DefaultMode == nil)
		})
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "scx_loader.toml")

		cfg := DefaultConfig()
		cfg.SetDefault(scx.P2DQ, scx.PowerSave)
		cfg.SetOverride(scx.P2DQ, scx.PowerSave, []string{"--sched-mode", "efficiency", "--verbose"})
		cfg.SetOverride(scx.Rusty, scx.Auto, nil)
		require.NoError(t, cfg.WriteFile(path))

		loaded, err := LoadOrDefault(path)
		require.NoError(t, err)

		s, m, ok := loaded.Selection()
		require.True(t, ok)
		assert.Equal(t, scx.P2DQ, s)
		assert.Equal(t, scx.PowerSave, m)
		for _, sched := range scx.Schedulers() {
			for _, mode := range scx.Modes() {
				assert.Equal(t, cfg.FlagsForMode(sched, mode), loaded.FlagsForMode(sched, mode), "%s/%s", sched, mode)
			}
		}
		_, ok = loaded.Override(scx.Rusty, scx.Auto)
		assert.True(t, ok, "empty overrides must survive a round trip")

		want, err := cfg.Marshal()
		require.NoError(t, err)
		got, err := loaded.Marshal()
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	})

	t.Run("Deterministic", func(t *testing.T) {
		t.Parallel()
		build := func(order []scx.Scheduler) []byte {
			cfg := DefaultConfig()
			for _, s := range order {
				cfg.SetOverride(s, scx.Gaming, []string{"-v"})
			}
			data, err := cfg.Marshal()
			require.NoError(t, err)
			return data
		}
		a := build([]scx.Scheduler{scx.Lavd, scx.Bpfland, scx.Tickless})
		b := build([]scx.Scheduler{scx.Tickless, scx.Lavd, scx.Bpfland})
		assert.Equal(t, string(a), string(b))
	})

	t.Run("LoaderKeys", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.SetDefault(scx.Bpfland, scx.LowLatency)
		cfg.SetOverride(scx.Bpfland, scx.LowLatency, []string{"-s", "5000"})
		data, err := cfg.Marshal()
		require.NoError(t, err)

		text := string(data)
		assert.Contains(t, text, `default_sched = 'scx_bpfland'`)
		assert.Contains(t, text, `default_mode = 'LowLatency'`)
		assert.Contains(t, text, `[scheds.scx_bpfland]`)
		assert.Contains(t, text, `lowlatency_mode = ['-s', '5000']`)
		assert.NotContains(t, text, "gaming_mode")
	})

	t.Run("ClearedDefaultsAreOmitted", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.SetDefault(scx.Lavd, scx.Gaming)
		cfg.ClearDefault()
		data, err := cfg.Marshal()
		require.NoError(t, err)
		assert.NotContains(t, string(data), "default_sched")
		assert.NotContains(t, string(data), "default_mode")
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		t.Parallel()
		err := DefaultConfig().WriteFile(filepath.Join(t.TempDir(), "missing", "scx_loader.toml"))
		require.ErrorIs(t, err, ErrConfigIO)
	})
}

func TestSetOverride(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	args := []string{"-a", "-b"}
	cfg.SetOverride(scx.Cosmos, scx.Server, args)
	args[0] = "changed"

	assert.Equal(t, []string{"-a", "-b"}, cfg.FlagsForMode(scx.Cosmos, scx.Server))
	assert.Equal(t, scx.DefaultFlags(scx.Cosmos, scx.Gaming), cfg.FlagsForMode(scx.Cosmos, scx.Gaming))

	clone := cfg.Clone()
	clone.SetOverride(scx.Cosmos, scx.Server, []string{"-z"})
	assert.Equal(t, []string{"-a", "-b"}, cfg.FlagsForMode(scx.Cosmos, scx.Server))
}

func ptr[T any](v T) *T { return &v }
