package scx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduler(t *testing.T) {
	t.Parallel()

	t.Run("AllKnownNamesRoundTrip", func(t *testing.T) {
		t.Parallel()
		for _, s := range Schedulers() {
			parsed, err := ParseScheduler(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)

			again, err := ParseScheduler(s.String())
			require.NoError(t, err)
			assert.Equal(t, parsed, again)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"", "foo", "bpfland", "SCX_BPFLAND", " scx_lavd"} {
			_, err := ParseScheduler(name)
			require.ErrorIs(t, err, ErrInvalidScheduler, name)
		}
	})

	t.Run("TextMarshaling", func(t *testing.T) {
		t.Parallel()
		text, err := Lavd.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "scx_lavd", string(text))

		var s Scheduler
		require.NoError(t, s.UnmarshalText([]byte("scx_flash")))
		assert.Equal(t, Flash, s)

		_, err = Scheduler(99).MarshalText()
		require.ErrorIs(t, err, ErrInvalidScheduler)
	})

	t.Run("ShortName", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "bpfland", Bpfland.ShortName())
	})
}

func TestParseModeCode(t *testing.T) {
	t.Parallel()

	expected := map[uint32]Mode{
		0: Auto,
		1: Gaming,
		2: PowerSave,
		3: LowLatency,
		4: Server,
	}
	for code, want := range expected {
		got, err := ParseModeCode(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, code, got.Code())
	}

	for _, code := range []uint32{5, 6, 255, 1 << 31, 1<<31 + 1, math.MaxUint32} {
		_, err := ParseModeCode(code)
		require.ErrorIs(t, err, ErrInvalidMode, code)

		m := Mode(code)
		assert.False(t, m.Valid(), code)
		_, err = m.MarshalText()
		require.ErrorIs(t, err, ErrInvalidMode, code)
	}
}

func TestParseModeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Mode
	}{
		{"auto", Auto},
		{"Gaming", Gaming},
		{"Lowlatency", LowLatency},
		{"LOWLATENCY", LowLatency},
		{"Powersave", PowerSave},
		{"server_mode", Server},
		{"3", LowLatency},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseModeName(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "turbo", "7"} {
		_, err := ParseModeName(bad)
		require.ErrorIs(t, err, ErrInvalidMode, bad)
	}
}

func TestModeText(t *testing.T) {
	t.Parallel()

	for _, m := range Modes() {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var parsed Mode
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, m, parsed)
	}

	var m Mode
	require.ErrorIs(t, m.UnmarshalText([]byte("gaming")), ErrInvalidMode)
	assert.Equal(t, "lowlatency", LowLatency.Key())
}

func TestDefaultFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"--performance"}, DefaultFlags(Lavd, Gaming))
	assert.Equal(t, []string{}, DefaultFlags(Rusty, Gaming))
	assert.Equal(t, []string{}, DefaultFlags(Bpfland, Auto))

	// Callers must not be able to alter the table.
	flags := DefaultFlags(Bpfland, Gaming)
	flags[0] = "changed"
	assert.Equal(t, "-m", DefaultFlags(Bpfland, Gaming)[0])

	assert.True(t, SupportsModes(Bpfland))
	assert.True(t, SupportsModes(Lavd))
	assert.False(t, SupportsModes(Rusty))
	assert.False(t, SupportsModes(Rustland))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("Default", func(t *testing.T) {
		t.Parallel()
		r := DefaultRegistry()
		s, err := r.Resolve("scx_bpfland")
		require.NoError(t, err)
		assert.Equal(t, Bpfland, s)

		_, err = r.Resolve("scx_nope")
		require.ErrorIs(t, err, ErrInvalidScheduler)

		m, err := r.ResolveMode(1)
		require.NoError(t, err)
		assert.Equal(t, Gaming, m)
	})

	t.Run("Advertised", func(t *testing.T) {
		t.Parallel()
		r, unknown := NewRegistry([]string{"scx_lavd", "scx_new", "scx_lavd", "scx_rusty"})
		assert.Equal(t, []string{"scx_new"}, unknown)
		assert.Equal(t, []Scheduler{Lavd, Rusty}, r.Schedulers())

		_, err := r.Resolve("scx_bpfland")
		require.ErrorIs(t, err, ErrInvalidScheduler)

		s, err := r.Resolve("scx_rusty")
		require.NoError(t, err)
		assert.Equal(t, Rusty, s)
	})
}
