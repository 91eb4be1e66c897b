package output

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/scxmgr/scxmgr/internal/schedext"
)

func init() {
	color.NoColor = true
}

func TestStateSymbol(t *testing.T) {
	tests := []struct {
		name  string
		state schedext.State
		want  string
	}{
		{name: "Enabled", state: schedext.State{Kernel: "enabled", Ops: "lavd_1.0.0"}, want: SymbolRunning},
		{name: "Disabled", state: schedext.State{Kernel: "disabled"}, want: SymbolIdle},
		{name: "Enabling", state: schedext.State{Kernel: "enabling"}, want: SymbolTransition},
		{name: "Unsupported", state: schedext.State{}, want: SymbolUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateSymbol(tt.state))
			assert.Equal(t, "x", StateColorize("x", tt.state))
		})
	}
}

func TestRenderSchedulers(t *testing.T) {
	out := RenderSchedulers([]string{"scx_bpfland", "scx_rustland", "scx_future"}, "scx_bpfland")

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "SCHEDULER")

	var bpfland, future string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "scx_bpfland"):
			bpfland = l
		case strings.Contains(l, "scx_future"):
			future = l
		}
	}
	assert.Contains(t, bpfland, "yes")
	assert.Contains(t, bpfland, SymbolRunning)
	assert.Contains(t, future, "no")
	assert.NotContains(t, future, SymbolRunning)
}

func TestRenderStatus(t *testing.T) {
	t.Run("Configured", func(t *testing.T) {
		out := RenderStatus(Status{
			Scheduler:     "scx_lavd",
			Mode:          "Gaming",
			Kernel:        schedext.State{Kernel: "enabled", Ops: "lavd_1.0.0"},
			BootScheduler: "scx_lavd",
			BootMode:      "Gaming",
			Flags:         "--performance",
		})
		assert.Contains(t, out, "lavd_1.0.0")
		assert.Contains(t, out, "scx_lavd (Gaming)")
		assert.Contains(t, out, "--performance")
	})

	t.Run("Empty", func(t *testing.T) {
		out := RenderStatus(Status{})
		assert.Contains(t, out, "unsupported")
		assert.Contains(t, out, "none")
		assert.Contains(t, out, "-")
	})
}
