// Package output renders scheduler listings and status for the terminal.
package output

import (
	"github.com/fatih/color"

	"github.com/scxmgr/scxmgr/internal/schedext"
)

// State symbols using Unicode characters for visual clarity.
const (
	SymbolRunning     = "●" // Filled circle for a loaded scheduler
	SymbolIdle        = "○" // Empty circle for sched_ext present but idle
	SymbolTransition  = "◐" // Half-filled circle for enabling or disabling
	SymbolUnsupported = "✗" // X mark for kernels without sched_ext
)

// StateSymbol returns the symbol for a kernel sched_ext state.
func StateSymbol(state schedext.State) string {
	switch {
	case state.Enabled():
		return SymbolRunning
	case !state.Supported():
		return SymbolUnsupported
	case state.Kernel == schedext.StateDisabled:
		return SymbolIdle
	default:
		return SymbolTransition
	}
}

// StateColorize applies color formatting to s based on the kernel state.
// Returns the colorized string if color is enabled, otherwise returns unchanged.
func StateColorize(s string, state schedext.State) string {
	switch {
	case state.Enabled():
		return color.New(color.FgHiGreen).Sprint(s)
	case !state.Supported():
		return color.RedString(s)
	case state.Kernel == schedext.StateDisabled:
		return color.New(color.Faint).Sprint(s)
	default:
		return color.YellowString(s)
	}
}

// Running marks the scheduler that is currently loaded.
func Running(s string) string {
	return color.New(color.FgHiGreen, color.Bold).Sprint(s)
}
