package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/scxmgr/scxmgr/internal/schedext"
	"github.com/scxmgr/scxmgr/internal/scx"
)

var schedulerHeader = table.Row{
	"#",
	"Scheduler",
	"Modes",
	"Running",
}

// RenderSchedulers renders the schedulers the loader advertises. Names
// this build does not know are listed without mode support.
func RenderSchedulers(names []string, current string) string {
	t := table.NewWriter()
	t.AppendHeader(schedulerHeader)

	for i, name := range names {
		modes := "no"
		if s, err := scx.ParseScheduler(name); err == nil && scx.SupportsModes(s) {
			modes = "yes"
		}
		running := ""
		if name == current {
			running = Running(SymbolRunning)
		}
		t.AppendRow(table.Row{fmt.Sprintf("%d", i+1), name, modes, running})
	}

	return t.Render()
}

// Status is what the status command reports.
type Status struct {
	// Scheduler and Mode are reported by the loader service.
	Scheduler string
	Mode      string
	// Kernel is read from sysfs.
	Kernel schedext.State
	// BootScheduler and BootMode come from the loader document. Empty when
	// no boot-time scheduler is configured.
	BootScheduler string
	BootMode      string
	// Flags are the arguments BootScheduler runs with in BootMode.
	Flags string
}

// RenderStatus renders s as a two-column table.
func RenderStatus(s Status) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	kernel := StateSymbol(s.Kernel) + " " + s.Kernel.String()
	boot := "none"
	if s.BootScheduler != "" {
		boot = s.BootScheduler + " (" + s.BootMode + ")"
	}

	t.AppendRows([]table.Row{
		{"Scheduler", orDash(s.Scheduler)},
		{"Mode", orDash(s.Mode)},
		{"Kernel", StateColorize(kernel, s.Kernel)},
		{"Boot default", boot},
		{"Boot flags", orDash(s.Flags)},
	})

	return t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
