package scx

import "slices"

// defaultFlags mirrors the per-mode arguments scx_loader uses when a
// scheduler is started by mode and the configuration has no override.
// Missing entries mean "no arguments".
var defaultFlags = map[Scheduler]map[Mode][]string{
	Bpfland: {
		Gaming:     {"-m", "performance"},
		LowLatency: {"-s", "5000", "-l", "5000", "-m", "performance"},
		PowerSave:  {"-s", "20000", "-m", "powersave", "-I", "100", "-t", "100"},
		Server:     {"-s", "20000", "-S"},
	},
	Cosmos: {
		Gaming:     {"-c", "0", "-p", "0"},
		LowLatency: {"-m", "performance", "-c", "0", "-p", "0", "-w"},
		PowerSave:  {"-m", "powersave", "-d", "-p", "5000"},
		Server:     {"-s", "20000"},
	},
	Flash: {
		Gaming:     {"-m", "all"},
		LowLatency: {"-m", "performance", "-w", "-C", "0"},
		PowerSave:  {"-m", "powersave", "-I", "10000", "-t", "10000", "-s", "10000", "-S", "1000"},
		Server:     {"-m", "all", "-s", "20000", "-S", "1000", "-I", "-1", "-D", "-L"},
	},
	Lavd: {
		Gaming:     {"--performance"},
		LowLatency: {"--performance"},
		PowerSave:  {"--powersave"},
	},
	P2DQ: {
		Gaming:     {"--task-slice", "true", "-f", "--sched-mode", "performance"},
		LowLatency: {"-y", "-f", "--task-slice", "true"},
		PowerSave:  {"--sched-mode", "efficiency"},
		Server:     {"--keep-running"},
	},
	Tickless: {
		Gaming:     {"-f", "5000", "-s", "5000"},
		LowLatency: {"-f", "5000", "-s", "1000"},
		PowerSave:  {"-f", "50", "-p"},
		Server:     {"-f", "100"},
	},
}

// DefaultFlags returns a copy of the built-in arguments for s in mode m.
// The result is never nil.
func DefaultFlags(s Scheduler, m Mode) []string {
	flags := defaultFlags[s][m]
	if flags == nil {
		return []string{}
	}
	return slices.Clone(flags)
}

// SupportsModes reports whether s has mode-specific defaults, i.e. whether
// picking a mode other than Auto changes how it runs.
func SupportsModes(s Scheduler) bool {
	for _, m := range Modes() {
		if m != Auto && len(defaultFlags[s][m]) > 0 {
			return true
		}
	}
	return false
}
