// Package scx defines the sched_ext schedulers and operating modes known to
// scx_loader, together with their built-in per-mode flags.
package scx

import (
	"fmt"
	"strings"
)

// Scheduler identifies a sched_ext scheduler supported by scx_loader.
type Scheduler int

const (
	Bpfland Scheduler = iota
	Cosmos
	Flash
	Lavd
	P2DQ
	Rustland
	Rusty
	Tickless
)

// schedulerNames holds the canonical names indexed by Scheduler.
var schedulerNames = [...]string{
	Bpfland:  "scx_bpfland",
	Cosmos:   "scx_cosmos",
	Flash:    "scx_flash",
	Lavd:     "scx_lavd",
	P2DQ:     "scx_p2dq",
	Rustland: "scx_rustland",
	Rusty:    "scx_rusty",
	Tickless: "scx_tickless",
}

// Schedulers returns every known scheduler in canonical order.
func Schedulers() []Scheduler {
	all := make([]Scheduler, len(schedulerNames))
	for i := range schedulerNames {
		all[i] = Scheduler(i)
	}
	return all
}

// ParseScheduler resolves a canonical scheduler name.
func ParseScheduler(name string) (Scheduler, error) {
	for i, n := range schedulerNames {
		if n == name {
			return Scheduler(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidScheduler, name)
}

// Valid reports whether s is one of the known schedulers.
func (s Scheduler) Valid() bool {
	return s >= 0 && int(s) < len(schedulerNames)
}

func (s Scheduler) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Scheduler(%d)", int(s))
	}
	return schedulerNames[s]
}

// ShortName returns the name without the "scx_" prefix.
func (s Scheduler) ShortName() string {
	return strings.TrimPrefix(s.String(), "scx_")
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheduler) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScheduler, int(s))
	}
	return []byte(schedulerNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheduler) UnmarshalText(text []byte) error {
	parsed, err := ParseScheduler(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
