// Package tag provides standardized attribute constructors for structured
// logging. All keys use kebab-case.
package tag

import (
	"log/slog"
	"time"
)

// Core identification tags

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Error creates a tag for error objects.
func Error(err any) slog.Attr {
	return slog.Any("err", err)
}

// OpID creates a tag for the id shared by every record of one apply or
// disable operation.
func OpID(id string) slog.Attr {
	return slog.String("op-id", id)
}

// Operation creates a tag for operation names.
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Scheduler tags

// Scheduler creates a tag for sched_ext scheduler names.
func Scheduler(name string) slog.Attr {
	return slog.String("scheduler", name)
}

// Mode creates a tag for scheduler modes.
func Mode(name string) slog.Attr {
	return slog.String("mode", name)
}

// Flags creates a tag for scheduler arguments.
func Flags(args []string) slog.Attr {
	return slog.Any("flags", args)
}

// State creates a tag for kernel or unit states.
func State(state string) slog.Attr {
	return slog.String("state", state)
}

// Host tags

// Unit creates a tag for systemd unit names.
func Unit(name string) slog.Attr {
	return slog.String("unit", name)
}

// Bus creates a tag for the message bus in use.
func Bus(name string) slog.Attr {
	return slog.String("bus", name)
}

// Backend creates a tag for pluggable backend names.
func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}

// Path creates a tag for file paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// File creates a tag for configuration file paths.
func File(path string) slog.Attr {
	return slog.String("file", path)
}

// Command creates a tag for external commands.
func Command(cmd string) slog.Attr {
	return slog.String("cmd", cmd)
}

// Args creates a tag for command arguments.
func Args(args []string) slog.Attr {
	return slog.Any("args", args)
}

// Timing tags

func Interval(d time.Duration) slog.Attr {
	return slog.Duration("interval", d)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Miscellaneous

// Count creates a tag for generic counts.
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Reason creates a tag for explanations of skipped or degraded steps.
func Reason(r string) slog.Attr {
	return slog.String("reason", r)
}

// Version creates a tag for version strings.
func Version(v string) slog.Attr {
	return slog.String("version", v)
}
