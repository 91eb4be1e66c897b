package scx

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is a usage profile that selects per-scheduler default flags.
// The numeric values are the wire encoding used by scx_loader and must not
// be reordered.
type Mode uint32

const (
	Auto       Mode = 0
	Gaming     Mode = 1
	PowerSave  Mode = 2
	LowLatency Mode = 3
	Server     Mode = 4
)

var modeNames = [...]string{
	Auto:       "Auto",
	Gaming:     "Gaming",
	PowerSave:  "PowerSave",
	LowLatency: "LowLatency",
	Server:     "Server",
}

// Modes returns all modes ordered by their code.
func Modes() []Mode {
	return []Mode{Auto, Gaming, PowerSave, LowLatency, Server}
}

// ParseModeCode decodes the integer encoding of a mode.
func ParseModeCode(code uint32) (Mode, error) {
	if code >= uint32(len(modeNames)) {
		return 0, fmt.Errorf("%w: code %d", ErrInvalidMode, code)
	}
	return Mode(code), nil
}

// ParseModeName accepts a mode name in any letter case, with or without a
// "_mode" suffix, or its decimal code.
func ParseModeName(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, "_mode")
	if code, err := strconv.ParseUint(key, 10, 32); err == nil {
		return ParseModeCode(uint32(code))
	}
	for i, n := range modeNames {
		if strings.ToLower(n) == key {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// Valid reports whether m has a known encoding.
func (m Mode) Valid() bool {
	return uint32(m) < uint32(len(modeNames))
}

// Code returns the integer encoding.
func (m Mode) Code() uint32 {
	return uint32(m)
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
	return modeNames[m]
}

// Key returns the configuration key prefix for the mode, e.g. "lowlatency".
func (m Mode) Key() string {
	return strings.ToLower(m.String())
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: code %d", ErrInvalidMode, uint32(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the canonical
// names are accepted so that documents written by scx_loader round-trip.
func (m *Mode) UnmarshalText(text []byte) error {
	for i, n := range modeNames {
		if n == string(text) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidMode, string(text))
}
