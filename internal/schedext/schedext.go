// Package schedext reads the kernel's view of sched_ext from sysfs.
package schedext

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRoot is the sysfs directory exported by kernels with sched_ext.
const DefaultRoot = "/sys/kernel/sched_ext"

// Kernel states written to the state file.
const (
	// StateEnabled is the state reported while a BPF scheduler is attached.
	StateEnabled  = "enabled"
	StateDisabled = "disabled"
)

// State is a snapshot of the kernel sched_ext status.
type State struct {
	// Kernel is the content of the state file, e.g. "enabled" or
	// "disabled". It is empty when the file cannot be read.
	Kernel string
	// Ops is the name of the attached scheduler while enabled.
	Ops string
}

// Enabled reports whether a BPF scheduler is attached.
func (s State) Enabled() bool { return s.Kernel == StateEnabled }

// Supported reports whether the kernel exposes sched_ext at all.
func (s State) Supported() bool { return s.Kernel != "" }

// String returns the running scheduler while enabled, "unknown" when it
// cannot be named, and the kernel state otherwise.
func (s State) String() string {
	if !s.Enabled() {
		if s.Kernel == "" {
			return "unsupported"
		}
		return s.Kernel
	}
	if s.Ops == "" {
		return "unknown"
	}
	return s.Ops
}

// Reader reads State below a sysfs root.
type Reader struct {
	root string
}

// NewReader returns a Reader for root, or DefaultRoot when root is empty.
func NewReader(root string) *Reader {
	if root == "" {
		root = DefaultRoot
	}
	return &Reader{root: root}
}

// Read returns the current state. Missing or unreadable files yield empty
// fields rather than errors.
func (r *Reader) Read() State {
	st := State{Kernel: readFirstLine(filepath.Join(r.root, "state"))}
	if st.Enabled() {
		st.Ops = readFirstLine(filepath.Join(r.root, "root", "ops"))
	}
	return st
}

func readFirstLine(path string) string {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}
