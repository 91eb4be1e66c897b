package systemd

import (
	"fmt"

	"github.com/scxmgr/scxmgr/internal/cmn/cmdutil"
)

// New returns the backend named by backend. systemctl is used when backend
// is empty.
func New(backend string, runner cmdutil.Runner, systemctl string) (Units, error) {
	switch backend {
	case "", BackendSystemctl:
		return NewSystemctl(runner, systemctl), nil
	case BackendDBus:
		return NewDBus(), nil
	default:
		return nil, fmt.Errorf("unknown unit backend %q", backend)
	}
}
