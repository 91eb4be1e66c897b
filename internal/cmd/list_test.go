package cmd_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scxmgr/scxmgr/internal/cmd"
	"github.com/scxmgr/scxmgr/internal/test"
)

func TestListCommand(t *testing.T) {
	t.Run("MarksRunning", func(t *testing.T) {
		th := test.SetupCommand(t)
		th.Loader.Supported = []string{"scx_bpfland", "scx_rusty"}
		th.Loader.Current = "scx_rusty"

		th.RunCommand(t, cmd.List(), test.CmdTest{
			Args:        []string{"list"},
			ExpectedOut: []string{"SCHEDULER", "scx_bpfland", "scx_rusty", "●"},
		})
	})

	t.Run("LoaderUnavailable", func(t *testing.T) {
		th := test.SetupCommand(t)
		th.Loader.Err = errors.New("service unknown")

		err := th.RunCommandWithError(t, cmd.List(), test.CmdTest{
			Args: []string{"list"},
		})
		require.Error(t, err)
	})
}
