package cmd_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scxmgr/scxmgr/internal/cmd"
	"github.com/scxmgr/scxmgr/internal/scx"
	"github.com/scxmgr/scxmgr/internal/test"
)

const seededDocument = `default_sched = "scx_bpfland"
default_mode = "Gaming"

[scheds.scx_bpfland]
gaming_mode = ["-k", "-m", "performance"]
`

func TestDisableCommand(t *testing.T) {
	t.Run("ClearsSelectionKeepsOverrides", func(t *testing.T) {
		th := test.SetupCommand(t, test.WithLoaderDocument(seededDocument))
		th.RunCommand(t, cmd.Disable(), test.CmdTest{
			Args:        []string{"disable"},
			ExpectedOut: []string{"Scheduler disabled", "disabled"},
		})

		assert.Equal(t, 1, th.Loader.Count("StopScheduler"))

		doc := th.LoaderDocument(t)
		_, _, ok := doc.Selection()
		assert.False(t, ok)
		override, ok := doc.Override(scx.Bpfland, scx.Gaming)
		require.True(t, ok)
		assert.Equal(t, []string{"-k", "-m", "performance"}, override)
	})

	t.Run("StopFailureIsWarned", func(t *testing.T) {
		th := test.SetupCommand(t, test.WithLoaderDocument(seededDocument))
		th.Loader.StopErr = errors.New("no scheduler running")

		th.RunCommand(t, cmd.Disable(), test.CmdTest{
			Args:        []string{"disable"},
			ExpectedOut: []string{"Failed to stop scheduler"},
		})
		_, _, ok := th.LoaderDocument(t).Selection()
		assert.False(t, ok)
	})

	t.Run("RejectsArguments", func(t *testing.T) {
		th := test.SetupCommand(t)
		err := th.RunCommandWithError(t, cmd.Disable(), test.CmdTest{
			Args: []string{"disable", "scx_lavd"},
		})
		require.Error(t, err)
	})
}
