package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Sentinel is the output Run reports when the command could not be started
// or exited with a non-zero status.
const Sentinel = "-1"

// ErrCommandIsEmpty is returned when there is nothing to execute.
var ErrCommandIsEmpty = errors.New("command is empty")

// ExitError describes a child process that failed to start or exited with a
// non-zero status. Code is -1 when the process never ran.
type ExitError struct {
	Name   string
	Args   []string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	cmdline := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("command %q failed (exit code %d)", cmdline, e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner executes external commands on behalf of the probes and actions
// that touch the host.
type Runner interface {
	// Run executes command through a shell and returns its output or
	// Sentinel.
	Run(ctx context.Context, command string) string
	// Exec runs name with args directly and waits for it to exit.
	Exec(ctx context.Context, name string, args ...string) error
}

// ShellRunner is the Runner backed by os/exec.
type ShellRunner struct {
	shell string
}

var _ Runner = (*ShellRunner)(nil)

// NewRunner returns a Runner that evaluates Run commands with shell. An
// empty shell selects the default from GetShellCommand.
func NewRunner(shell string) *ShellRunner {
	return &ShellRunner{shell: GetShellCommand(shell)}
}

// Shell returns the shell used by Run.
func (r *ShellRunner) Shell() string { return r.shell }

// Run executes `<shell> -c command` and returns its standard output with
// one trailing newline removed. Stderr is discarded. Any failure yields
// Sentinel; callers treat it as "unknown" and do not distinguish causes.
func (r *ShellRunner) Run(ctx context.Context, command string) string {
	if strings.TrimSpace(command) == "" {
		return Sentinel
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, r.shell, "-c", command) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &bytes.Buffer{}
	if err := cmd.Run(); err != nil {
		return Sentinel
	}
	return strings.TrimSuffix(stdout.String(), "\n")
}

// Exec runs name with args, without a shell, and blocks until it exits.
// The child shares the caller's terminal so interactive authentication
// prompts keep working.
func (r *ShellRunner) Exec(ctx context.Context, name string, args ...string) error {
	if name == "" {
		return ErrCommandIsEmpty
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExitError{Name: name, Args: args, Code: code, Stderr: stderr.String(), Err: err}
	}
	return nil
}

var defaultRunner = NewRunner("")

// Run executes command with the default shell runner.
func Run(ctx context.Context, command string) string {
	return defaultRunner.Run(ctx, command)
}

// Exec runs name with args using the default runner.
func Exec(ctx context.Context, name string, args ...string) error {
	return defaultRunner.Exec(ctx, name, args...)
}

// IsSentinel reports whether output is the failure marker returned by Run.
func IsSentinel(output string) bool {
	return output == Sentinel
}

// GetShellCommand returns the shell used to evaluate command strings.
// $SHELL is not consulted; probe commands are written for a POSIX shell.
func GetShellCommand(configuredShell string) string {
	if configuredShell != "" {
		return configuredShell
	}

	if defaultShell := os.Getenv("SCXMGR_DEFAULT_SHELL"); defaultShell != "" {
		return defaultShell
	}

	if shPath, err := exec.LookPath("sh"); err == nil {
		return shPath
	}

	return "sh"
}
