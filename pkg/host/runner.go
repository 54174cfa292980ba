package host

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
)

// exitNotFound is the shell's exit status for a command that does not exist.
const exitNotFound = 127

// Runner executes commands on a host. A command that runs and exits
// non-zero is reported through CommandResult.ExitCode, not as an error.
type Runner interface {
	Run(name string, args ...string) (CommandResult, error)
	Close() error
}

// LocalRunner runs commands on the current machine.
type LocalRunner struct{}

// Run executes a command and returns its output and exit status.
func (r *LocalRunner) Run(name string, args ...string) (CommandResult, error) {
	cmd := exec.Command(name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	res := CommandResult{Stdout: outBuf.String(), Stderr: errBuf.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		res.ExitCode = exitNotFound
		res.Stderr = err.Error()
	default:
		return res, fmt.Errorf("run %s: %w", name, err)
	}
	return res, nil
}

// Close is a no-op.
func (r *LocalRunner) Close() error { return nil }

// dockerDaemonError is the status docker exec uses for its own failures.
const dockerDaemonError = 125

// DockerRunner runs commands inside a container with `docker exec`.
type DockerRunner struct {
	Container string
	Exec      Runner // runs the docker client; LocalRunner when nil
}

// Run executes a command in the container.
func (r *DockerRunner) Run(name string, args ...string) (CommandResult, error) {
	runner := r.Exec
	if runner == nil {
		runner = &LocalRunner{}
	}

	dockerArgs := append([]string{"exec", r.Container, name}, args...)
	res, err := runner.Run("docker", dockerArgs...)
	if err != nil {
		return res, err
	}
	if res.ExitCode == dockerDaemonError {
		return res, fmt.Errorf("docker exec in %s: %s", r.Container, strings.TrimSpace(res.Stderr))
	}
	return res, nil
}

// Close is a no-op.
func (r *DockerRunner) Close() error { return nil }

// TracingRunner reports every command and its exit status to Logf.
type TracingRunner struct {
	Runner Runner
	Logf   func(format string, args ...any)
}

// Run executes the command through the wrapped runner.
func (r *TracingRunner) Run(name string, args ...string) (CommandResult, error) {
	line := shellJoin(append([]string{name}, args...))
	res, err := r.Runner.Run(name, args...)
	if err != nil {
		r.Logf("run %s: %v", line, err)
	} else {
		r.Logf("run %s: exit %d", line, res.ExitCode)
	}
	return res, err
}

// Close closes the wrapped runner.
func (r *TracingRunner) Close() error { return r.Runner.Close() }

// shellJoin quotes words for a POSIX shell.
func shellJoin(words []string) string {
	return shellescape.QuoteCommand(words)
}
