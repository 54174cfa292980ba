// Package exec hands the process over to the node command once every
// verification has passed.
package exec

import (
	"errors"
	"os"
	"os/exec"
)

// ErrNoCommand is returned when an entrypoint has no command after "--".
var ErrNoCommand = errors.New("no command given after --")

// Executor replaces the running process with another program.
type Executor interface {
	Exec(name string, args []string) error
}

// RealExecutor execs through the operating system.
type RealExecutor struct{}

var (
	lookPath = exec.LookPath
	environ  = os.Environ
)

// SplitArgs separates the verifier arguments from the command that follows
// a "--" separator. cmd is nil when there is no separator.
func SplitArgs(args []string) (verifyArgs, cmd []string) {
	for i, a := range args {
		if a == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// Run execs cmd, which must hold at least the program name.
func Run(e Executor, cmd []string) error {
	if len(cmd) == 0 {
		return ErrNoCommand
	}
	return e.Exec(cmd[0], cmd[1:])
}
