//go:build unix

package exec

import (
	"fmt"
	"syscall"
)

var execFunc = syscall.Exec

// Exec replaces the current process with name. argv[0] is the name as
// given, the binary is resolved through PATH.
func (e *RealExecutor) Exec(name string, args []string) error {
	binary, err := lookPath(name)
	if err != nil {
		return fmt.Errorf("exec %s: %w", name, err)
	}

	argv := append([]string{name}, args...)
	// #nosec G204 -- the command comes from the operator's own argv
	if err := execFunc(binary, argv, environ()); err != nil {
		return fmt.Errorf("exec %s: %w", binary, err)
	}
	return nil
}
