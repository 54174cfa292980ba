//go:build windows

package exec

import "errors"

// ErrExecNotSupported indicates entrypoint mode is not available on Windows.
var ErrExecNotSupported = errors.New("entrypoint mode not supported on Windows")

// Exec is not supported on Windows.
func (e *RealExecutor) Exec(name string, args []string) error {
	return ErrExecNotSupported
}
