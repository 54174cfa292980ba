package check

import (
	"errors"
	"fmt"
)

// ErrAssertion matches every *AssertionFailure via errors.Is.
var ErrAssertion = errors.New("assertion failed")

// AssertionFailure is the only failure kind a check reports. It names the
// check and the condition that did not hold.
type AssertionFailure struct {
	Check     string
	Condition string
	Cause     error
}

func (e *AssertionFailure) Error() string {
	msg := e.Condition
	if e.Check != "" {
		msg = e.Check + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *AssertionFailure) Is(target error) bool {
	return target == ErrAssertion
}

func (e *AssertionFailure) Unwrap() error {
	return e.Cause
}
