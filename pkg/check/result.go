package check

import "fmt"

// Status is OK or FAIL.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Result is what one check reports about the host. A failed result always
// carries an *AssertionFailure in Err.
type Result struct {
	Name    string // "file: /usr/local/bin/polkadot", "socket: tcp://0.0.0.0:9944"
	Status  Status
	Details []string
	Err     error
}

// OK reports whether the check passed.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Fail marks the result failed. The detail becomes the assertion condition;
// cause, when non-nil, is the probe error that made the condition fail.
func (r *Result) Fail(detail string, cause error) Result {
	r.Status = StatusFail
	r.Details = append(r.Details, detail)
	r.Err = &AssertionFailure{Check: r.Name, Condition: detail, Cause: cause}
	return *r
}

// Failf marks the result failed with a formatted condition and no cause.
func (r *Result) Failf(format string, args ...any) Result {
	return r.Fail(fmt.Sprintf(format, args...), nil)
}

// Pass marks the result successful.
func (r *Result) Pass() Result {
	r.Status = StatusOK
	r.Err = nil
	return *r
}

// AddDetail appends a detail line to the result.
func (r *Result) AddDetail(detail string) *Result {
	r.Details = append(r.Details, detail)
	return r
}

// AddDetailf appends a formatted detail line to the result.
func (r *Result) AddDetailf(format string, args ...any) *Result {
	return r.AddDetail(fmt.Sprintf(format, args...))
}
