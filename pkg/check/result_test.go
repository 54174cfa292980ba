package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Fail(t *testing.T) {
	r := &Result{Name: "file: /usr/local/bin/polkadot"}
	cause := errors.New("permission denied")

	result := r.Fail("stat failed", cause)

	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, []string{"stat failed"}, result.Details)

	var af *AssertionFailure
	require.ErrorAs(t, result.Err, &af)
	assert.Equal(t, "file: /usr/local/bin/polkadot", af.Check)
	assert.Equal(t, "stat failed", af.Condition)
	assert.ErrorIs(t, result.Err, cause)
	assert.ErrorIs(t, result.Err, ErrAssertion)
	assert.Equal(t, "file: /usr/local/bin/polkadot: stat failed: permission denied", result.Err.Error())
}

func TestResult_Failf(t *testing.T) {
	r := &Result{Name: "user: polkadot"}

	result := r.Failf("shell %s != expected %s", "/bin/bash", "/sbin/nologin")

	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, []string{"shell /bin/bash != expected /sbin/nologin"}, result.Details)
	assert.ErrorIs(t, result.Err, ErrAssertion)
	assert.Equal(t, "user: polkadot: shell /bin/bash != expected /sbin/nologin", result.Err.Error())
}

func TestResult_Pass(t *testing.T) {
	r := &Result{Name: "service: polkadot"}

	result := r.Pass()

	assert.True(t, result.OK())
	assert.NoError(t, result.Err)
}

func TestResult_AddDetail(t *testing.T) {
	r := &Result{Name: "test"}

	result := r.AddDetail("first detail").AddDetail("second detail")

	assert.Equal(t, []string{"first detail", "second detail"}, result.Details)
	assert.Same(t, r, result)
}

func TestResult_AddDetailf(t *testing.T) {
	r := &Result{Name: "test"}

	r.AddDetailf("mode: %04o", 0o755)

	assert.Equal(t, []string{"mode: 0755"}, r.Details)
}

func TestResultOK(t *testing.T) {
	assert.True(t, Result{Status: StatusOK}.OK())
	assert.False(t, Result{Status: StatusFail}.OK())
	assert.False(t, Result{}.OK())
}

func TestAssertionFailureWithoutCheckName(t *testing.T) {
	err := &AssertionFailure{Condition: "not listening"}
	assert.Equal(t, "not listening", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}
