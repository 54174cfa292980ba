package usercheck

import (
	"fmt"
	"strconv"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
)

// Check verifies a user exists and optionally validates shell, system flag,
// uid, gid and home.
type Check struct {
	Username string    // username to check
	Shell    string    // expected login shell (empty = don't check)
	System   bool      // must be a system account
	UID      string    // expected uid (empty = don't check)
	GID      string    // expected gid (empty = don't check)
	Home     string    // expected home directory (empty = don't check)
	Host     host.Host // host to probe
}

// Run executes the user check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: fmt.Sprintf("user: %s", c.Username),
	}

	u, err := c.Host.User(c.Username)
	if err != nil {
		return result.Fail("probe failed", err)
	}
	if !u.Exists {
		return result.Failf("user not found")
	}

	result.AddDetailf("uid: %d", u.UID).
		AddDetailf("gid: %d", u.GID).
		AddDetailf("home: %s", u.Home).
		AddDetailf("shell: %s", u.Shell)

	checks := []struct {
		name     string
		expected string
		actual   string
	}{
		{"uid", c.UID, strconv.Itoa(u.UID)},
		{"gid", c.GID, strconv.Itoa(u.GID)},
		{"home", c.Home, u.Home},
		{"shell", c.Shell, u.Shell},
	}

	for _, chk := range checks {
		if chk.expected != "" && chk.actual != chk.expected {
			return result.Failf("%s %s != expected %s", chk.name, chk.actual, chk.expected)
		}
	}

	if c.System && !u.System {
		return result.Failf("not a system account (uid %d)", u.UID)
	}

	return result.Pass()
}
