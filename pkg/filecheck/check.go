package filecheck

import (
	"fmt"
	"io/fs"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
)

// Check verifies that a file or directory on a host meets requirements.
type Check struct {
	Path       string    // path to check
	ExpectFile bool      // --file: expect a regular file
	ExpectDir  bool      // --dir: expect a directory
	Mode       string    // --mode: minimum permissions (octal, e.g., "0640")
	ModeExact  string    // --mode-exact: exact permissions required
	User       string    // --user: expected owner name (empty = don't check)
	Group      string    // --group: expected group name (empty = don't check)
	Host       host.Host // host to probe
}

// Run executes the file check.
func (c *Check) Run() check.Result {
	kind := "file"
	if c.ExpectDir {
		kind = "directory"
	}
	result := check.Result{
		Name: fmt.Sprintf("%s: %s", kind, c.Path),
	}

	info, err := c.Host.File(c.Path)
	if err != nil {
		return result.Fail("probe failed", err)
	}
	if !info.Exists {
		return result.Fail("not found", nil)
	}

	if err := c.checkType(info, &result); err != nil {
		return result
	}

	result.AddDetailf("permissions: %s", host.FormatMode(info.Mode))
	result.AddDetailf("owner: %s:%s", info.User, info.Group)

	// --mode: minimum permissions check
	if c.Mode != "" {
		if err := c.checkModeMinimum(info.Mode, &result); err != nil {
			return result
		}
	}

	// --mode-exact: exact permissions check
	if c.ModeExact != "" {
		if err := c.checkModeExact(info.Mode, &result); err != nil {
			return result
		}
	}

	if c.User != "" && info.User != c.User {
		return result.Failf("owner user %s != expected %s", info.User, c.User)
	}
	if c.Group != "" && info.Group != c.Group {
		return result.Failf("owner group %s != expected %s", info.Group, c.Group)
	}

	return result.Pass()
}

func (c *Check) checkType(info host.FileInfo, result *check.Result) error {
	switch {
	case c.ExpectDir && !info.IsDirectory():
		err := fmt.Errorf("expected directory, got %s", info.Type)
		result.Fail(err.Error(), nil)
		return err
	case c.ExpectFile && !info.IsFile():
		err := fmt.Errorf("expected regular file, got %s", info.Type)
		result.Fail(err.Error(), nil)
		return err
	}
	result.AddDetailf("type: %s", info.Type)
	return nil
}

func (c *Check) checkModeMinimum(mode fs.FileMode, result *check.Result) error {
	required, err := ParseOctalMode(c.Mode)
	if err != nil {
		result.Failf("invalid mode: %v", err)
		return err
	}

	// actual permissions must include at least the required permissions
	if mode&required != required {
		err := fmt.Errorf("permissions %s do not include minimum %s", host.FormatMode(mode), host.FormatMode(required))
		result.Fail(err.Error(), nil)
		return err
	}
	return nil
}

func (c *Check) checkModeExact(mode fs.FileMode, result *check.Result) error {
	required, err := ParseOctalMode(c.ModeExact)
	if err != nil {
		result.Failf("invalid mode: %v", err)
		return err
	}

	if mode != required {
		err := fmt.Errorf("permissions %s != required %s", host.FormatMode(mode), host.FormatMode(required))
		result.Fail(err.Error(), nil)
		return err
	}
	return nil
}

// ParseOctalMode parses an octal permission string like "0755", "755" or
// "4755" into a mode comparable with host.FileInfo.Mode.
func ParseOctalMode(s string) (fs.FileMode, error) {
	var bits uint32
	if _, err := fmt.Sscanf(s, "%o", &bits); err != nil {
		return 0, fmt.Errorf("invalid octal mode %q: %w", s, err)
	}
	if bits > 0o7777 {
		return 0, fmt.Errorf("invalid octal mode %q: out of range", s)
	}
	return host.FileModeFromUnix(bits), nil
}
