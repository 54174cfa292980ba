package host

import (
	"fmt"
	"strings"
)

// enabledStates are `systemctl is-enabled` answers meaning the unit starts
// at boot.
var enabledStates = map[string]bool{
	"enabled":         true,
	"enabled-runtime": true,
	"alias":           true,
}

// systemdService asks systemctl for a unit's enablement and activity.
func systemdService(r Runner, name string) (ServiceInfo, error) {
	info := ServiceInfo{Name: name}

	res, err := r.Run("systemctl", "is-enabled", name)
	if err != nil {
		return info, fmt.Errorf("service %s: %w", name, err)
	}
	if res.ExitCode == exitNotFound {
		return info, fmt.Errorf("service %s: systemctl not available", name)
	}
	info.State = firstLine(res.Stdout)
	info.Enabled = res.OK() && enabledStates[info.State]

	res, err = r.Run("systemctl", "is-active", name)
	if err != nil {
		return info, fmt.Errorf("service %s: %w", name, err)
	}
	info.Running = res.OK() && firstLine(res.Stdout) == "active"

	return info, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
