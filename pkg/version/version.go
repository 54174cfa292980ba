// Package version extracts release numbers from program output and matches
// them against semver constraints.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// versionRegex matches version patterns like 1.2.3, v1.2, 18, etc.
var versionRegex = regexp.MustCompile(`v?(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// Extract finds the first version number in s, e.g. "1.15.2" in
// "polkadot 1.15.2-1a2b3c4d". Build and commit suffixes are dropped, so
// the result never counts as a prerelease.
func Extract(s string) (*semver.Version, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("no version found in: %q", s)
	}

	parts := [3]uint64{}
	for i, g := range m[1:] {
		if g == "" {
			continue
		}
		n, err := strconv.ParseUint(g, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version in %q: %w", s, err)
		}
		parts[i] = n
	}

	return semver.New(parts[0], parts[1], parts[2], "", ""), nil
}

// Constraint builds a semver constraint. A bare version ("1.2.0") means
// "at least that version".
func Constraint(s string) (*semver.Constraints, error) {
	if _, err := semver.StrictNewVersion(s); err == nil {
		s = ">= " + s
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", s, err)
	}
	return c, nil
}
