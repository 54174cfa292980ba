// Package verifyfile finds and parses .hostverify files: one hostverify
// invocation per line.
package verifyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// FileName is the file FindFile looks for.
const FileName = ".hostverify"

// ErrNotFound is returned when no .hostverify file is found.
var ErrNotFound = errors.New(FileName + " file not found")

// Line is one parsed invocation.
type Line struct {
	Number int
	Args   []string
}

// String renders the line the way it would be typed.
func (l Line) String() string {
	return "hostverify " + strings.Join(l.Args, " ")
}

// FindFile returns explicitPath if set, otherwise walks up from startDir
// until it finds a .hostverify file. The walk stops at the home directory,
// at a directory holding .git, or at the file system root.
func FindFile(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("verify file not found: %w", err)
		}
		return explicitPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		if dir == homeDir {
			break
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrNotFound
}

// ParseFile reads path and parses it with Parse.
func ParseFile(path string) ([]Line, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading the operator's own verify file
	if err != nil {
		return nil, fmt.Errorf("failed to read verify file: %w", err)
	}
	return Parse(string(data))
}

// Parse splits content into invocations with shell word rules. Blank lines
// and comments are skipped and a leading "hostverify" word is dropped.
func Parse(content string) ([]Line, error) {
	lines := []Line{}
	for i, raw := range strings.Split(content, "\n") {
		args, err := shlex.Split(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if len(args) > 0 && args[0] == "hostverify" {
			args = args[1:]
		}
		if len(args) == 0 {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Args: args})
	}
	return lines, nil
}
