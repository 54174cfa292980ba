package host

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// statFormat prints type, octal mode, owner, group and size, separated by |.
const statFormat = "%F|%a|%U|%G|%s"

// Remote probes a host by running standard Unix commands through a Runner:
// stat, getent, systemctl and cat of /proc/net tables.
type Remote struct {
	Runner Runner
}

// NewRemote returns a host backed by the runner.
func NewRemote(r Runner) *Remote {
	return &Remote{Runner: r}
}

var _ Host = (*Remote)(nil)

// runC runs a command in the C locale, so its error messages can be matched.
func (r *Remote) runC(name string, args ...string) (CommandResult, error) {
	return r.Runner.Run("env", append([]string{"LC_ALL=C", name}, args...)...)
}

// missingFile reports whether stderr from a C-locale command names a
// missing path.
func missingFile(stderr string) bool {
	return strings.Contains(stderr, "No such file or directory")
}

// File stats a path with `stat -L`.
func (r *Remote) File(path string) (FileInfo, error) {
	info := FileInfo{Path: path}

	res, err := r.runC("stat", "-L", "-c", statFormat, "--", path)
	if err != nil {
		return info, fmt.Errorf("stat %s: %w", path, err)
	}
	if !res.OK() {
		if missingFile(res.Stderr) {
			return info, nil
		}
		return info, fmt.Errorf("stat %s: exit %d: %s", path, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	return parseStatLine(path, firstLine(res.Stdout))
}

// Open reads a whole file with `cat`.
func (r *Remote) Open(path string) (io.ReadCloser, error) {
	res, err := r.runC("cat", "--", path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !res.OK() {
		if missingFile(res.Stderr) {
			return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: exit %d: %s", path, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return io.NopCloser(strings.NewReader(res.Stdout)), nil
}

func parseStatLine(path, line string) (FileInfo, error) {
	info := FileInfo{Path: path}

	fields := strings.Split(line, "|")
	if len(fields) != 5 {
		return info, fmt.Errorf("stat %s: unexpected output %q", path, line)
	}

	bits, err := strconv.ParseUint(fields[1], 8, 32)
	if err != nil {
		return info, fmt.Errorf("stat %s: bad mode %q", path, fields[1])
	}
	size, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return info, fmt.Errorf("stat %s: bad size %q", path, fields[4])
	}

	info.Exists = true
	info.Type = statType(fields[0])
	info.Mode = FileModeFromUnix(uint32(bits))
	info.User = fields[2]
	info.Group = fields[3]
	info.Size = size
	return info, nil
}

func statType(s string) FileType {
	switch s {
	case "regular file", "regular empty file":
		return TypeFile
	case "directory":
		return TypeDirectory
	case "symbolic link":
		return TypeSymlink
	case "socket":
		return TypeSocket
	default:
		return TypeOther
	}
}

// Service asks systemctl about a unit.
func (r *Remote) Service(name string) (ServiceInfo, error) {
	return systemdService(r.Runner, name)
}

// getentNotFound is getent's status for a key missing from the database.
const getentNotFound = 2

// User looks a user up with `getent passwd`, so NSS sources count too.
func (r *Remote) User(name string) (UserInfo, error) {
	res, err := r.Runner.Run("getent", "passwd", name)
	if err != nil {
		return UserInfo{Name: name}, fmt.Errorf("getent passwd %s: %w", name, err)
	}
	if res.ExitCode == getentNotFound {
		return UserInfo{Name: name}, nil
	}
	if !res.OK() {
		return UserInfo{Name: name}, fmt.Errorf("getent passwd %s: exit %d", name, res.ExitCode)
	}

	u, ok := parsePasswdLine(firstLine(res.Stdout))
	if !ok {
		return UserInfo{Name: name}, fmt.Errorf("getent passwd %s: unexpected output %q", name, res.Stdout)
	}

	uidMin := defaultUIDMin
	if defs, err := r.Runner.Run("cat", "/etc/login.defs"); err == nil && defs.OK() {
		uidMin = parseUIDMin(defs.Stdout)
	}
	u.System = u.UID < uidMin
	return u, nil
}

// Socket reads the host's /proc/net tables and matches the address.
func (r *Remote) Socket(address string) (SocketInfo, error) {
	addr, err := ParseSocketAddress(address)
	if err != nil {
		return SocketInfo{}, err
	}

	listeners, err := r.listeners(addr.Protocol)
	if err != nil {
		return SocketInfo{Address: addr}, err
	}
	return SocketInfo{Address: addr, Listening: addr.Listening(listeners)}, nil
}

func (r *Remote) listeners(proto string) ([]Listener, error) {
	if proto == "unix" {
		res, err := r.Runner.Run("cat", "/proc/net/unix")
		if err != nil {
			return nil, fmt.Errorf("read unix sockets: %w", err)
		}
		if !res.OK() {
			return nil, fmt.Errorf("read unix sockets: exit %d", res.ExitCode)
		}
		return parseProcNetUnix(res.Stdout), nil
	}

	var listeners []Listener
	read := 0
	for _, f := range procNetFiles {
		if f.proto != proto {
			continue
		}
		res, err := r.Runner.Run("cat", f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		if !res.OK() {
			continue
		}
		read++
		listeners = append(listeners, parseProcNetInet(res.Stdout, f.proto, f.ipv6)...)
	}
	if read == 0 {
		return nil, fmt.Errorf("no %s socket tables on host", proto)
	}
	return listeners, nil
}

// Run executes a command on the host.
func (r *Remote) Run(name string, args ...string) (CommandResult, error) {
	return r.Runner.Run(name, args...)
}

// Close closes the runner.
func (r *Remote) Close() error {
	return r.Runner.Close()
}
