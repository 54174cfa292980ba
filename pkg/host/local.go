package host

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local probes the machine the process runs on.
type Local struct {
	// SysRoot prefixes /etc and /proc lookups. Empty means "/".
	SysRoot string
	// Runner runs systemctl and Run commands. LocalRunner when nil.
	Runner Runner
}

// NewLocal returns a Local host for the running machine.
func NewLocal() *Local {
	return &Local{Runner: &LocalRunner{}}
}

var _ Host = (*Local)(nil)

func (l *Local) sysPath(p string) string {
	if l.SysRoot == "" {
		return p
	}
	return filepath.Join(l.SysRoot, p)
}

func (l *Local) runner() Runner {
	if l.Runner == nil {
		return &LocalRunner{}
	}
	return l.Runner
}

func (l *Local) readSys(p string) (string, error) {
	data, err := os.ReadFile(l.sysPath(p))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// File stats a path, following symlinks.
func (l *Local) File(path string) (FileInfo, error) {
	info := FileInfo{Path: path}

	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("stat %s: %w", path, err)
	}

	info.Exists = true
	info.Type = fileType(st.Mode())
	info.Mode = st.Mode() & permMask
	info.Size = st.Size()

	uid, gid, err := fileOwner(path)
	if err != nil {
		return info, fmt.Errorf("owner of %s: %w", path, err)
	}
	info.User = nameOrID(l.names("/etc/passwd"), uid)
	info.Group = nameOrID(l.names("/etc/group"), gid)

	return info, nil
}

// Open opens a file for reading.
func (l *Local) Open(path string) (io.ReadCloser, error) {
	return os.Open(path) //nolint:gosec // reading a path the operator asked for
}

func (l *Local) names(db string) map[int]string {
	content, err := l.readSys(db)
	if err != nil {
		return nil
	}
	return idNames(content)
}

func fileType(mode fs.FileMode) FileType {
	switch {
	case mode.IsRegular():
		return TypeFile
	case mode.IsDir():
		return TypeDirectory
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	case mode&fs.ModeSocket != 0:
		return TypeSocket
	default:
		return TypeOther
	}
}

// Service asks systemctl about a unit.
func (l *Local) Service(name string) (ServiceInfo, error) {
	return systemdService(l.runner(), name)
}

// User looks a user up in /etc/passwd. The system flag compares the uid
// against UID_MIN from /etc/login.defs.
func (l *Local) User(name string) (UserInfo, error) {
	passwd, err := l.readSys("/etc/passwd")
	if err != nil {
		return UserInfo{Name: name}, fmt.Errorf("read passwd: %w", err)
	}

	u, ok := lookupPasswd(passwd, name)
	if !ok {
		return UserInfo{Name: name}, nil
	}

	loginDefs, _ := l.readSys("/etc/login.defs")
	u.System = u.UID < parseUIDMin(loginDefs)
	return u, nil
}

// Socket reports whether anything listens on the address, using /proc/net.
func (l *Local) Socket(address string) (SocketInfo, error) {
	addr, err := ParseSocketAddress(address)
	if err != nil {
		return SocketInfo{}, err
	}

	listeners, err := l.listeners(addr.Protocol)
	if err != nil {
		return SocketInfo{Address: addr}, err
	}
	return SocketInfo{Address: addr, Listening: addr.Listening(listeners)}, nil
}

func (l *Local) listeners(proto string) ([]Listener, error) {
	if proto == "unix" {
		content, err := l.readSys("/proc/net/unix")
		if err != nil {
			return nil, fmt.Errorf("read unix sockets: %w", err)
		}
		return parseProcNetUnix(content), nil
	}

	var listeners []Listener
	read := 0
	for _, f := range procNetFiles {
		if f.proto != proto {
			continue
		}
		content, err := l.readSys(f.path)
		if err != nil {
			// tcp6/udp6 are absent when IPv6 is disabled
			continue
		}
		read++
		listeners = append(listeners, parseProcNetInet(content, f.proto, f.ipv6)...)
	}
	if read == 0 {
		return nil, fmt.Errorf("no %s socket tables under %s", proto, l.sysPath("/proc/net"))
	}
	return listeners, nil
}

// Run executes a command on the local machine.
func (l *Local) Run(name string, args ...string) (CommandResult, error) {
	return l.runner().Run(name, args...)
}

// Close releases the runner.
func (l *Local) Close() error {
	return l.runner().Close()
}
