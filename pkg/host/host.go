// Package host queries the state of a machine without the caller knowing
// how that machine is reached. Local reads the running machine directly;
// Remote issues shell commands through a Runner (SSH, docker exec, or a
// local shell).
package host

import (
	"fmt"
	"io"
	"io/fs"
)

// Host exposes read-only probes into a machine's state.
//
// A probe that cannot determine the answer returns an error. A missing file
// or user is not an error: it is reported through the Exists field. Open is
// the exception: it fails with an error wrapping fs.ErrNotExist.
type Host interface {
	File(path string) (FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	Service(name string) (ServiceInfo, error)
	User(name string) (UserInfo, error)
	Socket(address string) (SocketInfo, error)
	Run(name string, args ...string) (CommandResult, error)
	Close() error
}

// FileType is the kind of file system entry behind a path.
type FileType string

const (
	TypeFile      FileType = "file"
	TypeDirectory FileType = "directory"
	TypeSymlink   FileType = "symlink"
	TypeSocket    FileType = "socket"
	TypeOther     FileType = "other"
)

// FileInfo describes a path on the host. Symlinks are followed.
type FileInfo struct {
	Path   string
	Exists bool
	Type   FileType
	Mode   fs.FileMode // permission bits plus setuid, setgid and sticky
	User   string      // owner name, or numeric uid when it has no name
	Group  string      // group name, or numeric gid when it has no name
	Size   int64
}

// IsFile reports whether the path is an existing regular file.
func (f FileInfo) IsFile() bool { return f.Exists && f.Type == TypeFile }

// IsDirectory reports whether the path is an existing directory.
func (f FileInfo) IsDirectory() bool { return f.Exists && f.Type == TypeDirectory }

// ServiceInfo describes an init-system service.
type ServiceInfo struct {
	Name    string
	State   string // raw enablement state, e.g. "enabled", "disabled", "static"
	Enabled bool   // set to start automatically at boot
	Running bool
}

// UserInfo describes an account on the host.
type UserInfo struct {
	Name   string
	Exists bool
	UID    int
	GID    int
	Home   string
	Shell  string
	System bool // uid below the host's UID_MIN
}

// SocketInfo describes a socket address on the host.
type SocketInfo struct {
	Address   SocketAddress
	Listening bool
}

// CommandResult is the outcome of a command run on the host. A non-zero
// exit code is not an error.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// OK reports whether the command exited with status 0.
func (c CommandResult) OK() bool { return c.ExitCode == 0 }

// FileModeFromUnix converts raw st_mode permission bits (e.g. 04755) into an
// fs.FileMode comparable with FileInfo.Mode.
func FileModeFromUnix(bits uint32) fs.FileMode {
	mode := fs.FileMode(bits & 0o777)
	if bits&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if bits&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if bits&0o1000 != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

// FormatMode renders a mode as four octal digits, e.g. "0755" or "4755".
func FormatMode(mode fs.FileMode) string {
	bits := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		bits |= 0o1000
	}
	return fmt.Sprintf("%04o", bits)
}

// permMask keeps the bits FileInfo.Mode carries.
const permMask = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky
