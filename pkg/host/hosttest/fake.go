// Package hosttest provides an in-memory host.Host for tests.
package hosttest

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/vertti/hostverify/pkg/host"
)

// Fake is an in-memory host. Unknown files and users do not exist, unknown
// services are disabled and unknown sockets are not listening. Errors set
// in the *Err maps are returned by the matching probe.
type Fake struct {
	Files     map[string]host.FileInfo
	Services  map[string]host.ServiceInfo
	Users     map[string]host.UserInfo
	Listeners []host.Listener
	Commands  map[string]host.CommandResult // keyed by the space-joined command line
	Contents  map[string]string             // file contents returned by Open

	FileErr    map[string]error
	ServiceErr map[string]error
	UserErr    map[string]error
	SocketErr  error

	// Calls counts probe invocations, keyed "file:/path", "service:name", ...
	Calls  map[string]int
	Closed bool
}

var _ host.Host = (*Fake)(nil)

// New returns an empty fake host.
func New() *Fake {
	return &Fake{
		Files:      map[string]host.FileInfo{},
		Services:   map[string]host.ServiceInfo{},
		Users:      map[string]host.UserInfo{},
		Commands:   map[string]host.CommandResult{},
		Contents:   map[string]string{},
		FileErr:    map[string]error{},
		ServiceErr: map[string]error{},
		UserErr:    map[string]error{},
		Calls:      map[string]int{},
	}
}

func (f *Fake) count(key string) {
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[key]++
}

// AddFile registers a regular file.
func (f *Fake) AddFile(path string, mode uint32, user, group string) *Fake {
	f.Files[path] = host.FileInfo{
		Path: path, Exists: true, Type: host.TypeFile,
		Mode: host.FileModeFromUnix(mode), User: user, Group: group,
	}
	return f
}

// AddDir registers a directory.
func (f *Fake) AddDir(path string, mode uint32, user, group string) *Fake {
	f.Files[path] = host.FileInfo{
		Path: path, Exists: true, Type: host.TypeDirectory,
		Mode: host.FileModeFromUnix(mode), User: user, Group: group,
	}
	return f
}

// AddService registers a service.
func (f *Fake) AddService(name string, enabled, running bool) *Fake {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	f.Services[name] = host.ServiceInfo{Name: name, State: state, Enabled: enabled, Running: running}
	return f
}

// AddUser registers a user.
func (f *Fake) AddUser(name string, uid int, shell string, system bool) *Fake {
	f.Users[name] = host.UserInfo{
		Name: name, Exists: true, UID: uid, GID: uid,
		Home: "/home/" + name, Shell: shell, System: system,
	}
	return f
}

// Listen registers a TCP listener.
func (f *Fake) Listen(bindAddress string, port int) *Fake {
	f.Listeners = append(f.Listeners, host.Listener{Protocol: "tcp", Host: bindAddress, Port: port})
	return f
}

// AddContent registers a regular file with content.
func (f *Fake) AddContent(path string, mode uint32, content string) *Fake {
	f.AddFile(path, mode, "root", "root")
	info := f.Files[path]
	info.Size = int64(len(content))
	f.Files[path] = info
	f.Contents[path] = content
	return f
}

// AddCommand registers the result of a command line.
func (f *Fake) AddCommand(line string, res host.CommandResult) *Fake {
	f.Commands[line] = res
	return f
}

func (f *Fake) File(path string) (host.FileInfo, error) {
	f.count("file:" + path)
	if err := f.FileErr[path]; err != nil {
		return host.FileInfo{Path: path}, err
	}
	if info, ok := f.Files[path]; ok {
		return info, nil
	}
	return host.FileInfo{Path: path}, nil
}

func (f *Fake) Open(path string) (io.ReadCloser, error) {
	f.count("open:" + path)
	if err := f.FileErr[path]; err != nil {
		return nil, err
	}
	content, ok := f.Contents[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (f *Fake) Service(name string) (host.ServiceInfo, error) {
	f.count("service:" + name)
	if err := f.ServiceErr[name]; err != nil {
		return host.ServiceInfo{Name: name}, err
	}
	if info, ok := f.Services[name]; ok {
		return info, nil
	}
	return host.ServiceInfo{Name: name, State: "not-found"}, nil
}

func (f *Fake) User(name string) (host.UserInfo, error) {
	f.count("user:" + name)
	if err := f.UserErr[name]; err != nil {
		return host.UserInfo{Name: name}, err
	}
	if info, ok := f.Users[name]; ok {
		return info, nil
	}
	return host.UserInfo{Name: name}, nil
}

func (f *Fake) Socket(address string) (host.SocketInfo, error) {
	f.count("socket:" + address)
	addr, err := host.ParseSocketAddress(address)
	if err != nil {
		return host.SocketInfo{}, err
	}
	if f.SocketErr != nil {
		return host.SocketInfo{Address: addr}, f.SocketErr
	}
	return host.SocketInfo{Address: addr, Listening: addr.Listening(f.Listeners)}, nil
}

func (f *Fake) Run(name string, args ...string) (host.CommandResult, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.count("run:" + line)
	if res, ok := f.Commands[line]; ok {
		return res, nil
	}
	return host.CommandResult{ExitCode: 127, Stderr: fmt.Sprintf("%s: command not found", name)}, nil
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}
