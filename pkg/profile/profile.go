// Package profile holds the state a provisioned node host is verified
// against.
package profile

import (
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/vertti/hostverify/pkg/host"
)

// Profile lists what a correctly provisioned node host looks like.
type Profile struct {
	Name        string
	Binary      Binary
	Service     string
	User        User
	Owner       Owner    // owner of every directory
	Directories []string // must exist as directories
	Ports       []int    // must be listening on BindAddress
	BindAddress string
	RPCURL      string // JSON-RPC endpoint for the health check
	MinPeers    int
	MetricsURL  string // Prometheus exposition endpoint
}

// Binary describes the node executable.
type Binary struct {
	Path       string
	Mode       fs.FileMode
	MinVersion string // semver constraint; empty skips the version check
	SHA256     string // release checksum; empty skips the hash check
}

// User describes the service account.
type User struct {
	Name  string
	Shell string
}

// Owner is a user and group pair.
type Owner struct {
	User  string
	Group string
}

// Polkadot returns the profile of a Polkadot node installed as a systemd
// service.
func Polkadot() Profile {
	return Profile{
		Name: "polkadot",
		Binary: Binary{
			Path: "/usr/local/bin/polkadot",
			Mode: 0o755,
		},
		Service: "polkadot",
		User: User{
			Name:  "polkadot",
			Shell: "/sbin/nologin",
		},
		Owner: Owner{User: "polkadot", Group: "polkadot"},
		Directories: []string{
			"/data/polkadot",
			"/var/run/polkadot",
			"/var/log/polkadot",
		},
		Ports:       []int{30333, 9933, 9944, 9615},
		BindAddress: "0.0.0.0",
		RPCURL:      "http://127.0.0.1:9933",
		MetricsURL:  "http://127.0.0.1:9615/metrics",
	}
}

// Load reads a JSON profile and overlays it onto the Polkadot defaults.
// Fields missing from the document keep their default values.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-selected profile
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse overlays a JSON profile document onto the Polkadot defaults.
func Parse(doc string) (Profile, error) {
	if !gjson.Valid(doc) {
		return Profile{}, fmt.Errorf("invalid JSON")
	}

	p := Polkadot()
	root := gjson.Parse(doc)

	setString(root, "name", &p.Name)
	setString(root, "binary.path", &p.Binary.Path)
	setString(root, "binary.min_version", &p.Binary.MinVersion)
	setString(root, "binary.sha256", &p.Binary.SHA256)
	setString(root, "service", &p.Service)
	setString(root, "user.name", &p.User.Name)
	setString(root, "user.shell", &p.User.Shell)
	setString(root, "owner.user", &p.Owner.User)
	setString(root, "owner.group", &p.Owner.Group)
	setString(root, "bind_address", &p.BindAddress)
	setString(root, "rpc_url", &p.RPCURL)
	setString(root, "metrics_url", &p.MetricsURL)

	if v := root.Get("binary.mode"); v.Exists() {
		var bits uint32
		if _, err := fmt.Sscanf(v.String(), "%o", &bits); err != nil || bits > 0o7777 {
			return Profile{}, fmt.Errorf("binary.mode: invalid octal mode %q", v.String())
		}
		p.Binary.Mode = host.FileModeFromUnix(bits)
	}

	if v := root.Get("directories"); v.Exists() {
		if !v.IsArray() {
			return Profile{}, fmt.Errorf("directories: expected array")
		}
		p.Directories = nil
		for _, d := range v.Array() {
			p.Directories = append(p.Directories, d.String())
		}
	}

	if v := root.Get("ports"); v.Exists() {
		if !v.IsArray() {
			return Profile{}, fmt.Errorf("ports: expected array")
		}
		p.Ports = nil
		for _, port := range v.Array() {
			n := port.Int()
			if port.Type != gjson.Number || n < 1 || n > 65535 || float64(n) != port.Num {
				return Profile{}, fmt.Errorf("ports: invalid port %s", port.Raw)
			}
			p.Ports = append(p.Ports, int(n))
		}
	}

	if v := root.Get("min_peers"); v.Exists() {
		if v.Type != gjson.Number || v.Int() < 0 {
			return Profile{}, fmt.Errorf("min_peers: invalid value %s", v.Raw)
		}
		p.MinPeers = int(v.Int())
	}

	return p, p.Validate()
}

func setString(root gjson.Result, path string, dst *string) {
	if v := root.Get(path); v.Exists() {
		*dst = v.String()
	}
}

// Validate reports the first field that cannot be verified.
func (p Profile) Validate() error {
	switch {
	case p.Binary.Path == "":
		return fmt.Errorf("binary.path is required")
	case p.Service == "":
		return fmt.Errorf("service is required")
	case p.User.Name == "":
		return fmt.Errorf("user.name is required")
	case slices.Contains(p.Directories, ""):
		return fmt.Errorf("directories: empty path")
	}
	return nil
}
