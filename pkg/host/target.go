package host

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// TargetOptions tune how Open reaches a target.
type TargetOptions struct {
	SSHKeyFile     string
	KnownHostsFile string
	Insecure       bool
	Timeout        time.Duration
	// Logf, when set, receives a trace line for every command run.
	Logf func(format string, args ...any)
}

// Open returns a Host for a target URL:
//
//	local://               the running machine (also "" and "local")
//	ssh://user@host:port   a machine reachable over SSH
//	docker://container     a running container
func Open(target string, opts TargetOptions) (Host, error) {
	if target == "" || target == "local" {
		target = "local://"
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", target, err)
	}

	switch u.Scheme {
	case "local":
		return &Local{Runner: opts.wrap(&LocalRunner{})}, nil

	case "docker":
		if u.Host == "" {
			return nil, fmt.Errorf("invalid target %q: missing container name", target)
		}
		return NewRemote(opts.wrap(&DockerRunner{Container: u.Host})), nil

	case "ssh":
		cfg := SSHConfig{
			Host:           u.Hostname(),
			User:           u.User.Username(),
			KeyFile:        opts.SSHKeyFile,
			KnownHostsFile: opts.KnownHostsFile,
			Insecure:       opts.Insecure,
			Timeout:        opts.Timeout,
		}
		if cfg.Host == "" {
			return nil, fmt.Errorf("invalid target %q: missing host", target)
		}
		if p := u.Port(); p != "" {
			cfg.Port, err = strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("invalid target %q: bad port %q", target, p)
			}
		}
		runner, err := DialSSH(cfg)
		if err != nil {
			return nil, err
		}
		return NewRemote(opts.wrap(runner)), nil

	default:
		return nil, fmt.Errorf("invalid target %q: unsupported scheme %q", target, u.Scheme)
	}
}

func (o TargetOptions) wrap(r Runner) Runner {
	if o.Logf == nil {
		return r
	}
	return &TracingRunner{Runner: r, Logf: o.Logf}
}
