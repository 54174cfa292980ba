package host

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes how to reach a host over SSH.
type SSHConfig struct {
	Host           string
	Port           int           // default 22
	User           string        // default $USER
	KeyFile        string        // default ~/.ssh/id_ed25519, then ~/.ssh/id_rsa
	KnownHostsFile string        // default ~/.ssh/known_hosts
	Insecure       bool          // skip host key verification
	Timeout        time.Duration // dial timeout, default 5s
}

// SSHRunner runs commands on a remote host over one SSH connection,
// opening a session per command.
type SSHRunner struct {
	client *ssh.Client
}

// DialSSH connects to the host described by cfg.
func DialSSH(cfg SSHConfig) (*SSHRunner, error) {
	clientCfg, addr, err := cfg.clientConfig()
	if err != nil {
		return nil, err
	}

	client, err := ssh.Dial("tcp", addr, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	return &SSHRunner{client: client}, nil
}

func (cfg SSHConfig) clientConfig() (*ssh.ClientConfig, string, error) {
	home, _ := os.UserHomeDir()

	user := cfg.User
	if user == "" {
		user = os.Getenv("USER")
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	signer, err := loadSigner(cfg.KeyFile, home)
	if err != nil {
		return nil, "", err
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // only with --insecure
	if !cfg.Insecure {
		khFile := cfg.KnownHostsFile
		if khFile == "" {
			khFile = filepath.Join(home, ".ssh", "known_hosts")
		}
		hostKeyCallback, err = knownhosts.New(khFile)
		if err != nil {
			return nil, "", fmt.Errorf("load known hosts: %w", err)
		}
	}

	return &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}, net.JoinHostPort(cfg.Host, strconv.Itoa(port)), nil
}

func loadSigner(keyFile, home string) (ssh.Signer, error) {
	candidates := []string{keyFile}
	if keyFile == "" {
		candidates = []string{
			filepath.Join(home, ".ssh", "id_ed25519"),
			filepath.Join(home, ".ssh", "id_rsa"),
		}
	}

	var lastErr error
	for _, path := range candidates {
		pem, err := os.ReadFile(path) //nolint:gosec // user-selected key file
		if err != nil {
			lastErr = err
			continue
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parse private key %s: %w", path, err)
		}
		return signer, nil
	}
	return nil, fmt.Errorf("no usable ssh private key: %w", lastErr)
}

// Run executes a command in a new session.
func (r *SSHRunner) Run(name string, args ...string) (CommandResult, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return CommandResult{}, fmt.Errorf("ssh session: %w", err)
	}
	defer func() { _ = session.Close() }()

	var outBuf, errBuf bytes.Buffer
	session.Stdout = &outBuf
	session.Stderr = &errBuf

	err = session.Run(shellJoin(append([]string{name}, args...)))
	res := CommandResult{Stdout: outBuf.String(), Stderr: errBuf.String()}

	var exitErr *ssh.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitStatus()
	default:
		return res, fmt.Errorf("ssh run %s: %w", name, err)
	}
	return res, nil
}

// Close closes the SSH connection.
func (r *SSHRunner) Close() error {
	return r.client.Close()
}
