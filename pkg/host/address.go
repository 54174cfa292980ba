package host

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// SocketAddress identifies a socket to look for, parsed from strings such as
// "tcp://0.0.0.0:30333", "udp://9933" or "unix:///run/node.sock".
type SocketAddress struct {
	Protocol string // tcp, udp or unix
	Host     string // empty matches any local address
	Port     int
	Path     string // unix sockets only
}

// ParseSocketAddress parses a socket address string. A missing host means
// any address; IPv6 hosts are written in brackets ("tcp://[::1]:9944").
func ParseSocketAddress(s string) (SocketAddress, error) {
	proto, rest, ok := strings.Cut(s, "://")
	if !ok {
		return SocketAddress{}, fmt.Errorf("invalid socket address %q: missing protocol", s)
	}

	switch proto {
	case "unix":
		if rest == "" {
			return SocketAddress{}, fmt.Errorf("invalid socket address %q: missing path", s)
		}
		return SocketAddress{Protocol: proto, Path: rest}, nil
	case "tcp", "udp":
	default:
		return SocketAddress{}, fmt.Errorf("invalid socket address %q: unsupported protocol %q", s, proto)
	}

	hostPart, portPart := "", rest
	if strings.Contains(rest, ":") {
		h, p, err := net.SplitHostPort(rest)
		if err != nil {
			return SocketAddress{}, fmt.Errorf("invalid socket address %q: %w", s, err)
		}
		hostPart, portPart = h, p
	}

	port, err := strconv.Atoi(portPart)
	if err != nil || port < 1 || port > 65535 {
		return SocketAddress{}, fmt.Errorf("invalid socket address %q: bad port %q", s, portPart)
	}
	if hostPart != "" && net.ParseIP(hostPart) == nil {
		return SocketAddress{}, fmt.Errorf("invalid socket address %q: host %q is not an IP address", s, hostPart)
	}

	return SocketAddress{Protocol: proto, Host: hostPart, Port: port}, nil
}

// TCPAddress builds the address string for a TCP port on a bind address.
func TCPAddress(bindAddress string, port int) string {
	return "tcp://" + net.JoinHostPort(bindAddress, strconv.Itoa(port))
}

func (a SocketAddress) String() string {
	switch {
	case a.Protocol == "unix":
		return "unix://" + a.Path
	case a.Host == "":
		return fmt.Sprintf("%s://%d", a.Protocol, a.Port)
	default:
		return a.Protocol + "://" + net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
	}
}

// matches reports whether a listener satisfies the address. A wanted
// wildcard host is also satisfied by a listener on the IPv6 wildcard.
func (a SocketAddress) matches(l Listener) bool {
	if a.Protocol != l.Protocol {
		return false
	}
	if a.Protocol == "unix" {
		return a.Path == l.Path
	}
	if a.Port != l.Port {
		return false
	}
	if a.Host == "" {
		return true
	}
	want, got := net.ParseIP(a.Host), net.ParseIP(l.Host)
	if want == nil || got == nil {
		return false
	}
	// A listener on :: is dual-stack on Linux and accepts IPv4 too.
	if want.IsUnspecified() && got.Equal(net.IPv6unspecified) {
		return true
	}
	return want.Equal(got)
}

// Listening reports whether any listener satisfies the address.
func (a SocketAddress) Listening(listeners []Listener) bool {
	for _, l := range listeners {
		if a.matches(l) {
			return true
		}
	}
	return false
}
