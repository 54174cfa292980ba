package host

import (
	"bufio"
	"encoding/hex"
	"net"
	"strconv"
	"strings"
)

// Listener is a socket accepting traffic on the host.
type Listener struct {
	Protocol string // tcp, udp or unix
	Host     string
	Port     int
	Path     string
}

const (
	tcpListen    = "0A"
	udpUnconnect = "07"
	unixAcceptOn = "00010000" // __SO_ACCEPTCON
)

// procNetFiles lists the /proc/net tables read for listeners, in order.
var procNetFiles = []struct {
	path  string
	proto string
	ipv6  bool
}{
	{"/proc/net/tcp", "tcp", false},
	{"/proc/net/tcp6", "tcp", true},
	{"/proc/net/udp", "udp", false},
	{"/proc/net/udp6", "udp", true},
}

// parseProcNetInet extracts listeners from a /proc/net/{tcp,udp}[6] table.
func parseProcNetInet(content, proto string, ipv6 bool) []Listener {
	var listeners []Listener

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Scan() // header

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}

		state := fields[3]
		if proto == "tcp" && state != tcpListen {
			continue
		}
		if proto == "udp" && state != udpUnconnect {
			continue
		}

		addr, port, ok := decodeProcAddr(fields[1], ipv6)
		if !ok {
			continue
		}
		listeners = append(listeners, Listener{Protocol: proto, Host: addr, Port: port})
	}

	return listeners
}

// parseProcNetUnix extracts listening unix sockets from /proc/net/unix.
func parseProcNetUnix(content string) []Listener {
	var listeners []Listener

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Scan() // header

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 8 || fields[3] != unixAcceptOn {
			continue
		}
		listeners = append(listeners, Listener{Protocol: "unix", Path: fields[7]})
	}

	return listeners
}

// decodeProcAddr decodes "0100007F:1F90" style addresses. IPv4 is one
// little-endian word; IPv6 is four little-endian 32-bit words.
func decodeProcAddr(raw string, ipv6 bool) (string, int, bool) {
	ipHex, portHex, ok := strings.Cut(raw, ":")
	if !ok {
		return "", 0, false
	}

	port, err := strconv.ParseUint(portHex, 16, 16)
	if err != nil {
		return "", 0, false
	}

	b, err := hex.DecodeString(ipHex)
	if err != nil {
		return "", 0, false
	}

	switch {
	case ipv6 && len(b) == net.IPv6len:
		ip := make(net.IP, net.IPv6len)
		for i := 0; i < 4; i++ {
			ip[i*4+0] = b[i*4+3]
			ip[i*4+1] = b[i*4+2]
			ip[i*4+2] = b[i*4+1]
			ip[i*4+3] = b[i*4+0]
		}
		return ip.String(), int(port), true
	case !ipv6 && len(b) == net.IPv4len:
		return net.IPv4(b[3], b[2], b[1], b[0]).String(), int(port), true
	default:
		return "", 0, false
	}
}
