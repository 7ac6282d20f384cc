package internalip

import (
	"errors"
	"net"
)

var ErrNotFound = errors.New("no internal ipv4 address found")

// IPv4 returns the first private non-loopback IPv4 address of the host.
// Used as the advertised server address when none is configured.
func IPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip4 := ipnet.IP.To4()
		if ip4 == nil || ip4.IsLoopback() || !ip4.IsPrivate() {
			continue
		}

		return ip4.String(), nil
	}

	return "", ErrNotFound
}
