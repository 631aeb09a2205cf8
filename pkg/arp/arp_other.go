//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package arp

import (
	"fmt"
	"net"
	"net/netip"
	"runtime"
)

func checkARPTable(netip.Addr, *net.Interface) (net.HardwareAddr, error) {
	return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
}
