//go:build linux

package arp

import (
	"net"
	"net/netip"

	"github.com/jsimonetti/rtnetlink/rtnl"
	"golang.org/x/sys/unix"
)

// getARPTable is a variable holding the function to retrieve neighbor entries.
// This allows for easy mocking in tests.
var getARPTable = func(iface *net.Interface) ([]*rtnl.Neigh, error) {
	c, err := rtnl.Dial(nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Neighbours(iface, unix.AF_INET)
}

func checkARPTable(ip netip.Addr, iface *net.Interface) (net.HardwareAddr, error) {
	r, err := getARPTable(iface)
	if err != nil {
		return nil, err
	}

	for _, n := range r {
		if isARPEntryMatch(n.IP, n.HwAddr, ip) {
			return n.HwAddr, nil
		}
	}
	return nil, ErrNotFound
}
