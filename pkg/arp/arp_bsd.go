//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package arp

import (
	"net"
	"net/netip"

	"golang.org/x/net/route"
	"golang.org/x/sys/unix"
)

// getARPTable is a variable holding the function to retrieve ARP table entries.
// Resolved neighbors are host routes whose gateway is a link-layer address.
// This allows for easy mocking in tests.
var getARPTable = func() ([]route.Message, error) {
	r, err := route.FetchRIB(unix.AF_INET, route.RIBTypeRoute, 0)
	if err != nil {
		return nil, err
	}
	return route.ParseRIB(route.RIBTypeRoute, r)
}

func checkARPTable(ip netip.Addr, iface *net.Interface) (net.HardwareAddr, error) {
	msgs, err := getARPTable()
	if err != nil {
		return nil, err
	}

	for _, msg := range msgs {
		rm, ok := msg.(*route.RouteMessage)
		if !ok || len(rm.Addrs) <= unix.RTAX_GATEWAY {
			continue
		}
		if iface != nil && rm.Index != iface.Index {
			continue
		}
		dst, ok := rm.Addrs[unix.RTAX_DST].(*route.Inet4Addr)
		if !ok {
			continue
		}
		link, ok := rm.Addrs[unix.RTAX_GATEWAY].(*route.LinkAddr)
		if !ok {
			continue
		}
		if isARPEntryMatch(dst.IP[:], net.HardwareAddr(link.Addr), ip) {
			return net.HardwareAddr(link.Addr), nil
		}
	}
	return nil, ErrNotFound
}
