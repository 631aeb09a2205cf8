// Package arp reads the kernel's IPv4 neighbor (ARP) cache.
package arp

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
)

// ErrNotFound is returned when the neighbor cache has no resolved entry.
var ErrNotFound = errors.New("no ARP entry found")

// Lookup returns the hardware address the kernel has cached for ip on iface.
// It never sends ARP requests: an address the kernel has not resolved yet
// yields ErrNotFound.
func Lookup(ip netip.Addr, iface *net.Interface) (net.HardwareAddr, error) {
	if !ip.Is4() {
		return nil, fmt.Errorf("%s is not an IPv4 address", ip)
	}
	return checkARPTable(ip, iface)
}

func isARPEntryMatch(entryIP net.IP, mac net.HardwareAddr, ip netip.Addr) bool {
	addr, ok := netip.AddrFromSlice(entryIP)
	return ok && addr.Unmap() == ip && len(mac) > 0
}
