// Package subnet aggregates resolved IPv4 addresses into /16, /24 and /32
// subnets while keeping track of the hostnames behind every address.
//
// Addresses are ordered as dotted-quad strings, not as numbers. This means
// "172.16.10.1" sorts before "172.16.2.1" and a run of addresses that is
// contiguous in string order may not be contiguous numerically.
package subnet

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

// ErrMalformedAddress is returned when an AddressMap key is not a canonical
// IPv4 dotted-quad address.
var ErrMalformedAddress = errors.New("malformed IPv4 address")

// Prefix lengths a subnet can be aggregated to.
const (
	Host    = 32
	Class24 = 24
	Class16 = 16
)

// AddressMap maps an IPv4 address to the hostnames that resolved to it.
type AddressMap map[string][]string

// Add records names for addr. The name list stays sorted and deduplicated.
func (m AddressMap) Add(addr string, names ...string) {
	m[addr] = sortedUnique(append(m[addr], names...))
}

// Addresses returns the keys of m in ascending string order.
func (m AddressMap) Addresses() []string {
	addresses := make([]string, 0, len(m))
	for addr := range m {
		addresses = append(addresses, addr)
	}
	slices.Sort(addresses)
	return addresses
}

// Subnet is one aggregated prefix and the hostnames that resolved into it.
type Subnet struct {
	Prefix    netip.Prefix `json:"subnet"`
	Hostnames []string     `json:"hostnames"`
}

// String returns the subnet in CIDR notation.
func (s Subnet) String() string {
	return s.Prefix.String()
}

// Hosts returns the hostnames joined by commas.
func (s Subnet) Hosts() string {
	return strings.Join(s.Hostnames, ",")
}

// Prefixes returns the prefixes of subnets in order.
func Prefixes(subnets []Subnet) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(subnets))
	for _, s := range subnets {
		prefixes = append(prefixes, s.Prefix)
	}
	return prefixes
}

// Aggregate groups the addresses of m into subnets.
//
// Addresses are walked once in ascending string order. Each run starts at an
// anchor address as a /32 and absorbs the following addresses as long as
// they share at least the first two octets with the anchor. A shared third
// octet keeps the run at /24, otherwise it widens to /16. A run never narrows
// again once widened. The network address is the anchor with the octets past
// the prefix set to zero.
//
// The result is sorted by network address string. An empty map yields an
// empty result.
func Aggregate(m AddressMap) ([]Subnet, error) {
	addresses := m.Addresses()

	octets := make([][]string, len(addresses))
	for i, addr := range addresses {
		o, err := splitOctets(addr)
		if err != nil {
			return nil, err
		}
		octets[i] = o
	}

	subnets := make([]Subnet, 0)
	for i := 0; i < len(octets); {
		anchor := octets[i]
		size := Host
		names := slices.Clone(m[addresses[i]])

		next := i + 1
		for ; next < len(octets); next++ {
			s := matchSize(anchor, octets[next])
			if s == Host {
				break
			}
			size = min(size, s)
			names = append(names, m[addresses[next]]...)
		}

		prefix, err := networkPrefix(anchor, size)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, Subnet{Prefix: prefix, Hostnames: sortedUnique(names)})

		i = next
	}

	slices.SortStableFunc(subnets, func(a, b Subnet) int {
		return strings.Compare(a.Prefix.Addr().String(), b.Prefix.Addr().String())
	})

	return subnets, nil
}

// matchSize returns the prefix length two addresses could share, or Host if
// they do not share the first two octets.
func matchSize(a, b []string) int {
	if a[0] != b[0] || a[1] != b[1] {
		return Host
	}
	if a[2] == b[2] {
		return Class24
	}
	return Class16
}

// splitOctets validates addr and splits it into its four octet strings.
func splitOctets(addr string) ([]string, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is4() || ip.String() != addr {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAddress, addr)
	}
	return strings.Split(addr, "."), nil
}

// networkPrefix keeps the first size/8 octets and zeroes the rest.
func networkPrefix(octets []string, size int) (netip.Prefix, error) {
	kept := size / 8
	network := slices.Clone(octets[:kept])
	for i := 0; i < 4-kept; i++ {
		network = append(network, "0")
	}
	return netip.ParsePrefix(fmt.Sprintf("%s/%d", strings.Join(network, "."), size))
}

func sortedUnique(names []string) []string {
	out := append([]string{}, names...)
	slices.Sort(out)
	return slices.Compact(out)
}
