// Package resolve resolves hostnames to IPv4 addresses and collects them
// into a subnet.AddressMap.
//
// Two lookup backends are available. SystemLookup goes through the Go
// resolver (and therefore the platform configuration), DNSLookup queries a
// DNS server directly and recovers the full CNAME chain, so every name that
// pointed at an address is kept as an alias of it.
package resolve
