package iface

import (
	"net"
)

// Interface kinds reported by Kind.
const (
	KindUnknown  = "unknown"
	KindLoopback = "loopback"
	KindTunnel   = "tunnel"
	KindEthernet = "ethernet"
)

// Kind classifies the interface a route leaves through.
//
// Point-to-point interfaces (VPNs, PPP, WireGuard) and interfaces without a
// hardware address are reported as tunnels: routing through them does not
// need a reachable next hop on a shared link.
func Kind(iface *net.Interface) string {
	switch {
	case iface == nil:
		return KindUnknown
	case iface.Flags&net.FlagLoopback != 0:
		return KindLoopback
	case iface.Flags&net.FlagPointToPoint != 0:
		return KindTunnel
	case len(iface.HardwareAddr) == 0:
		return KindTunnel
	default:
		return KindEthernet
	}
}

// IsTunnel reports whether iface is a point-to-point or otherwise
// link-layer-less interface.
func IsTunnel(iface *net.Interface) bool {
	return Kind(iface) == KindTunnel
}
