//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package route

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync/atomic"

	"golang.org/x/net/route"
	"golang.org/x/sys/unix"
)

// fetchRIBMessages retrieves the routing information base (RIB) messages from the kernel.
// Variable for mocking in tests.
var fetchRIBMessages = func() ([]route.Message, error) {
	r, err := route.FetchRIB(unix.AF_INET, route.RIBTypeRoute, 0)
	if err != nil {
		return nil, err
	}
	return route.ParseRIB(route.RIBTypeRoute, r)
}

// writeRouteMessage writes a marshalled message to a routing socket.
// Variable for mocking in tests.
var writeRouteMessage = func(b []byte) error {
	fd, err := unix.Socket(unix.AF_ROUTE, unix.SOCK_RAW, unix.AF_UNSPEC)
	if err != nil {
		return err
	}
	defer unix.Close(fd)

	_, err = unix.Write(fd, b)
	return err
}

var routeSeq atomic.Int32

// getMostSpecificRoute finds the longest prefix match for ip among the routing messages.
func getMostSpecificRoute(ip netip.Addr, msgs []route.Message) (Route, error) {
	best := Route{}
	bestBits := -1
	var bestIndex int

	for _, msg := range msgs {
		rm, ok := msg.(*route.RouteMessage)
		if !ok || len(rm.Addrs) <= unix.RTAX_NETMASK {
			continue
		}
		if rm.Flags&unix.RTF_UP == 0 {
			// Skip down routes
			continue
		}

		dst, ok := rm.Addrs[unix.RTAX_DST].(*route.Inet4Addr)
		if !ok {
			continue
		}

		bits := 32
		if rm.Flags&unix.RTF_HOST == 0 {
			mask, ok := rm.Addrs[unix.RTAX_NETMASK].(*route.Inet4Addr)
			if !ok {
				continue
			}
			bits, _ = net.IPMask(mask.IP[:]).Size()
		}

		prefix := netip.PrefixFrom(netip.AddrFrom4(dst.IP), bits)
		if !prefix.Contains(ip) || bits <= bestBits {
			continue
		}

		// Support routes without a gateway (i.e., directly connected)
		gw := netip.Addr{}
		if g, ok := rm.Addrs[unix.RTAX_GATEWAY].(*route.Inet4Addr); ok {
			gw = netip.AddrFrom4(g.IP)
		}
		src := netip.Addr{}
		if len(rm.Addrs) > unix.RTAX_IFA {
			if s, ok := rm.Addrs[unix.RTAX_IFA].(*route.Inet4Addr); ok {
				src = netip.AddrFrom4(s.IP)
			}
		}

		best = Route{Destination: ip, Gateway: gw, Source: src}
		bestBits = bits
		bestIndex = rm.Index
	}

	if bestBits < 0 {
		return Route{}, fmt.Errorf("no matching route found for %s", ip)
	}

	intf, err := net.InterfaceByIndex(bestIndex)
	if err != nil {
		return Route{}, fmt.Errorf("failed to get interface by index %d: %v", bestIndex, err)
	}
	best.Interface = intf
	return best, nil
}

// get retrieves the most specific route for a given IP address.
// It fetches the routing information base (RIB) messages and finds the route with the longest prefix match.
func get(ip netip.Addr) (Route, error) {
	msgs, err := fetchRIBMessages()
	if err != nil {
		return Route{}, err
	}
	return getMostSpecificRoute(ip, msgs)
}

// socketAdder installs static routes with RTM_ADD messages on a routing socket.
type socketAdder struct{}

func newNetlinkAdder(uint32) Adder {
	return socketAdder{}
}

func (socketAdder) Add(ctx context.Context, dst netip.Prefix, gateway netip.Addr) error {
	if err := checkIPv4(dst, gateway); err != nil {
		return err
	}

	b, err := routeAddMessage(dst, gateway, int(routeSeq.Add(1)))
	if err != nil {
		return fmt.Errorf("failed to marshal route %s via %s: %w", dst, gateway, err)
	}
	if err := writeRouteMessage(b); err != nil {
		return fmt.Errorf("failed to add route %s via %s: %w", dst, gateway, err)
	}
	return nil
}

// routeAddMessage marshals the RTM_ADD equivalent of `route add -net <dst> <gateway>`.
// Host routes carry no netmask.
func routeAddMessage(dst netip.Prefix, gateway netip.Addr, seq int) ([]byte, error) {
	msg := &route.RouteMessage{
		Version: unix.RTM_VERSION,
		Type:    unix.RTM_ADD,
		Flags:   unix.RTF_UP | unix.RTF_GATEWAY | unix.RTF_STATIC,
		ID:      uintptr(os.Getpid()),
		Seq:     seq,
		Addrs: []route.Addr{
			unix.RTAX_DST:     &route.Inet4Addr{IP: dst.Masked().Addr().As4()},
			unix.RTAX_GATEWAY: &route.Inet4Addr{IP: gateway.As4()},
		},
	}

	if dst.Bits() == 32 {
		msg.Flags |= unix.RTF_HOST
	} else {
		msg.Addrs = append(msg.Addrs, &route.Inet4Addr{IP: [4]byte(net.CIDRMask(dst.Bits(), 32))})
	}

	return msg.Marshal()
}

func addCommand(dst netip.Prefix, gateway netip.Addr, _ uint32) (string, []string) {
	if dst.Bits() == 32 {
		return "route", []string{"-q", "-n", "add", "-host", dst.Addr().String(), gateway.String()}
	}
	return "route", []string{"-q", "-n", "add", "-net", dst.String(), gateway.String()}
}
