//go:build linux

package route

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/jsimonetti/rtnetlink"
	"golang.org/x/sys/unix"
)

// fetchRIBMessagesForIP fetches the RIB messages for the given IP address.
// Variable for mocking in tests.
var fetchRIBMessagesForIP = func(ip netip.Addr) ([]rtnetlink.RouteMessage, error) {
	c, err := rtnetlink.Dial(nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	tx := &rtnetlink.RouteMessage{
		Family: unix.AF_INET,
		Table:  unix.RT_TABLE_MAIN,
		Attributes: rtnetlink.RouteAttributes{
			Dst: ip.AsSlice(),
		},
	}

	return c.Route.Get(tx)
}

// addRouteMessage sends an RTM_NEWROUTE request.
// Variable for mocking in tests.
var addRouteMessage = func(msg *rtnetlink.RouteMessage) error {
	c, err := rtnetlink.Dial(nil)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Route.Add(msg)
}

// getMostSpecificRoute returns the most specific route for the given IP address.
func getMostSpecificRoute(ip netip.Addr, msgs []rtnetlink.RouteMessage) (Route, error) {
	// RTM_GETROUTE on Linux returns the single best route
	switch {
	case len(msgs) == 0:
		return Route{}, fmt.Errorf("no route found for %s", ip)
	case len(msgs) > 1:
		return Route{}, fmt.Errorf("multiple routes found for %s", ip)
	}
	m := msgs[0]

	dst, ok := netip.AddrFromSlice(m.Attributes.Dst)
	if !ok {
		return Route{}, fmt.Errorf("failed to parse destination address: %v", m.Attributes.Dst)
	}
	// Directly connected destinations have no gateway
	gw, _ := netip.AddrFromSlice(m.Attributes.Gateway)
	src, ok := netip.AddrFromSlice(m.Attributes.Src)
	if !ok {
		return Route{}, fmt.Errorf("failed to parse source address: %v", m.Attributes.Src)
	}
	if dst.Unmap() != ip {
		return Route{}, fmt.Errorf("no matching route found for %s", ip)
	}

	intf, err := net.InterfaceByIndex(int(m.Attributes.OutIface))
	if err != nil {
		return Route{}, fmt.Errorf("failed to get interface by index %d: %v", m.Attributes.OutIface, err)
	}
	if intf.Flags&net.FlagUp == 0 {
		return Route{}, fmt.Errorf("interface %s is down", intf.Name)
	}

	return Route{
		Destination: ip,
		Gateway:     gw.Unmap(),
		Source:      src.Unmap(),
		Interface:   intf,
	}, nil
}

// get asks the kernel for the route it would use towards ip.
func get(ip netip.Addr) (Route, error) {
	msgs, err := fetchRIBMessagesForIP(ip)
	if err != nil {
		return Route{}, err
	}
	route, err := getMostSpecificRoute(ip, msgs)
	if err != nil {
		return Route{}, fmt.Errorf("failed to get most specific route: %w", err)
	}
	return route, nil
}

// netlinkAdder installs static routes over rtnetlink.
type netlinkAdder struct {
	table uint32
}

func newNetlinkAdder(table uint32) Adder {
	return &netlinkAdder{table: table}
}

func (a *netlinkAdder) Add(ctx context.Context, dst netip.Prefix, gateway netip.Addr) error {
	if err := checkIPv4(dst, gateway); err != nil {
		return err
	}
	if err := addRouteMessage(routeMessage(dst, gateway, a.table)); err != nil {
		return fmt.Errorf("failed to add route %s via %s: %w", dst, gateway, err)
	}
	return nil
}

// routeMessage builds the RTM_NEWROUTE payload equivalent to
// `ip route add <dst> via <gateway> [table <table>]`.
func routeMessage(dst netip.Prefix, gateway netip.Addr, table uint32) *rtnetlink.RouteMessage {
	msg := &rtnetlink.RouteMessage{
		Family:    unix.AF_INET,
		DstLength: uint8(dst.Bits()),
		Table:     unix.RT_TABLE_MAIN,
		Protocol:  unix.RTPROT_STATIC,
		Scope:     unix.RT_SCOPE_UNIVERSE,
		Type:      unix.RTN_UNICAST,
		Attributes: rtnetlink.RouteAttributes{
			Dst:     dst.Masked().Addr().AsSlice(),
			Gateway: gateway.AsSlice(),
		},
	}

	switch {
	case table == 0:
	case table < 256:
		msg.Table = uint8(table)
	default:
		// Tables past 255 only fit in the RTA_TABLE attribute
		msg.Table = unix.RT_TABLE_UNSPEC
		msg.Attributes.Table = table
	}

	return msg
}

func addCommand(dst netip.Prefix, gateway netip.Addr, table uint32) (string, []string) {
	args := []string{"route", "add", dst.String(), "via", gateway.String()}
	if table != 0 {
		args = append(args, "table", strconv.FormatUint(uint64(table), 10))
	}
	return "ip", args
}
