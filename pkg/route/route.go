package route

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"runtime"
)

// Route add methods.
const (
	MethodCommand = "ip"
	MethodNetlink = "netlink"
)

// ErrUnsupported is returned for operations the platform cannot perform.
var ErrUnsupported = errors.New("not supported on " + runtime.GOOS)

// Route represents a network route with its destination, gateway, source address, and the associated network interface.
type Route struct {
	Destination netip.Addr
	Gateway     netip.Addr
	Source      netip.Addr
	Interface   *net.Interface
}

// Get retrieves the most specific route for a given IPv4 address and returns it as a Route struct.
func Get(ip netip.Addr) (Route, error) {
	if !ip.Is4() {
		return Route{}, fmt.Errorf("%s is not an IPv4 address", ip)
	}
	// Use platform-specific implementation to fetch the route
	return get(ip)
}

// Adder installs a static route to dst via gateway.
type Adder interface {
	Add(ctx context.Context, dst netip.Prefix, gateway netip.Addr) error
}

// NewAdder returns the Adder for method. A non-zero table selects a routing
// table other than main, which only Linux supports.
func NewAdder(method string, table uint32) (Adder, error) {
	if table != 0 && runtime.GOOS != "linux" {
		return nil, fmt.Errorf("routing table %d: %w", table, ErrUnsupported)
	}

	switch method {
	case MethodCommand:
		return &CommandAdder{Commander: ExecCommander{}, Table: table}, nil
	case MethodNetlink:
		return newNetlinkAdder(table), nil
	default:
		return nil, fmt.Errorf("unknown route method %q", method)
	}
}

func checkIPv4(dst netip.Prefix, gateway netip.Addr) error {
	if !dst.IsValid() || !dst.Addr().Is4() {
		return fmt.Errorf("destination %s is not an IPv4 prefix", dst)
	}
	if !gateway.Is4() {
		return fmt.Errorf("gateway %s is not an IPv4 address", gateway)
	}
	return nil
}
