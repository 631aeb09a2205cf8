//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package route

import (
	"context"
	"net"
	"net/netip"
)

func get(netip.Addr) (Route, error) {
	return Route{}, ErrUnsupported
}

type unsupportedAdder struct{}

func newNetlinkAdder(uint32) Adder {
	return unsupportedAdder{}
}

func (unsupportedAdder) Add(context.Context, netip.Prefix, netip.Addr) error {
	return ErrUnsupported
}

func addCommand(dst netip.Prefix, gateway netip.Addr, _ uint32) (string, []string) {
	mask := net.IP(net.CIDRMask(dst.Bits(), 32)).String()
	return "route", []string{"add", dst.Masked().Addr().String(), "mask", mask, gateway.String()}
}
