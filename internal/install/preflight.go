package install

import (
	"fmt"
	"net/netip"

	"github.com/jackpal/gateway"
	"github.com/sirupsen/logrus"
	"github.com/tkjaer/gwhosts/pkg/arp"
	"github.com/tkjaer/gwhosts/pkg/iface"
	"github.com/tkjaer/gwhosts/pkg/route"
	"github.com/tkjaer/gwhosts/pkg/subnet"
	"go4.org/netipx"
)

// Variables for mocking in tests.
var (
	lookupRoute     = route.Get
	lookupNeighbor  = arp.Lookup
	discoverGateway = gateway.DiscoverGateway
)

// Preflight checks the gateway against the local routing state and the
// planned subnets. Problems are logged as warnings and returned; none of
// them stop the installation.
func (i *Installer) Preflight(gw netip.Addr, subnets []subnet.Subnet) []string {
	var warnings []string
	warn := func(format string, a ...any) {
		msg := fmt.Sprintf(format, a...)
		warnings = append(warnings, msg)
		i.log.WithField("gateway", gw.String()).Warn(msg)
	}

	r, err := lookupRoute(gw)
	if err != nil {
		warn("No route to gateway %s: %v", gw, err)
	} else {
		kind := iface.Kind(r.Interface)
		i.log.WithFields(logrus.Fields{
			"gateway":   gw.String(),
			"interface": r.Interface.Name,
			"kind":      kind,
			"source":    r.Source.String(),
		}).Debug("Found route to gateway")

		switch {
		case iface.IsTunnel(r.Interface):
			i.log.WithField("interface", r.Interface.Name).Info("Gateway is reached through a tunnel interface")
		case r.Gateway.IsValid() && r.Gateway != gw:
			warn("Gateway %s is not directly connected (next hop %s on %s)", gw, r.Gateway, r.Interface.Name)
		default:
			if mac, err := lookupNeighbor(gw, r.Interface); err != nil {
				i.log.WithError(err).WithField("interface", r.Interface.Name).Info("Gateway has no resolved neighbor entry yet")
			} else {
				i.log.WithField("mac", mac.String()).Debug("Gateway neighbor entry found")
			}
		}
	}

	if def, err := discoverGateway(); err != nil {
		i.log.WithError(err).Debug("Failed to discover default gateway")
	} else if addr, ok := netip.AddrFromSlice(def); ok && addr.Unmap() == gw {
		warn("Gateway %s is the default gateway, routes will not change forwarding", gw)
	}

	var b netipx.IPSetBuilder
	for _, p := range subnet.Prefixes(subnets) {
		b.AddPrefix(p)
	}
	set, err := b.IPSet()
	if err != nil {
		i.log.WithError(err).Debug("Failed to build subnet set")
		return warnings
	}
	if set.Contains(gw) {
		for _, s := range subnets {
			if s.Prefix.Contains(gw) {
				warn("Gateway %s lies inside routed subnet %s[%s]", gw, s, s.Hosts())
			}
		}
	}

	return warnings
}
