package resolve

import (
	"context"
	"fmt"
	"net"
	"slices"
)

// SystemLookup resolves hostnames with the given net.Resolver. A nil
// resolver uses net.DefaultResolver.
func SystemLookup(resolver *net.Resolver) LookupFunc {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return func(ctx context.Context, hostname string) (Host, error) {
		ips, err := resolver.LookupIP(ctx, "ip4", hostname)
		if err != nil {
			return Host{}, err
		}

		host := Host{Canonical: hostname}
		// The canonical name is best effort, the addresses are what matter.
		if cname, err := resolver.LookupCNAME(ctx, hostname); err == nil {
			if cname = Normalize(cname); cname != "" && cname != hostname {
				host.Canonical = cname
				host.Aliases = []string{hostname}
			}
		}

		for _, ip := range ips {
			if v4 := ip.To4(); v4 != nil {
				host.Addresses = append(host.Addresses, v4.String())
			}
		}
		if len(host.Addresses) == 0 {
			return Host{}, fmt.Errorf("%s: %w", hostname, ErrNoAddresses)
		}
		slices.Sort(host.Addresses)
		host.Addresses = slices.Compact(host.Addresses)

		return host, nil
	}
}
