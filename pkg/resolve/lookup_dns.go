package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/miekg/dns"
)

// ResolvConf is read for a nameserver when DNSLookup is given none.
var ResolvConf = "/etc/resolv.conf"

// DNSLookup queries server for A records. server may omit the port, an
// empty server uses the first nameserver from ResolvConf.
func DNSLookup(server string, timeout time.Duration) (LookupFunc, error) {
	server, err := nameserver(server)
	if err != nil {
		return nil, err
	}

	client := &dns.Client{Timeout: timeout}
	return func(ctx context.Context, hostname string) (Host, error) {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(hostname), dns.TypeA)

		in, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil {
			return Host{}, fmt.Errorf("query %s for %s: %w", server, hostname, err)
		}
		return parseAnswer(hostname, in)
	}, nil
}

func nameserver(server string) (string, error) {
	if server != "" {
		if _, _, err := net.SplitHostPort(server); err != nil {
			return net.JoinHostPort(server, "53"), nil
		}
		return server, nil
	}

	cfg, err := dns.ClientConfigFromFile(ResolvConf)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ResolvConf, err)
	}
	if len(cfg.Servers) == 0 {
		return "", errors.New("no nameserver configured in " + ResolvConf)
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port), nil
}

// parseAnswer walks the answer section of a response. Every CNAME owner is
// an alias, the last CNAME target is the canonical name and the A records
// are the addresses. The smallest record TTL becomes the cache TTL.
func parseAnswer(hostname string, in *dns.Msg) (Host, error) {
	if in.Rcode != dns.RcodeSuccess {
		return Host{}, fmt.Errorf("%s: %s", hostname, dns.RcodeToString[in.Rcode])
	}

	host := Host{Canonical: hostname}
	var ttl uint32
	for i, rr := range in.Answer {
		hdr := rr.Header()
		if i == 0 || hdr.Ttl < ttl {
			ttl = hdr.Ttl
		}

		switch record := rr.(type) {
		case *dns.CNAME:
			host.Aliases = append(host.Aliases, Normalize(hdr.Name))
			host.Canonical = Normalize(record.Target)
		case *dns.A:
			host.Addresses = append(host.Addresses, record.A.String())
		}
	}

	if len(host.Addresses) == 0 {
		return Host{}, fmt.Errorf("%s: %w", hostname, ErrNoAddresses)
	}

	slices.Sort(host.Addresses)
	host.Addresses = slices.Compact(host.Addresses)
	host.Aliases = slices.DeleteFunc(host.Aliases, func(alias string) bool {
		return alias == host.Canonical
	})
	slices.Sort(host.Aliases)
	host.Aliases = slices.Compact(host.Aliases)
	host.TTL = time.Duration(ttl) * time.Second

	return host, nil
}
