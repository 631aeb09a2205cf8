package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tkjaer/gwhosts/internal/version"
	"github.com/tkjaer/gwhosts/pkg/route"
)

// Resolver backends.
const (
	ResolverSystem = "system"
	ResolverDNS    = "dns"
)

// ErrUsage is returned when the positional arguments are missing.
var ErrUsage = errors.New("gateway and hosts file are required")

type Args struct {
	Gateway   netip.Addr
	HostsFile string

	// Resolution
	Resolver   string        // system or dns
	DNSServer  string        // dns backend server, empty means resolv.conf
	DNSTimeout time.Duration // dns backend query timeout

	// Routing
	RouteMethod string // ip or netlink
	Table       uint32 // routing table, 0 means main
	DryRun      bool   // print the plan, install nothing
	JSON        bool   // print the plan/results as JSON and log as JSON
	Output      string // JSON output file, empty means stdout

	// Logging
	Log           string // log file path, empty means no file
	LogLevel      string // log level: debug, info, warn, error
	Stderr        bool   // also log to stderr
	Syslog        bool   // log to syslog
	SyslogNetwork string // empty means the local syslog socket
	SyslogAddr    string
}

// Usage returns the one-line usage message printed on missing arguments.
func Usage() string {
	return fmt.Sprintf("Usage: %s <gateway> <hostsfile>", os.Args[0])
}

func ParseArgs() (Args, error) {
	var args Args
	var showVersion bool

	// Set custom usage message
	flag.Usage = func() {
		println("gwhosts - route hostnames through a gateway")
		println()
		println("Resolves the hostnames listed in a file, aggregates their addresses into")
		println("/16, /24 and /32 subnets and adds a static route for each via the gateway.")
		println()
		println("Usage:")
		println("  gwhosts [OPTIONS] GATEWAY HOSTSFILE")
		println()
		println("Examples:")
		println("  gwhosts 10.8.0.1 vpn-hosts.txt                  # Route via 10.8.0.1")
		println("  gwhosts --dry-run --json 10.8.0.1 hosts.txt     # Show the subnets only")
		println("  gwhosts --resolver dns --dns-server 1.1.1.1 10.8.0.1 hosts.txt")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.StringVarP(&args.Resolver, "resolver", "r", ResolverSystem, "Resolver backend: system or dns")
	flag.StringVar(&args.DNSServer, "dns-server", "", "DNS server for the dns resolver (default: first nameserver in /etc/resolv.conf)")
	flag.DurationVar(&args.DNSTimeout, "dns-timeout", 5*time.Second, "Query timeout for the dns resolver")
	flag.StringVarP(&args.RouteMethod, "route-method", "m", route.MethodCommand, "How routes are added: ip (routing command) or netlink (kernel API)")
	flag.Uint32VarP(&args.Table, "table", "t", 0, "Routing table to add routes to (Linux only, 0 = main)")
	flag.BoolVarP(&args.DryRun, "dry-run", "n", false, "Print the subnets without adding routes")
	flag.BoolVarP(&args.JSON, "json", "J", false, "Write output and logs as JSON")
	flag.StringVarP(&args.Output, "output", "o", "", "Write JSON output to this file instead of stdout")
	flag.StringVarP(&args.Log, "log", "l", "", "Also log to this file (appended)")
	flag.StringVar(&args.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&args.Stderr, "stderr", false, "Also log to stderr")
	flag.BoolVar(&args.Syslog, "syslog", true, "Log to syslog")
	flag.StringVar(&args.SyslogNetwork, "syslog-network", "", "Syslog network: udp, tcp, unixgram (default: local socket)")
	flag.StringVar(&args.SyslogAddr, "syslog-addr", "", "Syslog address for --syslog-network")
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		return args, err
	}

	// Handle version flag
	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		return args, ErrUsage
	}

	gateway, err := netip.ParseAddr(flag.Arg(0))
	if err != nil || !gateway.Is4() {
		return args, fmt.Errorf("gateway %q is not an IPv4 address", flag.Arg(0))
	}
	args.Gateway = gateway
	args.HostsFile = flag.Arg(1)

	switch {
	case args.Resolver != ResolverSystem && args.Resolver != ResolverDNS:
		return args, errors.New("resolver must be either 'system' or 'dns'")
	case args.DNSServer != "" && args.Resolver != ResolverDNS:
		return args, errors.New("--dns-server requires --resolver dns")
	case args.DNSTimeout <= 0:
		return args, errors.New("dns timeout must be positive")
	case args.RouteMethod != route.MethodCommand && args.RouteMethod != route.MethodNetlink:
		return args, errors.New("route method must be either 'ip' or 'netlink'")
	case !validLogLevel(args.LogLevel):
		return args, errors.New("log level must be one of debug, info, warn, error")
	case (args.SyslogNetwork == "") != (args.SyslogAddr == ""):
		return args, errors.New("--syslog-network and --syslog-addr must be used together")
	case args.Output != "" && !args.JSON:
		return args, errors.New("--output requires --json")
	}

	return args, nil
}
