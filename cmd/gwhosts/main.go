package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/tkjaer/gwhosts/internal/config"
	"github.com/tkjaer/gwhosts/internal/hosts"
	"github.com/tkjaer/gwhosts/internal/install"
	"github.com/tkjaer/gwhosts/internal/output"
	"github.com/tkjaer/gwhosts/internal/version"
	"github.com/tkjaer/gwhosts/pkg/resolve"
	"github.com/tkjaer/gwhosts/pkg/route"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Argument errors exit 1, -h exits 0
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	args, err := config.ParseArgs()
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrUsage):
		fmt.Println(config.Usage())
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Setup logging
	log, closeLog, err := config.SetupLogging(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		return 1
	}
	defer closeLog()

	log.WithFields(logrus.Fields{
		"version":  version.FullVersion(),
		"gateway":  args.Gateway.String(),
		"hosts":    args.HostsFile,
		"resolver": args.Resolver,
		"method":   args.RouteMethod,
	}).Debug("Starting gwhosts")

	names, err := hosts.ReadFile(args.HostsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.WithError(err).Error("Failed to read hosts file")
		return 1
	}

	lookup := resolve.SystemLookup(net.DefaultResolver)
	if args.Resolver == config.ResolverDNS {
		lookup, err = resolve.DNSLookup(args.DNSServer, args.DNSTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to setup DNS resolver: %v\n", err)
			return 1
		}
	}

	adder, err := route.NewAdder(args.RouteMethod, args.Table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Stop between hostnames and routes on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	om := &output.OutputManager{}
	defer om.Close()
	if args.JSON {
		o, err := output.NewJSONOutput(args.Output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create JSON output: %v\n", err)
			return 1
		}
		om.Register(o)
	} else if args.DryRun {
		om.Register(output.NewTextOutput(os.Stdout))
	}

	addrs, resolved := resolve.NewResolver(lookup, log).Resolve(ctx, names)
	om.Resolved(resolved)

	subnets, err := subnet.Aggregate(addrs)
	if err != nil {
		log.WithError(err).Error("Failed to aggregate addresses")
		return 1
	}

	installer := install.NewInstaller(adder, log)
	installer.Preflight(args.Gateway, subnets)

	if args.DryRun {
		om.Planned(subnets, args.Gateway)
		log.WithField("subnets", len(subnets)).Info("Dry run, no routes added")
		return 0
	}

	results := installer.Install(ctx, subnets, args.Gateway)
	om.Installed(results, args.Gateway)

	log.WithFields(logrus.Fields{
		"hostnames": len(names),
		"addresses": len(addrs),
		"subnets":   len(subnets),
		"failed":    len(install.Failed(results)),
	}).Debug("gwhosts completed")

	return 0
}
