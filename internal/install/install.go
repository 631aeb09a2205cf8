package install

import (
	"context"
	"net/netip"

	"github.com/sirupsen/logrus"
	"github.com/tkjaer/gwhosts/pkg/route"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

// Result is the outcome of adding the route for one subnet.
type Result struct {
	Subnet subnet.Subnet
	Err    error
}

// Installer adds one route per subnet via a gateway.
type Installer struct {
	adder route.Adder
	log   logrus.FieldLogger
}

func NewInstaller(adder route.Adder, log logrus.FieldLogger) *Installer {
	return &Installer{adder: adder, log: log}
}

// Install adds a route for every subnet in order and returns one Result per
// subnet. A failed add does not stop the batch. Only successes are logged at
// info level; failures are left to the caller and logged at debug level.
func (i *Installer) Install(ctx context.Context, subnets []subnet.Subnet, gateway netip.Addr) []Result {
	results := make([]Result, 0, len(subnets))

	for _, s := range subnets {
		err := i.adder.Add(ctx, s.Prefix, gateway)
		results = append(results, Result{Subnet: s, Err: err})

		fields := logrus.Fields{
			"subnet":    s.String(),
			"hostnames": s.Hosts(),
			"gateway":   gateway.String(),
		}
		if err != nil {
			i.log.WithFields(fields).WithError(err).Debug("Failed to add route")
			continue
		}
		i.log.WithFields(fields).Infof("[R] %s[%s] via %s", s, s.Hosts(), gateway)
	}

	return results
}

// Failed returns the results whose route could not be added.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
