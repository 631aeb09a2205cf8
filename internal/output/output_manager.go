package output

import (
	"net/netip"

	"github.com/tkjaer/gwhosts/internal/install"
	"github.com/tkjaer/gwhosts/pkg/resolve"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

// Output interface for different output types
type Output interface {
	Resolved(results []resolve.Result)
	Planned(subnets []subnet.Subnet, gateway netip.Addr)
	Installed(results []install.Result, gateway netip.Addr)
	Close() error
}

// OutputManager manages multiple outputs
type OutputManager struct {
	outputs []Output
}

func (om *OutputManager) Register(o Output) {
	om.outputs = append(om.outputs, o)
}

func (om *OutputManager) Resolved(results []resolve.Result) {
	for _, o := range om.outputs {
		o.Resolved(results)
	}
}

func (om *OutputManager) Planned(subnets []subnet.Subnet, gateway netip.Addr) {
	for _, o := range om.outputs {
		o.Planned(subnets, gateway)
	}
}

func (om *OutputManager) Installed(results []install.Result, gateway netip.Addr) {
	for _, o := range om.outputs {
		o.Installed(results, gateway)
	}
}

func (om *OutputManager) Close() {
	for _, o := range om.outputs {
		o.Close()
	}
}
