package output

import (
	"fmt"
	"io"
	"net/netip"
	"text/tabwriter"

	"github.com/tkjaer/gwhosts/internal/install"
	"github.com/tkjaer/gwhosts/pkg/resolve"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

// TextOutput prints aligned columns for a terminal.
type TextOutput struct {
	tw *tabwriter.Writer
}

func NewTextOutput(w io.Writer) *TextOutput {
	return &TextOutput{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (t *TextOutput) Resolved(results []resolve.Result) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(t.tw, "unresolved\t%s\t%v\n", r.Hostname, r.Err)
		}
	}
	t.tw.Flush()
}

func (t *TextOutput) Planned(subnets []subnet.Subnet, gateway netip.Addr) {
	for _, s := range subnets {
		fmt.Fprintf(t.tw, "%s\tvia %s\t%s\n", s, gateway, s.Hosts())
	}
	t.tw.Flush()
}

func (t *TextOutput) Installed(results []install.Result, gateway netip.Addr) {
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "failed: " + r.Err.Error()
		}
		fmt.Fprintf(t.tw, "%s\tvia %s\t%s\t%s\n", r.Subnet, gateway, r.Subnet.Hosts(), status)
	}
	t.tw.Flush()
}

func (t *TextOutput) Close() error {
	return t.tw.Flush()
}
