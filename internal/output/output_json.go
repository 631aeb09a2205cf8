package output

import (
	"encoding/json"
	"io"
	"net/netip"
	"os"

	"github.com/tkjaer/gwhosts/internal/install"
	"github.com/tkjaer/gwhosts/pkg/resolve"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

// Record is one line of JSON output.
type Record struct {
	Type      string   `json:"type"` // unresolved, planned or installed
	Hostname  string   `json:"hostname,omitempty"`
	Subnet    string   `json:"subnet,omitempty"`
	Hostnames []string `json:"hostnames,omitempty"`
	Gateway   string   `json:"gateway,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// JSONOutput writes one JSON record per line to a file or stdout
type JSONOutput struct {
	w        io.Writer
	enc      *json.Encoder
	toStdout bool
}

func NewJSONOutput(filename string) (*JSONOutput, error) {
	if filename == "" {
		// Output to stdout
		return &JSONOutput{
			w:        os.Stdout,
			enc:      json.NewEncoder(os.Stdout),
			toStdout: true,
		}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		w:   f,
		enc: json.NewEncoder(f),
	}, nil
}

func (j *JSONOutput) Resolved(results []resolve.Result) {
	for _, r := range results {
		// Only failures are reported, resolved names show up in the plan
		if r.Err == nil {
			continue
		}
		_ = j.enc.Encode(Record{Type: "unresolved", Hostname: r.Hostname, Error: r.Err.Error()})
	}
}

func (j *JSONOutput) Planned(subnets []subnet.Subnet, gateway netip.Addr) {
	for _, s := range subnets {
		_ = j.enc.Encode(Record{Type: "planned", Subnet: s.String(), Hostnames: s.Hostnames, Gateway: gateway.String()})
	}
}

func (j *JSONOutput) Installed(results []install.Result, gateway netip.Addr) {
	for _, r := range results {
		rec := Record{Type: "installed", Subnet: r.Subnet.String(), Hostnames: r.Subnet.Hostnames, Gateway: gateway.String()}
		if r.Err != nil {
			rec.Type = "failed"
			rec.Error = r.Err.Error()
		}
		_ = j.enc.Encode(rec)
	}
}

func (j *JSONOutput) Close() error {
	if c, ok := j.w.(io.Closer); ok && !j.toStdout {
		return c.Close()
	}
	return nil
}
