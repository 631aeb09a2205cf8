package install

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/tkjaer/gwhosts/pkg/subnet"
)

// fakeAdder records the prefixes it is asked to add and fails for those in fail.
type fakeAdder struct {
	added []netip.Prefix
	fail  map[netip.Prefix]error
}

func (f *fakeAdder) Add(ctx context.Context, dst netip.Prefix, gateway netip.Addr) error {
	f.added = append(f.added, dst)
	return f.fail[dst]
}

func testSubnets() []subnet.Subnet {
	return []subnet.Subnet{
		{Prefix: netip.MustParsePrefix("172.16.0.0/16"), Hostnames: []string{"a.example.com", "b.example.com"}},
		{Prefix: netip.MustParsePrefix("192.168.1.0/24"), Hostnames: []string{"c.example.com"}},
		{Prefix: netip.MustParsePrefix("203.0.113.9/32"), Hostnames: []string{"d.example.com"}},
	}
}

func TestInstaller_Install(t *testing.T) {
	log, hook := test.NewNullLogger()
	adder := &fakeAdder{}
	gw := netip.MustParseAddr("10.8.0.1")

	results := NewInstaller(adder, log).Install(context.Background(), testSubnets(), gw)

	if len(results) != 3 || len(adder.added) != 3 {
		t.Fatalf("got %d results and %d adds, want 3 and 3", len(results), len(adder.added))
	}
	for i, s := range testSubnets() {
		if adder.added[i] != s.Prefix {
			t.Errorf("add %d = %s, want %s", i, adder.added[i], s.Prefix)
		}
		if results[i].Err != nil {
			t.Errorf("result %d unexpected error: %v", i, results[i].Err)
		}
	}

	entries := hook.AllEntries()
	if len(entries) != 3 {
		t.Fatalf("got %d log entries, want 3", len(entries))
	}
	first := entries[0]
	if first.Level != logrus.InfoLevel {
		t.Errorf("level = %v, want info", first.Level)
	}
	if first.Message != "[R] 172.16.0.0/16[a.example.com,b.example.com] via 10.8.0.1" {
		t.Errorf("message = %q", first.Message)
	}
	if first.Data["subnet"] != "172.16.0.0/16" || first.Data["gateway"] != "10.8.0.1" || first.Data["hostnames"] != "a.example.com,b.example.com" {
		t.Errorf("fields = %v", first.Data)
	}
}

func TestInstaller_Install_ContinuesPastFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)
	failing := netip.MustParsePrefix("192.168.1.0/24")
	adder := &fakeAdder{fail: map[netip.Prefix]error{failing: errors.New("file exists")}}

	results := NewInstaller(adder, log).Install(context.Background(), testSubnets(), netip.MustParseAddr("10.8.0.1"))

	if len(adder.added) != 3 {
		t.Errorf("attempted %d adds, want 3", len(adder.added))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Subnet.Prefix != failing {
		t.Errorf("Failed() = %+v, want only %s", failed, failing)
	}

	// Failures produce no info record
	for _, e := range hook.AllEntries() {
		if e.Data["subnet"] == failing.String() {
			t.Errorf("unexpected log entry for failed subnet: %q", e.Message)
		}
	}
	if len(hook.AllEntries()) != 2 {
		t.Errorf("got %d log entries, want 2", len(hook.AllEntries()))
	}
}

func TestInstaller_Install_FailureAtDebug(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	adder := &fakeAdder{fail: map[netip.Prefix]error{
		netip.MustParsePrefix("172.16.0.0/16"): errors.New("network unreachable"),
	}}

	NewInstaller(adder, log).Install(context.Background(), testSubnets()[:1], netip.MustParseAddr("10.8.0.1"))

	e := hook.LastEntry()
	if e == nil || e.Level != logrus.DebugLevel || e.Message != "Failed to add route" {
		t.Fatalf("last entry = %+v, want debug failure record", e)
	}
	if e.Data[logrus.ErrorKey] == nil {
		t.Error("failure record has no error field")
	}
}

func TestInstaller_Install_Empty(t *testing.T) {
	log, hook := test.NewNullLogger()
	adder := &fakeAdder{}

	results := NewInstaller(adder, log).Install(context.Background(), nil, netip.MustParseAddr("10.8.0.1"))

	if len(results) != 0 || len(adder.added) != 0 || len(hook.AllEntries()) != 0 {
		t.Errorf("empty input produced %d results, %d adds, %d logs", len(results), len(adder.added), len(hook.AllEntries()))
	}
}
