//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package route

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"reflect"
	"testing"

	"golang.org/x/net/route"
	"golang.org/x/sys/unix"
)

// loopbackIndex returns the index of an interface that exists on the host so
// getMostSpecificRoute can resolve it.
func loopbackIndex(t *testing.T) int {
	t.Helper()
	ifaces, err := net.Interfaces()
	if err != nil || len(ifaces) == 0 {
		t.Skip("Cannot get interfaces:", err)
	}
	return ifaces[0].Index
}

func TestGetMostSpecificRoute_BSD(t *testing.T) {
	ip := netip.MustParseAddr("192.0.2.100")
	index := loopbackIndex(t)

	tests := []struct {
		name    string
		msgs    []route.Message
		wantGW  netip.Addr
		wantErr bool
	}{
		{
			name: "host route",
			msgs: []route.Message{
				&route.RouteMessage{
					Index: index,
					Flags: unix.RTF_UP | unix.RTF_HOST,
					Addrs: []route.Addr{
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 100}}, // dest
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 1}},   // gateway
						nil, nil, nil,
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 10}}, // source
					},
				},
			},
			wantGW: netip.MustParseAddr("192.0.2.1"),
		},
		{
			name: "longest prefix wins",
			msgs: []route.Message{
				&route.RouteMessage{
					Index: index,
					Flags: unix.RTF_UP,
					Addrs: []route.Addr{
						&route.Inet4Addr{IP: [4]byte{0, 0, 0, 0}},
						&route.Inet4Addr{IP: [4]byte{198, 51, 100, 1}},
						&route.Inet4Addr{IP: [4]byte{0, 0, 0, 0}},
					},
				},
				&route.RouteMessage{
					Index: index,
					Flags: unix.RTF_UP,
					Addrs: []route.Addr{
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 0}},
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 1}},
						&route.Inet4Addr{IP: [4]byte{255, 255, 255, 0}},
					},
				},
			},
			wantGW: netip.MustParseAddr("192.0.2.1"),
		},
		{
			name: "directly connected",
			msgs: []route.Message{
				&route.RouteMessage{
					Index: index,
					Flags: unix.RTF_UP,
					Addrs: []route.Addr{
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 0}},
						&route.LinkAddr{Index: index},
						&route.Inet4Addr{IP: [4]byte{255, 255, 255, 0}},
					},
				},
			},
			wantGW: netip.Addr{},
		},
		{
			name: "no matching route",
			msgs: []route.Message{
				&route.RouteMessage{
					Index: index,
					Flags: unix.RTF_UP,
					Addrs: []route.Addr{
						&route.Inet4Addr{IP: [4]byte{10, 0, 0, 0}},
						&route.Inet4Addr{IP: [4]byte{10, 0, 0, 1}},
						&route.Inet4Addr{IP: [4]byte{255, 0, 0, 0}},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "route without UP flag",
			msgs: []route.Message{
				&route.RouteMessage{
					Index: index,
					Flags: 0, // Not RTF_UP
					Addrs: []route.Addr{
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 0}},
						&route.Inet4Addr{IP: [4]byte{192, 0, 2, 1}},
						&route.Inet4Addr{IP: [4]byte{255, 255, 255, 0}},
					},
				},
			},
			wantErr: true,
		},
		{
			name:    "empty messages",
			msgs:    []route.Message{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getMostSpecificRoute(ip, tt.msgs)

			if (err != nil) != tt.wantErr {
				t.Fatalf("getMostSpecificRoute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Gateway != tt.wantGW {
				t.Errorf("getMostSpecificRoute() gateway = %v, want %v", got.Gateway, tt.wantGW)
			}
		})
	}
}

func Test_get_BSD(t *testing.T) {
	orig := fetchRIBMessages
	fetchRIBMessages = func() ([]route.Message, error) { return nil, errors.New("fetch failed") }
	defer func() { fetchRIBMessages = orig }()

	if _, err := get(netip.MustParseAddr("192.0.2.1")); err == nil {
		t.Error("get() expected error when fetch fails")
	}
}

func Test_routeAddMessage(t *testing.T) {
	gw := netip.MustParseAddr("10.8.0.1")

	tests := []struct {
		name string
		dst  netip.Prefix
	}{
		{"network route", netip.MustParsePrefix("172.16.0.0/16")},
		{"host route", netip.MustParsePrefix("192.168.1.1/32")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := routeAddMessage(tt.dst, gw, 1)
			if err != nil {
				t.Fatalf("routeAddMessage() error = %v", err)
			}
			// rt_msghdr starts with msglen (2 bytes), version and type.
			if len(b) < 4 {
				t.Fatalf("routeAddMessage() returned %d bytes", len(b))
			}
			if b[2] != unix.RTM_VERSION || b[3] != unix.RTM_ADD {
				t.Errorf("header version/type = %d/%d, want %d/%d", b[2], b[3], unix.RTM_VERSION, unix.RTM_ADD)
			}
		})
	}
}

func TestSocketAdder_Add(t *testing.T) {
	var written [][]byte
	orig := writeRouteMessage
	writeRouteMessage = func(b []byte) error {
		written = append(written, b)
		return nil
	}
	defer func() { writeRouteMessage = orig }()

	adder := newNetlinkAdder(0)
	if err := adder.Add(context.Background(), netip.MustParsePrefix("172.16.0.0/16"), netip.MustParseAddr("10.8.0.1")); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if len(written) != 1 {
		t.Errorf("wrote %d messages, want 1", len(written))
	}

	writeRouteMessage = func(b []byte) error { return unix.EEXIST }
	err := adder.Add(context.Background(), netip.MustParsePrefix("172.16.0.0/16"), netip.MustParseAddr("10.8.0.1"))
	if !errors.Is(err, unix.EEXIST) {
		t.Errorf("Add() error = %v, want EEXIST", err)
	}
}

func Test_addCommand_BSD(t *testing.T) {
	gw := netip.MustParseAddr("10.8.0.1")

	tests := []struct {
		dst  netip.Prefix
		want []string
	}{
		{netip.MustParsePrefix("172.16.0.0/16"), []string{"-q", "-n", "add", "-net", "172.16.0.0/16", "10.8.0.1"}},
		{netip.MustParsePrefix("192.168.1.1/32"), []string{"-q", "-n", "add", "-host", "192.168.1.1", "10.8.0.1"}},
	}

	for _, tt := range tests {
		name, args := addCommand(tt.dst, gw, 0)
		if name != "route" || !reflect.DeepEqual(args, tt.want) {
			t.Errorf("addCommand(%s) = %s %v, want route %v", tt.dst, name, args, tt.want)
		}
	}
}
