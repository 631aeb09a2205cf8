package route

import (
	"bytes"
	"context"
	"fmt"
	"net/netip"
	"os/exec"
)

// Commander runs external commands.
type Commander interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommander runs commands with os/exec.
type ExecCommander struct{}

func (ExecCommander) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// CommandAdder adds routes by running the platform routing command,
// `ip route add` on Linux and `route add` on the BSDs.
type CommandAdder struct {
	Commander Commander
	Table     uint32
}

func (a *CommandAdder) Add(ctx context.Context, dst netip.Prefix, gateway netip.Addr) error {
	if err := checkIPv4(dst, gateway); err != nil {
		return err
	}

	name, args := addCommand(dst, gateway, a.Table)
	out, err := a.Commander.CombinedOutput(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("failed to add route %s via %s: %v, output: %s", dst, gateway, err, bytes.TrimSpace(out))
	}
	return nil
}
