//go:build windows || plan9

package config

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

func newSyslogHook(network, addr string) (logrus.Hook, io.Closer, error) {
	return nil, nil, fmt.Errorf("connect to %s: syslog is not available on this platform", syslogTarget(network, addr))
}
