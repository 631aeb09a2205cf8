//go:build !windows && !plan9

package config

import (
	"fmt"
	"io"
	"log/syslog"

	"github.com/sirupsen/logrus"
	logrus_syslog "github.com/sirupsen/logrus/hooks/syslog"
)

// newSyslogHook connects to syslog. Empty network and addr use the local
// syslog socket (/dev/log and friends).
func newSyslogHook(network, addr string) (logrus.Hook, io.Closer, error) {
	hook, err := logrus_syslog.NewSyslogHook(network, addr, syslog.LOG_INFO|syslog.LOG_USER, SyslogTag)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", syslogTarget(network, addr), err)
	}
	return hook, hook.Writer, nil
}
