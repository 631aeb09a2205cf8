package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// SyslogTag identifies gwhosts records in syslog.
const SyslogTag = "gwhosts"

// SetupLogging builds the logger shared by every component based on args.
// Records go to syslog, the --log file and stderr as requested. The returned
// function flushes and closes the sinks and must be called before exit.
func SetupLogging(args Args) (*logrus.Logger, func() error, error) {
	var writers []io.Writer
	var closers []io.Closer

	// Add file writer if specified
	if args.Log != "" {
		f, err := os.OpenFile(args.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		closers = append(closers, f)
	}
	if args.Stderr {
		writers = append(writers, os.Stderr)
	}

	log := logrus.New()
	log.SetLevel(parseLogLevel(args.LogLevel))

	if args.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: !args.Stderr || !term.IsTerminal(int(os.Stderr.Fd())),
		})
	}

	var syslogErr error
	if args.Syslog {
		hook, closer, err := newSyslogHook(args.SyslogNetwork, args.SyslogAddr)
		if err != nil {
			// Without syslog the records would be lost entirely
			syslogErr = err
			if !args.Stderr {
				writers = append(writers, os.Stderr)
			}
		} else {
			log.AddHook(hook)
			closers = append(closers, closer)
		}
	}

	// Combine writers if multiple
	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}

	if syslogErr != nil {
		log.WithError(syslogErr).Warn("Syslog unavailable, logging to stderr")
	}

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	return log, closeAll, nil
}

// parseLogLevel converts string to logrus.Level
func parseLogLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func syslogTarget(network, addr string) string {
	if network == "" {
		return "local syslog"
	}
	return fmt.Sprintf("%s://%s", network, addr)
}
