package logging

import (
	"net"
	"os"

	logrustash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/sirupsen/logrus"

	"devlink/client/cancel"
)

var logger = logrus.New()

// Init configures the process logger: JSON to stdout at the given level,
// plus a logstash hook when addr is non-empty.
func Init(level, logstashAddr string) (*logrus.Logger, error) {
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logger.SetLevel(lvl)

	if logstashAddr != "" {
		conn, err := net.Dial("tcp", logstashAddr)
		if err != nil {
			return logger, err
		}
		hook := logrustash.New(conn, logrustash.DefaultFormatter(logrus.Fields{"app": "devlink"}))
		logger.Hooks.Add(hook)
	}
	return logger, nil
}

// Logger returns the process logger.
func Logger() *logrus.Logger {
	return logger
}

// Discard returns a logger that writes nothing. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Failure logs err at Error, or at Debug when it is an abort.
func Failure(log logrus.FieldLogger, err error, msg string) {
	if cancel.IsAbort(err) {
		log.WithError(err).Debug(msg + " (aborted)")
		return
	}
	log.WithError(err).Error(msg)
}
