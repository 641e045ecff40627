package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures logrus' standard logger and returns it, so package-level
// logrus calls (such as the final error in main) share the format.
// Production and staging get JSON lines, everything else a human readable
// text format.
func Init(level, environment string) *logrus.Logger {
	log := logrus.StandardLogger()
	configure(log, os.Stderr, level, environment)
	return log
}

func newWithOutput(w io.Writer, level, environment string) *logrus.Logger {
	log := logrus.New()
	configure(log, w, level, environment)
	return log
}

func configure(log *logrus.Logger, w io.Writer, level, environment string) {
	log.SetOutput(w)

	switch environment {
	case "production", "staging":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("Invalid log level %q, defaulting to info", level)
	} else {
		log.SetLevel(lvl)
	}
}
