package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// run configures the standard logger, so this line matches the rest.
		logrus.WithError(err).Error("dailypost exited")
		os.Exit(1)
	}
}
