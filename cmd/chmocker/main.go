package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chmocker/chmocker/internal/cli"
)

// Runs a single chmocker command and exits. Unlike the daemon this tool was
// bootstrapped from, there is no background process: every invocation
// parses flags, runs exactly one verb, and exits.
func main() {
	if err := cli.Execute(); err != nil {
		logrus.Error(err.Error())
		os.Exit(1)
	}
}
