// Package main implements the fstimeline executable, a forensic timeline
// tool that orders filesystem metadata chronologically for review.
package main

import (
	"os"

	internal "github.com/forensio/fstimeline/fstimeline"
	"github.com/forensio/fstimeline/fstimeline/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger := internal.GetLogger()
		logger.Error().Err(err).Msg("fstimeline failed")
		os.Exit(1)
	}
}
