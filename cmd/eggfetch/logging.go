// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is the shared CLI logger. Commands and the packages they construct
// (registry client, installer) log through it; level is set once from the
// --verbose flag or the ui.verbose config key.
//
//nolint:gochecknoglobals // Single logger shared by all commands.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "eggfetch",
})

// setupLogging applies the effective verbosity to the shared logger.
func setupLogging(verboseMode bool) {
	if verboseMode {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.WarnLevel)
}
