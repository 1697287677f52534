// Package cli implements the elemflux command-line interface.
//
// This package provides commands for enumerating elementary flux modes
// and minimal cut sets of metabolic networks described by plain TOML
// files. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - modes: Enumerate elementary flux modes (or flux patterns)
//   - cutsets: Enumerate minimal cut sets against a target flux region
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context so the enumeration machinery can
// report structured progress.
//
// # Example
//
//	import "github.com/elemflux/elemflux/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the elemflux CLI and returns an error if any command
// fails. The logger is attached to the command context and accessible
// to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "elemflux",
		Short:        "elemflux enumerates elementary flux modes and minimal cut sets",
		Long:         `elemflux enumerates the K shortest elementary flux modes, flux patterns, and minimal cut sets of a metabolic network by solving a sequence of indicator-variable MILPs.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(cctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("elemflux %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newModesCmd())
	root.AddCommand(newCutsetsCmd())

	return root.ExecuteContext(ctx)
}
