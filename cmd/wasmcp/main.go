// Command wasmcp is the CLI surface for the composition engine (spec.md
// 6.3): compose and compose-handlers. No business logic lives here; this
// package only parses flags/config and calls into package composer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wasmcp/compose/wasmcperr"
)

func main() {
	var verbose bool
	root := newRootCmd(&verbose)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderFailure(err, verbose))
		os.Exit(exitCode(err))
	}
}

func newRootCmd(verbose *bool) *cobra.Command {
	root := &cobra.Command{
		Use:           "wasmcp",
		Short:         "Compose Wasm Components into a single MCP server Component",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(verbose, "verbose", false, "dump per-edge import/export signatures on failure")

	root.AddCommand(newComposeCmd(verbose))
	root.AddCommand(newComposeHandlersCmd(verbose))
	return root
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// exitCode maps an error to one of the exit codes in spec.md 6.3:
// 0 success, 1 input/validation error, 2 resolution/IO error,
// 3 composition error.
func exitCode(err error) int {
	werr, ok := err.(*wasmcperr.Error)
	if !ok {
		return 1
	}
	switch werr.Kind {
	case wasmcperr.KindInvalidRef, wasmcperr.KindEmptyHandlerChain, wasmcperr.KindUnsupportedTransport:
		return 1
	case wasmcperr.KindNotFound, wasmcperr.KindFetchFailed, wasmcperr.KindIoError, wasmcperr.KindNotAComponent:
		return 2
	default:
		return 3
	}
}

// renderFailure formats the concise diagnostic named in spec.md 7
// ("CLI writes a concise diagnostic to standard error, including the error
// kind and the chain of contexts"). In verbose mode, a type-mismatch error
// also gets the side-by-side importer/exporter signature dump (spec.md 7).
func renderFailure(err error, verbose bool) string {
	werr, ok := err.(*wasmcperr.Error)
	if !ok {
		return err.Error()
	}
	out := errorPanel(werr)
	if verbose && werr.Kind == wasmcperr.KindTypeMismatch && len(werr.Path) == 2 {
		out += "\n" + sideBySideDiff(werr.Path[0], werr.ImporterIface, werr.Path[1], werr.ExporterIface)
	}
	return out
}
