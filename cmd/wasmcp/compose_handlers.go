package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wasmcp/compose/classify"
	"github.com/wasmcp/compose/composer"
	"github.com/wasmcp/compose/manifest"
	"github.com/wasmcp/compose/registry"
	"github.com/wasmcp/compose/wasmcperr"
)

// newComposeHandlersCmd builds the handler-only composition command
// (spec.md 4.4.3 / 6.3): no transport, server-io or session-store, just
// the reverse-chain of the given handler/capability Components.
func newComposeHandlersCmd(verbose *bool) *cobra.Command {
	var (
		output       string
		depsDir      string
		force        bool
		keepWrapped  bool
		manifestPath string
		registryHost string
		mcpPackage   string
	)

	cmd := &cobra.Command{
		Use:   "compose-handlers [component-specs...]",
		Short: "Compose a standalone handler chain Component (no transport/I/O)",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix("WASMCP")
			v.BindEnv("deps_dir", "WASMCP_DEPS_DIR")
			if depsDir == "" {
				depsDir = v.GetString("deps_dir")
			}
			if depsDir == "" {
				depsDir = "./deps"
			}

			if !force {
				if _, err := os.Stat(output); err == nil {
					return wasmcperr.New(wasmcperr.PhaseCLI, wasmcperr.KindInvalidRef).
						Detail("output %q already exists; pass --force to overwrite", output).Build()
				}
			}

			userRefs, err := parseRefs(args)
			if err != nil {
				return err
			}

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			opts := composer.Options{
				DepsDir:     depsDir,
				Manifest:    m,
				McpPackage:  classify.McpPackage{Namespace: "wasmcp", Package: mcpPackage},
				Client:      registry.NewOCIClient(registryHost),
				KeepWrapped: keepWrapped,
				Verbose:     *verbose,
				Logger:      newLogger(*verbose),
			}

			out, err := composer.ComposeHandlers(cmd.Context(), userRefs, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return wasmcperr.IoError(output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "handlers.wasm", "output file path")
	cmd.Flags().StringVar(&depsDir, "deps-dir", "", "dependency cache directory (default: $WASMCP_DEPS_DIR or ./deps)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	cmd.Flags().BoolVar(&keepWrapped, "keep-wrapped", false, "keep .wrapped-* intermediates after a successful build")
	cmd.Flags().StringVar(&manifestPath, "manifest", "versions.toml", "version manifest path")
	cmd.Flags().StringVar(&registryHost, "registry", "", "OCI registry host for package-spec fetches")
	cmd.Flags().StringVar(&mcpPackage, "mcp-package", "mcp-v20250618", "WIT package segment pipeline interfaces live under")

	return cmd
}
