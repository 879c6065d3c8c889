package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wasmcp/compose/classify"
	"github.com/wasmcp/compose/composer"
	"github.com/wasmcp/compose/manifest"
	"github.com/wasmcp/compose/registry"
	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

func newComposeCmd(verbose *bool) *cobra.Command {
	var (
		transport    string
		output       string
		depsDir      string
		overrideArgs []string
		skipDownload bool
		force        bool
		keepWrapped  bool
		manifestPath string
		registryHost string
		mcpPackage   string
	)

	cmd := &cobra.Command{
		Use:   "compose [component-specs...]",
		Short: "Compose a complete MCP server Component",
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
			overrides, err := parseOverrides(overrideArgs)
			if err != nil {
				return err
			}

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			var client registry.Client
			if !skipDownload {
				client = registry.NewOCIClient(registryHost)
			} else {
				client = skipDownloadClient{}
			}

			opts := composer.Options{
				Transport:   transport,
				DepsDir:     depsDir,
				Manifest:    m,
				Overrides:   overrides,
				McpPackage:  classify.McpPackage{Namespace: "wasmcp", Package: mcpPackage},
				Client:      client,
				KeepWrapped: keepWrapped,
				Verbose:     *verbose,
				Logger:      newLogger(*verbose),
			}

			out, err := composer.Compose(cmd.Context(), userRefs, opts)
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

	cmd.Flags().StringVar(&transport, "transport", "http", "transport kind: http or stdio")
	cmd.Flags().StringVar(&output, "output", "composed.wasm", "output file path")
	cmd.Flags().StringVar(&depsDir, "deps-dir", "", "dependency cache directory (default: $WASMCP_DEPS_DIR or ./deps)")
	cmd.Flags().StringArrayVar(&overrideArgs, "override", nil, "<logical-name>=<spec>, repeatable")
	cmd.Flags().BoolVar(&skipDownload, "skip-download", false, "use only cached dependencies, do not fetch")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")
	cmd.Flags().BoolVar(&keepWrapped, "keep-wrapped", false, "keep .wrapped-* intermediates after a successful build")
	cmd.Flags().StringVar(&manifestPath, "manifest", "versions.toml", "version manifest path")
	cmd.Flags().StringVar(&registryHost, "registry", "", "OCI registry host for package-spec fetches")
	cmd.Flags().StringVar(&mcpPackage, "mcp-package", "mcp-v20250618", "WIT package segment pipeline interfaces live under")

	return cmd
}

func parseRefs(args []string) ([]wasmcp.ComponentRef, error) {
	out := make([]wasmcp.ComponentRef, 0, len(args))
	for _, a := range args {
		ref, err := wasmcp.ParseRef(a)
		if err != nil {
			return nil, wasmcperr.InvalidRef(a, err)
		}
		out = append(out, ref)
	}
	return out, nil
}

// parseOverrides parses --override entries of the form
// <logical-name>=<spec>, matching spec.md 6.3's --override-<logical-name>
// SPEC flag family collapsed into a single repeatable flag.
func parseOverrides(raw []string) (wasmcp.Overrides, error) {
	out := make(wasmcp.Overrides, len(raw))
	for _, entry := range raw {
		logical, spec, ok := cut(entry, '=')
		if !ok {
			return nil, wasmcperr.New(wasmcperr.PhaseCLI, wasmcperr.KindInvalidRef).
				Detail("expected --override <logical-name>=<spec>, got %q", entry).Build()
		}
		ref, err := wasmcp.ParseRef(spec)
		if err != nil {
			return nil, wasmcperr.InvalidRef(entry, err)
		}
		out[logical] = ref
	}
	return out, nil
}

func cut(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// skipDownloadClient errors on every fetch, forcing the resolver to serve
// exclusively from the on-disk cache (spec.md 7 propagation policy:
// "--skip-download is set and the cache contains the file").
type skipDownloadClient struct{}

func (skipDownloadClient) Fetch(ctx context.Context, namespace, name, version string) ([]byte, error) {
	return nil, wasmcperr.New(wasmcperr.PhaseResolve, wasmcperr.KindFetchFailed).
		Detail("download disabled by --skip-download").Build()
}
