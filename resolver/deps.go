package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wasmcp/compose/registry"
	"github.com/wasmcp/compose/wasmcp"
)

// frameworkClosure lists the logical framework-component names required for
// a given transport kind, independent of any one build's handler list
// (spec.md 4.1 "ensure_dependencies": "the closure of framework Components
// required for a given transport").
func frameworkClosure(transportKind string) []string {
	return []string{
		"transport-" + transportKind,
		"server-io",
		"session-store",
		"terminal-handler",
	}
}

// EnsureDependencies fetches the framework-component closure for
// transportKind in parallel, skipping files already cached, and returns the
// resolved paths keyed by logical name. Correctness never depends on fetch
// ordering: each logical name addresses an independent cache file
// (spec.md 5 "Parallelism").
func EnsureDependencies(ctx context.Context, manifest wasmcp.VersionManifest, overrides wasmcp.Overrides, transportKind, depsDir string, client registry.Client) (map[string]string, error) {
	names := frameworkClosure(transportKind)

	g, ctx := errgroup.WithContext(ctx)
	paths := make([]string, len(names))

	for i, logicalName := range names {
		i, logicalName := i, logicalName
		g.Go(func() error {
			path, err := ResolveFramework(ctx, logicalName, manifest, overrides, depsDir, client)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(names))
	for i, logicalName := range names {
		out[logicalName] = paths[i]
	}
	return out, nil
}

// EnsureMiddleware fetches every middleware Component listed in the
// manifest, in parallel, alongside the transport closure — middleware is
// part of the framework dependency set a build needs before it can classify
// and wrap user capability Components.
func EnsureMiddleware(ctx context.Context, manifest wasmcp.VersionManifest, overrides wasmcp.Overrides, depsDir string, client registry.Client) (map[string]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	paths := make([]string, len(manifest.Middleware))

	for i, logicalName := range manifest.Middleware {
		i, logicalName := i, logicalName
		g.Go(func() error {
			path, err := ResolveFramework(ctx, logicalName, manifest, overrides, depsDir, client)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(manifest.Middleware))
	for i, logicalName := range manifest.Middleware {
		out[logicalName] = paths[i]
	}
	return out, nil
}
