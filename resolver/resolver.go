// Package resolver converts ComponentRefs into local file paths, fetching
// from the registry and caching when needed (spec.md 4.1).
package resolver

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/wasmcp/compose/cache"
	"github.com/wasmcp/compose/registry"
	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the resolver package's logger, a no-op unless SetLogger
// was called, matching the teacher's linker.Logger()/SetLogger() pattern.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the resolver package's logger.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Resolve turns ref into a local file path. Path refs are checked to exist;
// package-spec refs are fetched through client into depsDir (spec.md 4.1
// "resolve").
func Resolve(ctx context.Context, ref wasmcp.ComponentRef, depsDir string, client registry.Client) (string, error) {
	if ref.Kind == wasmcp.RefPath {
		if _, err := os.Stat(ref.Path); err != nil {
			return "", wasmcperr.NotFound(ref.Path)
		}
		return ref.Path, nil
	}

	filename := wasmcp.SanitizeSpec(ref.Namespace, ref.Name, ref.Version)
	if cache.Exists(depsDir, filename) {
		return filepath.Join(depsDir, filename), nil
	}

	data, err := client.Fetch(ctx, ref.Namespace, ref.Name, ref.Version)
	if err != nil {
		return "", wasmcperr.FetchFailed(ref.String(), err)
	}

	path, err := cache.WriteAtomic(depsDir, filename, data)
	if err != nil {
		return "", err
	}
	return path, nil
}

// ResolveFramework resolves a logical framework-component name, consulting
// overrides first and falling back to the manifest (spec.md 4.1
// "resolve_framework"; 9: overrides replace manifest entries and are
// re-inspected like any other input).
func ResolveFramework(ctx context.Context, logicalName string, manifest wasmcp.VersionManifest, overrides wasmcp.Overrides, depsDir string, client registry.Client) (string, error) {
	if ref, ok := overrides.Get(logicalName); ok {
		return Resolve(ctx, ref, depsDir, client)
	}

	version, ok := manifest.Version(logicalName)
	if !ok {
		return "", wasmcperr.New(wasmcperr.PhaseResolve, wasmcperr.KindNotFound).
			Detail("no manifest entry or override for %q", logicalName).Build()
	}

	ref := wasmcp.ComponentRef{
		Kind:      wasmcp.RefPackage,
		Namespace: "wasmcp",
		Name:      logicalName,
		Version:   version,
	}
	return Resolve(ctx, ref, depsDir, client)
}
