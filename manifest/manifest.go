// Package manifest loads the version manifest file (spec.md 6.6): a TOML
// file mapping logical framework-component names to exact versions, plus
// the list of middleware logical names.
package manifest

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

// MiddlewareSuffix is the naming convention that marks a logical component
// name as middleware (spec.md 4.3 "Middleware discovery", 9 "the
// -middleware suffix convention is authoritative").
const MiddlewareSuffix = "-middleware"

// document mirrors the on-disk TOML shape documented in SPEC_FULL.md 6.6.
type document struct {
	Components map[string]string `toml:"components"`
	Middleware struct {
		Names []string `toml:"names"`
	} `toml:"middleware"`
}

// Load parses a TOML version manifest from path.
func Load(path string) (wasmcp.VersionManifest, error) {
	var doc document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return wasmcp.VersionManifest{}, wasmcperr.IoError(path, err)
	}

	mw := doc.Middleware.Names
	if mw == nil {
		mw = discoverMiddlewareByConvention(doc.Components)
	}

	return wasmcp.VersionManifest{
		Components: doc.Components,
		Middleware: mw,
	}, nil
}

// discoverMiddlewareByConvention falls back to the -middleware suffix
// convention when the manifest's [middleware] table is absent, per spec.md
// 9's "dynamic... the -middleware suffix convention is authoritative".
func discoverMiddlewareByConvention(components map[string]string) []string {
	var names []string
	for name := range components {
		if strings.HasSuffix(name, MiddlewareSuffix) {
			names = append(names, name)
		}
	}
	return names
}

// CapabilityName strips the -middleware suffix to recover the capability
// name a middleware logical name adapts (spec.md 4.3).
func CapabilityName(middlewareLogicalName string) string {
	return strings.TrimSuffix(middlewareLogicalName, MiddlewareSuffix)
}
