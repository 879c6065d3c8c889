// Package inspector decodes a Component binary and enumerates its WIT
// imports and exports as fully-qualified interface names (spec.md 4.2).
package inspector

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wasmcp/compose/wasmbin"
	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

// Interfaces is the introspected view of a Component: ordered sets of
// import and export interface names, plus any named (non-interface) items
// which don't carry the ns:pkg/iface@ver shape and are excluded from both
// sets (spec.md 4.2: "whose key is an interface (not a named item)").
type Interfaces struct {
	Imports *wasmcp.InterfaceSet
	Exports *wasmcp.InterfaceSet
}

// isInterfaceName reports whether a raw import/export name string has the
// ns:pkg/iface shape (containing both ':' and '/') rather than being a
// plain named item (e.g. a bare function name).
func isInterfaceName(raw string) bool {
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return false
	}
	return strings.IndexByte(raw[colon:], '/') > 0
}

// canonicalize ensures a missing version becomes "0.0.0" (spec.md 4.2).
func canonicalize(raw string) string {
	if strings.Contains(raw, "@") {
		return raw
	}
	return raw + "@0.0.0"
}

// ReadInterfaces decodes path and returns its interface-shaped imports and
// exports. Fails with NotAComponent if decode instead finds a WIT package.
func ReadInterfaces(ctx context.Context, path string) (Interfaces, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Interfaces{}, wasmcperr.IoError(path, err)
	}

	if !wasmbin.IsComponent(data) {
		return Interfaces{}, wasmcperr.NotAComponent(path)
	}

	mod, err := wasmbin.Decode(data)
	if err != nil {
		return Interfaces{}, wasmcperr.New(wasmcperr.PhaseInspect, wasmcperr.KindNotAComponent).
			Detail("decode %s", path).Cause(err).Path(path).Build()
	}
	if mod.IsWitPackage() {
		return Interfaces{}, wasmcperr.NotAComponent(path)
	}

	if err := wasmbin.ValidateCoreModules(ctx, mod); err != nil {
		return Interfaces{}, wasmcperr.New(wasmcperr.PhaseInspect, wasmcperr.KindNotAComponent).
			Detail("embedded core module failed structural validation").Cause(err).Path(path).Build()
	}

	imports := wasmcp.NewInterfaceSet(nil)
	exports := wasmcp.NewInterfaceSet(nil)

	for _, imp := range mod.Imports {
		if isInterfaceName(imp.Name) {
			imports.Add(canonicalize(imp.Name))
		}
	}
	for _, exp := range mod.Exports {
		if isInterfaceName(exp.Name) {
			exports.Add(canonicalize(exp.Name))
		}
	}

	return Interfaces{Imports: imports, Exports: exports}, nil
}

// Exports is a convenience wrapper returning just the export set.
func Exports(ctx context.Context, path string) (*wasmcp.InterfaceSet, error) {
	ifaces, err := ReadInterfaces(ctx, path)
	if err != nil {
		return nil, err
	}
	return ifaces.Exports, nil
}

// Imports is a convenience wrapper returning just the import set.
func Imports(ctx context.Context, path string) (*wasmcp.InterfaceSet, error) {
	ifaces, err := ReadInterfaces(ctx, path)
	if err != nil {
		return nil, err
	}
	return ifaces.Imports, nil
}

// FindExportByPrefix returns the first export whose fully-qualified name
// starts with prefix — used to discover the exact version string a
// Component uses for a known interface. When more than one export shares
// the prefix, logWarn (if non-nil) is invoked with all candidates before
// the first (declaration-order) one is returned, per SPEC_FULL.md's
// Open Question 2 decision.
func FindExportByPrefix(ctx context.Context, path, prefix string, logWarn func(candidates []string)) (string, error) {
	exports, err := Exports(ctx, path)
	if err != nil {
		return "", err
	}
	matches := exports.FindByPrefix(prefix)
	if len(matches) == 0 {
		return "", wasmcperr.MissingExport(path, prefix)
	}
	if len(matches) > 1 && logWarn != nil {
		logWarn(matches)
	}
	return matches[0], nil
}

// FindImportByPrefix mirrors FindExportByPrefix over imports (used by
// classify to discover a middleware's exact capability-interface version).
func FindImportByPrefix(ctx context.Context, path, prefix string, logWarn func(candidates []string)) (string, error) {
	imports, err := Imports(ctx, path)
	if err != nil {
		return "", err
	}
	matches := imports.FindByPrefix(prefix)
	if len(matches) == 0 {
		return "", wasmcperr.MissingImport(path, prefix)
	}
	if len(matches) > 1 && logWarn != nil {
		logWarn(matches)
	}
	return matches[0], nil
}

// HasImport reports exact-string import membership (I2).
func HasImport(ctx context.Context, path, exactName string) (bool, error) {
	imports, err := Imports(ctx, path)
	if err != nil {
		return false, err
	}
	return imports.Has(exactName), nil
}

// HasExport reports exact-string export membership (I2).
func HasExport(ctx context.Context, path, exactName string) (bool, error) {
	exports, err := Exports(ctx, path)
	if err != nil {
		return false, err
	}
	return exports.Has(exactName), nil
}

// fmtPrefix renders the discovery prefix for a capability or pipeline
// interface in the mcp package namespace, e.g. "wasmcp:mcp-v20250618/tools@".
func fmtPrefix(namespace, pkg, iface string) string {
	return fmt.Sprintf("%s:%s/%s@", namespace, pkg, iface)
}

// PrefixFor is exported so classify/graph can build discovery prefixes the
// same way the Inspector itself does.
func PrefixFor(namespace, pkg, iface string) string {
	return fmtPrefix(namespace, pkg, iface)
}
