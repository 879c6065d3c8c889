// Package wasmcp defines the shared data model for the composition engine:
// component references, interface names, version manifests, overrides and
// the resolved composition plan. Graph-internal handles (PackageId,
// InstanceId, ExportRef) live in package graph, which owns the arenas they
// index into.
package wasmcp

import "strings"

// RefKind distinguishes how a ComponentRef names its Component.
type RefKind int

const (
	// RefPath names a Component by filesystem path.
	RefPath RefKind = iota
	// RefPackage names a Component by namespace:name@version package spec.
	RefPackage
)

// ComponentRef is a user- or framework-supplied reference to a Component,
// either a filesystem path or a namespace:name@version package spec.
// Immutable once constructed.
type ComponentRef struct {
	Kind      RefKind
	Path      string
	Namespace string
	Name      string
	Version   string
}

// String renders the ref the way it would appear on a command line.
func (r ComponentRef) String() string {
	if r.Kind == RefPath {
		return r.Path
	}
	if r.Version == "" {
		return r.Namespace + ":" + r.Name
	}
	return r.Namespace + ":" + r.Name + "@" + r.Version
}

// isPathSpec reports whether s should be treated as a filesystem path rather
// than a namespace:name@version package spec, per spec.md 4.1 "Path
// detection": any string containing '/', '\', or ending in ".wasm".
func isPathSpec(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	return strings.HasSuffix(s, ".wasm")
}

// ParseRef classifies a raw CLI argument into a ComponentRef. Package specs
// are of the form namespace:name[@version].
func ParseRef(raw string) (ComponentRef, error) {
	if raw == "" {
		return ComponentRef{}, &ParseError{Input: raw, Reason: "empty component reference"}
	}
	if isPathSpec(raw) {
		return ComponentRef{Kind: RefPath, Path: raw}, nil
	}

	ns, rest, ok := strings.Cut(raw, ":")
	if !ok || ns == "" || rest == "" {
		return ComponentRef{}, &ParseError{Input: raw, Reason: "expected namespace:name[@version]"}
	}
	name, version, _ := strings.Cut(rest, "@")
	if name == "" {
		return ComponentRef{}, &ParseError{Input: raw, Reason: "expected namespace:name[@version]"}
	}
	return ComponentRef{Kind: RefPackage, Namespace: ns, Name: name, Version: version}, nil
}

// ParseError reports a malformed ComponentRef or InterfaceName input.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return "invalid reference " + quote(e.Input) + ": " + e.Reason
}

func quote(s string) string {
	return "\"" + s + "\""
}

// SanitizeSpec produces the deterministic filename used to cache a fetched
// package-spec reference, per spec.md 4.1: replace ':' and '/' with '_'.
func SanitizeSpec(namespace, name, version string) string {
	spec := namespace + ":" + name
	if version != "" {
		spec += "@" + version
	}
	replacer := strings.NewReplacer(":", "_", "/", "_")
	return replacer.Replace(spec) + ".wasm"
}
