// Package graph constructs the in-memory composition graph — nodes are
// Component instances, edges are satisfied import->export links — and
// drives it through the encoder contract to emit the final Component bytes
// (spec.md 4.4). Handles are int-backed opaque types, valid only within the
// graph that produced them (I6): the arenas live inside the Encoder
// implementation (*encoder.Graph), so handles never need to carry a
// back-reference.
package graph

import "github.com/wasmcp/compose/wasmbin"

// PackageId identifies a registered package within a Graph.
type PackageId int

// InstanceId identifies an instantiated package within a Graph.
type InstanceId int

// ExportRef aliases an instance's export by interface name within a Graph.
type ExportRef int

// State is the builder's monotonic lifecycle state (spec.md 4.4.5).
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateInstantiated
	StateWired
	StateEncoded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateInstantiated:
		return "instantiated"
	case StateWired:
		return "wired"
	case StateEncoded:
		return "encoded"
	default:
		return "unknown"
	}
}

// Package is a parsed Component file usable by the graph: decoded imports/
// exports plus the raw bytes the encoder needs to splice into the final
// output. label is informational (diagnostics only).
type Package struct {
	Label  string
	Path   string
	Raw    []byte
	Module *wasmbin.Module
}
