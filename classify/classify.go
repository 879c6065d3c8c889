// Package classify normalizes each user Component into a handler Component
// (spec.md 4.3): deciding whether it already is a handler or a capability,
// and wrapping capabilities with their matching middleware.
package classify

import (
	"context"

	"github.com/wasmcp/compose/inspector"
	"github.com/wasmcp/compose/wasmcperr"
)

// Kind is the outcome of classify().
type Kind int

const (
	// KindHandler: exports the pipeline handler interface (or matched
	// nothing known — treated as a custom handler variant, spec.md 4.3).
	KindHandler Kind = iota
	// KindCapability: exports a known capability interface.
	KindCapability
)

// Result is the classify() outcome.
type Result struct {
	Kind Kind
	// Capability is set when Kind == KindCapability: the logical capability
	// name (e.g. "tools") whose middleware should wrap this Component.
	Capability string
}

// KnownCapability is one capability the classifier checks for, derived from
// a middleware's logical name by stripping the -middleware suffix.
type KnownCapability struct {
	Name          string // e.g. "tools"
	ExportPrefix  string // e.g. "wasmcp:mcp-v20250618/tools@"
}

// Classify implements the order-sensitive rule in spec.md 4.3 / I5: check
// the handler export first, so an already-wrapped handler containing
// nested capability Components is never re-wrapped.
func Classify(ctx context.Context, path, handlerExportPrefix string, knownCaps []KnownCapability) (Result, error) {
	handlerMatch, err := inspector.FindExportByPrefix(ctx, path, handlerExportPrefix, nil)
	switch {
	case err == nil && handlerMatch != "":
		return Result{Kind: KindHandler}, nil
	case err != nil && !isLookupMiss(err):
		return Result{}, err
	}

	for _, cap := range knownCaps {
		match, err := inspector.FindExportByPrefix(ctx, path, cap.ExportPrefix, nil)
		switch {
		case err == nil && match != "":
			return Result{Kind: KindCapability, Capability: cap.Name}, nil
		case err != nil && !isLookupMiss(err):
			return Result{}, err
		}
	}

	// Unknown: treated as Handler by the pipeline (spec.md 4.3 step 3 —
	// "the assumption being the Component advertises a custom handler
	// variant").
	return Result{Kind: KindHandler}, nil
}

// isLookupMiss reports whether err is FindExportByPrefix's "no export with
// this prefix" signal rather than an unexpected decode/IO failure — only
// the latter should propagate out of Classify.
func isLookupMiss(err error) bool {
	werr, ok := err.(*wasmcperr.Error)
	if !ok {
		return false
	}
	return werr.Kind == wasmcperr.KindMissingExport
}
