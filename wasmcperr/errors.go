// Package wasmcperr is the composition engine's structured error type,
// modeled on the teacher SDK's errors package: a single *Error carrying
// Phase, Kind, Detail, Cause and Path, built through a chained Builder.
package wasmcperr

import (
	"fmt"
	"strings"
)

// Phase indicates which subsystem raised the error.
type Phase string

const (
	PhaseResolve  Phase = "resolve"
	PhaseInspect  Phase = "inspect"
	PhaseClassify Phase = "classify"
	PhaseWrap     Phase = "wrap"
	PhaseGraph    Phase = "graph"
	PhaseEncode   Phase = "encode"
	PhaseCLI      Phase = "cli"
)

// Kind categorizes the error, one entry per spec.md 7's taxonomy table.
type Kind string

const (
	KindInvalidRef          Kind = "invalid_ref"
	KindNotFound            Kind = "not_found"
	KindNotAComponent       Kind = "not_a_component"
	KindFetchFailed         Kind = "fetch_failed"
	KindMissingExport       Kind = "missing_export"
	KindMissingImport       Kind = "missing_import"
	KindTypeMismatch        Kind = "type_mismatch"
	KindUnsatisfiedImports  Kind = "unsatisfied_imports"
	KindEmptyHandlerChain   Kind = "empty_handler_chain"
	KindUnsupportedTransport Kind = "unsupported_transport"
	KindEncodeFailed        Kind = "encode_failed"
	KindIoError             Kind = "io_error"
	KindCancelled           Kind = "cancelled"
)

// Error is the structured error type used throughout the engine.
type Error struct {
	Phase  Phase
	Kind   Kind
	Detail string
	Cause  error
	Path   []string

	// ImporterIface/ExporterIface are set only by TypeMismatch, for the
	// CLI's verbose-mode side-by-side signature dump (spec.md 7).
	ImporterIface string
	ExporterIface string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Phase and Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured, chained error construction.
type Builder struct {
	err Error
}

// New starts a builder for an error in the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

// Detail sets the human-readable detail message, printf-style.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Cause sets the wrapped underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Path sets the chain of contexts naming the offending input (component
// label, interface name, ...), per spec.md 7 "Propagation policy".
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Build returns the constructed *Error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors matching the taxonomy table directly.

func InvalidRef(raw string, cause error) *Error {
	return New(PhaseResolve, KindInvalidRef).Detail("malformed component reference %q", raw).Cause(cause).Build()
}

func NotFound(path string) *Error {
	return New(PhaseResolve, KindNotFound).Detail("not found").Path(path).Build()
}

func NotAComponent(path string) *Error {
	return New(PhaseInspect, KindNotAComponent).Detail("decoded blob is not a Component").Path(path).Build()
}

func FetchFailed(spec string, cause error) *Error {
	return New(PhaseResolve, KindFetchFailed).Detail("fetch %s", spec).Cause(cause).Build()
}

func MissingExport(label, iface string) *Error {
	return New(PhaseGraph, KindMissingExport).Detail("missing export").Path(label, iface).Build()
}

func MissingImport(label, iface string) *Error {
	return New(PhaseWrap, KindMissingImport).Detail("missing import").Path(label, iface).Build()
}

func TypeMismatch(labelA, ifaceA, labelB, ifaceB string) *Error {
	err := New(PhaseGraph, KindTypeMismatch).
		Detail("%s (%s) incompatible with %s (%s)", labelA, ifaceA, labelB, ifaceB).
		Path(labelA, labelB).Build()
	err.ImporterIface = ifaceA
	err.ExporterIface = ifaceB
	return err
}

func EmptyHandlerChain() *Error {
	return New(PhaseGraph, KindEmptyHandlerChain).Detail("handler-only composition requires at least one handler").Build()
}

func UnsupportedTransport(kind string) *Error {
	return New(PhaseGraph, KindUnsupportedTransport).
		Detail("transport %q not supported; allowed: http, stdio", kind).Build()
}

func EncodeFailed(cause error) *Error {
	return New(PhaseEncode, KindEncodeFailed).Detail("encoder rejected final graph").Cause(cause).Build()
}

func IoError(path string, cause error) *Error {
	return New(PhaseResolve, KindIoError).Detail("io failure").Path(path).Cause(cause).Build()
}

func Cancelled() *Error {
	return New(PhaseResolve, KindCancelled).Detail("build cancelled").Build()
}
