package wasmcperr

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error_IncludesPhaseKindPathDetailCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseGraph, KindTypeMismatch).
		Detail("a (x) incompatible with b (y)").
		Path("a", "b").
		Cause(cause).
		Build()

	msg := err.Error()
	for _, want := range []string{"graph", "type_mismatch", "a.b", "incompatible", "boom"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestError_Is_MatchesPhaseAndKindOnly(t *testing.T) {
	a := New(PhaseResolve, KindNotFound).Path("x").Build()
	b := New(PhaseResolve, KindNotFound).Path("y").Build()
	c := New(PhaseResolve, KindFetchFailed).Build()

	if !a.Is(b) {
		t.Error("expected a.Is(b) true: same phase/kind, different path")
	}
	if a.Is(c) {
		t.Error("expected a.Is(c) false: different kind")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(PhaseEncode, KindEncodeFailed).Cause(cause).Build()
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return the wrapped cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should traverse to cause")
	}
}

func TestTypeMismatch_Constructor(t *testing.T) {
	err := TypeMismatch("component-0", "wasmcp:mcp/server-handler@0.1.2", "terminal", "wasmcp:mcp/server-handler@0.1.3")
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v", err.Kind)
	}
	if err.Path[0] != "component-0" || err.Path[1] != "terminal" {
		t.Errorf("Path = %v", err.Path)
	}
}

func TestUnsatisfiedImportsError(t *testing.T) {
	err := NewUnsatisfiedImportsError(map[string][]string{
		"handler-1": {"wasmcp:mcp/tools@0.1.0"},
		"transport": {"wasmcp:mcp/server-io@0.1.0", "wasmcp:mcp/sessions@0.1.0"},
	})
	if err.Empty() {
		t.Fatal("expected non-empty")
	}
	msg := err.Error()
	if !strings.Contains(msg, "handler-1") || !strings.Contains(msg, "transport") {
		t.Errorf("Error() = %q, missing a label", msg)
	}
}

func TestUnsatisfiedImportsError_Empty(t *testing.T) {
	err := NewUnsatisfiedImportsError(nil)
	if !err.Empty() {
		t.Error("expected Empty() true for nil map")
	}
}
