package wasmcp

import (
	"reflect"
	"testing"
)

func TestParseInterfaceName(t *testing.T) {
	n, err := ParseInterfaceName("wasmcp:mcp-v20250618/server-handler@0.1.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := InterfaceName{Namespace: "wasmcp", Package: "mcp-v20250618", Iface: "server-handler", Version: "0.1.3"}
	if n != want {
		t.Errorf("got %+v, want %+v", n, want)
	}
	if n.String() != "wasmcp:mcp-v20250618/server-handler@0.1.3" {
		t.Errorf("String() = %q", n.String())
	}
}

func TestParseInterfaceName_NoVersion(t *testing.T) {
	n, err := ParseInterfaceName("wasi:cli/run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Version != "" || !n.IsWasi() {
		t.Errorf("got %+v", n)
	}
}

func TestParseInterfaceName_Invalid(t *testing.T) {
	for _, s := range []string{"nope", "ns:nope-no-slash", ":/x"} {
		if _, err := ParseInterfaceName(s); err == nil {
			t.Errorf("ParseInterfaceName(%q): expected error", s)
		}
	}
}

func TestInterfaceSet_OrderAndDedup(t *testing.T) {
	s := NewInterfaceSet([]string{"a:b/c@1", "wasi:cli/run@1", "a:b/c@1", "a:b/d@1"})
	if got := s.Names(); !reflect.DeepEqual(got, []string{"a:b/c@1", "wasi:cli/run@1", "a:b/d@1"}) {
		t.Errorf("Names() = %v", got)
	}
	if !s.Has("a:b/d@1") || s.Has("missing") {
		t.Errorf("Has() incorrect")
	}
}

func TestInterfaceSet_FindByPrefix(t *testing.T) {
	s := NewInterfaceSet([]string{"wasmcp:mcp/tools@1", "wasmcp:mcp/tools-call-structured@1", "wasmcp:mcp/prompts@1"})
	got := s.FindByPrefix("wasmcp:mcp/tools")
	if !reflect.DeepEqual(got, []string{"wasmcp:mcp/tools@1", "wasmcp:mcp/tools-call-structured@1"}) {
		t.Errorf("got %v", got)
	}
}

func TestInterfaceSet_NonHost(t *testing.T) {
	s := NewInterfaceSet([]string{"wasi:cli/run@1", "wasmcp:mcp/tools@1", "wasi:io/poll@1"})
	got := s.NonHost()
	if !reflect.DeepEqual(got, []string{"wasmcp:mcp/tools@1"}) {
		t.Errorf("got %v", got)
	}
}
