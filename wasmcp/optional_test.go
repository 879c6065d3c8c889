package wasmcp

import "testing"

func TestIsOptionalImport(t *testing.T) {
	cases := map[string]bool{
		"wasmcp:mcp-v20250618/tools-call-structured@0.1.0": true,
		"wasmcp:mcp-v20250618/tools-call-structured":        true,
		"wasmcp:mcp-v20250618/tools@0.1.0":                  false,
		"wasi:cli/run@0.2.0":                                false,
	}
	for iface, want := range cases {
		if got := IsOptionalImport(iface); got != want {
			t.Errorf("IsOptionalImport(%q) = %v, want %v", iface, got, want)
		}
	}
}
