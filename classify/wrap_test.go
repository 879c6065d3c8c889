package classify

import (
	"context"
	"os"
	"testing"

	"github.com/wasmcp/compose/graph/encoder"
)

func TestWrap_ProducesLoadableHandlerComponent(t *testing.T) {
	capPath := writeComponent(t, nil, []string{"wasmcp:mcp-v20250618/tools@0.1.0"})
	mwPath := writeComponent(t,
		[]string{"wasmcp:mcp-v20250618/tools@0.1.0"},
		[]string{"wasmcp:mcp-v20250618/server-handler@0.1.0"})

	depsDir := t.TempDir()
	enc := encoder.New()
	path, err := Wrap(context.Background(), enc, depsDir, capPath, mwPath, "tools", 0,
		"wasmcp:mcp-v20250618/tools@0.1.0", "wasmcp:mcp-v20250618/server-handler@0.1.0", nil)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected wrapped output to exist: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		t.Fatalf("ReadFile: %v, len=%d", err, len(data))
	}
}

func TestDiscoverMiddlewareInterfaces(t *testing.T) {
	mwPath := writeComponent(t,
		[]string{"wasmcp:mcp-v20250618/tools@0.1.0"},
		[]string{"wasmcp:mcp-v20250618/server-handler@0.1.0"})

	capIface, handlerIface, err := DiscoverMiddlewareInterfaces(context.Background(), mwPath,
		"wasmcp:mcp-v20250618/tools@", "wasmcp:mcp-v20250618/server-handler@", nil)
	if err != nil {
		t.Fatalf("DiscoverMiddlewareInterfaces: %v", err)
	}
	if capIface != "wasmcp:mcp-v20250618/tools@0.1.0" || handlerIface != "wasmcp:mcp-v20250618/server-handler@0.1.0" {
		t.Errorf("got %q, %q", capIface, handlerIface)
	}
}
