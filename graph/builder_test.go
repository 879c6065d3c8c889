package graph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wasmcp/compose/graph"
	"github.com/wasmcp/compose/graph/encoder"
	"github.com/wasmcp/compose/wasmbin"
	"github.com/wasmcp/compose/wasmcperr"
)

const (
	handlerIface  = "wasmcp:mcp-v20250618/server-handler@0.1.0"
	serverIOIface = "wasmcp:mcp-v20250618/server-io@0.1.0"
	sessionsIface = "wasmcp:mcp-v20250618/sessions@0.1.0"
	sessionMgrIface = "wasmcp:mcp-v20250618/session-manager@0.1.0"
	hostIface     = "wasi:http/incoming-handler@0.2.8"
)

func writeComponent(t *testing.T, imports, exports []string) string {
	t.Helper()
	w := wasmbin.NewWriter()
	w.WriteBytes([]byte{0x00, 0x61, 0x73, 0x6D, 0x0d, 0x00, 0x01, 0x00})
	w.WriteSection(1, []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00})

	if len(imports) > 0 {
		iw := wasmbin.NewWriter()
		iw.WriteU32(uint32(len(imports)))
		for _, name := range imports {
			iw.Byte(0x01)
			iw.WriteName(name)
			iw.Byte(wasmbin.ExternInstance)
			iw.WriteU32(0)
		}
		w.WriteSection(10, iw.Bytes())
	}
	if len(exports) > 0 {
		ew := wasmbin.NewWriter()
		ew.WriteU32(uint32(len(exports)))
		for _, name := range exports {
			ew.Byte(0x01)
			ew.WriteName(name)
			ew.Byte(0x02)
			ew.WriteU32(0)
		}
		w.WriteSection(11, ew.Bytes())
	}

	path := filepath.Join(t.TempDir(), "component.wasm")
	if err := os.WriteFile(path, w.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildServerMode_FullTopology(t *testing.T) {
	transportPath := writeComponent(t,
		[]string{handlerIface, serverIOIface, sessionsIface, sessionMgrIface},
		[]string{hostIface})
	serverIOPath := writeComponent(t, nil, []string{serverIOIface})
	sessionStorePath := writeComponent(t, nil, []string{sessionsIface, sessionMgrIface})
	terminalPath := writeComponent(t, nil, []string{handlerIface})
	h1Path := writeComponent(t, []string{handlerIface, serverIOIface}, []string{handlerIface})

	b := graph.NewBuilder(encoder.New(), nil)
	out, err := b.BuildServerMode(context.Background(), graph.ServerModeInputs{
		TransportPath:       transportPath,
		TransportLabel:      "transport",
		TransportKind:       "http",
		TransportHostIface:  hostIface,
		ServerIOPath:        serverIOPath,
		ServerIOIface:       serverIOIface,
		SessionStorePath:    sessionStorePath,
		SessionsIface:       sessionsIface,
		SessionManagerIface: sessionMgrIface,
		TerminalHandlerPath: terminalPath,
		HandlerIface:        handlerIface,
		Handlers:            []graph.HandlerSpec{{Label: "component-0", Path: h1Path}},
	})
	if err != nil {
		t.Fatalf("BuildServerMode: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
	if b.State() != graph.StateEncoded {
		t.Errorf("State() = %v, want StateEncoded", b.State())
	}
}

func TestBuildServerMode_UnsupportedTransport(t *testing.T) {
	b := graph.NewBuilder(encoder.New(), nil)
	_, err := b.BuildServerMode(context.Background(), graph.ServerModeInputs{TransportKind: "websocket"})
	if err == nil {
		t.Fatal("expected an error for an unsupported transport kind")
	}
	werr, ok := err.(*wasmcperr.Error)
	if !ok || werr.Kind != wasmcperr.KindUnsupportedTransport {
		t.Errorf("got %v", err)
	}
}

func TestBuildHandlerOnly_Empty(t *testing.T) {
	b := graph.NewBuilder(encoder.New(), nil)
	_, err := b.BuildHandlerOnly(nil, handlerIface)
	if err == nil {
		t.Fatal("expected EmptyHandlerChain")
	}
	werr, ok := err.(*wasmcperr.Error)
	if !ok || werr.Kind != wasmcperr.KindEmptyHandlerChain {
		t.Errorf("got %v", err)
	}
}

func TestBuildHandlerOnly_SingleHandlerShortCircuits(t *testing.T) {
	h := writeComponent(t, nil, []string{handlerIface})
	b := graph.NewBuilder(encoder.New(), nil)
	out, err := b.BuildHandlerOnly([]graph.HandlerSpec{{Label: "component-0", Path: h}}, handlerIface)
	if err != nil {
		t.Fatalf("BuildHandlerOnly: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}

func TestBuildHandlerOnly_ChainsMultipleHandlers(t *testing.T) {
	h0 := writeComponent(t, []string{handlerIface}, []string{handlerIface})
	h1 := writeComponent(t, nil, []string{handlerIface})

	b := graph.NewBuilder(encoder.New(), nil)
	out, err := b.BuildHandlerOnly([]graph.HandlerSpec{
		{Label: "component-0", Path: h0},
		{Label: "component-1", Path: h1},
	}, handlerIface)
	if err != nil {
		t.Fatalf("BuildHandlerOnly: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}
