package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

type fakeClient struct {
	calls   int
	payload []byte
	err     error
}

func (c *fakeClient) Fetch(ctx context.Context, namespace, name, version string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.payload, nil
}

func TestResolve_PathRef(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.wasm")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Resolve(context.Background(), wasmcp.ComponentRef{Kind: wasmcp.RefPath, Path: path}, dir, nil)
	if err != nil || got != path {
		t.Fatalf("Resolve = %q, %v", got, err)
	}
}

func TestResolve_PathRef_NotFound(t *testing.T) {
	_, err := Resolve(context.Background(), wasmcp.ComponentRef{Kind: wasmcp.RefPath, Path: "/nonexistent/x.wasm"}, t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	werr, ok := err.(*wasmcperr.Error)
	if !ok || werr.Kind != wasmcperr.KindNotFound {
		t.Errorf("got %v", err)
	}
}

func TestResolve_PackageRef_FetchesThenCaches(t *testing.T) {
	depsDir := t.TempDir()
	client := &fakeClient{payload: []byte("component-bytes")}
	ref := wasmcp.ComponentRef{Kind: wasmcp.RefPackage, Namespace: "wasmcp", Name: "transport-http", Version: "0.2.0"}

	path1, err := Resolve(context.Background(), ref, depsDir, client)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", client.calls)
	}

	path2, err := Resolve(context.Background(), ref, depsDir, client)
	if err != nil {
		t.Fatalf("Resolve (cached): %v", err)
	}
	if path1 != path2 {
		t.Errorf("paths differ: %q vs %q", path1, path2)
	}
	if client.calls != 1 {
		t.Errorf("expected the second Resolve to hit cache, not re-fetch; calls=%d", client.calls)
	}
}

func TestResolve_PackageRef_FetchFailed(t *testing.T) {
	client := &fakeClient{err: errors.New("network down")}
	ref := wasmcp.ComponentRef{Kind: wasmcp.RefPackage, Namespace: "wasmcp", Name: "transport-http", Version: "0.2.0"}
	_, err := Resolve(context.Background(), ref, t.TempDir(), client)
	if err == nil {
		t.Fatal("expected an error")
	}
	werr, ok := err.(*wasmcperr.Error)
	if !ok || werr.Kind != wasmcperr.KindFetchFailed {
		t.Errorf("got %v", err)
	}
}

func TestResolveFramework_OverrideWinsOverManifest(t *testing.T) {
	depsDir := t.TempDir()
	overridden := filepath.Join(depsDir, "override.wasm")
	if err := os.WriteFile(overridden, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	manifest := wasmcp.VersionManifest{Components: map[string]string{"transport-http": "0.2.0"}}
	overrides := wasmcp.Overrides{"transport-http": wasmcp.ComponentRef{Kind: wasmcp.RefPath, Path: overridden}}

	got, err := ResolveFramework(context.Background(), "transport-http", manifest, overrides, depsDir, nil)
	if err != nil {
		t.Fatalf("ResolveFramework: %v", err)
	}
	if got != overridden {
		t.Errorf("got %q, want override path %q", got, overridden)
	}
}

func TestResolveFramework_MissingEntry(t *testing.T) {
	_, err := ResolveFramework(context.Background(), "transport-http", wasmcp.VersionManifest{}, nil, t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected an error for a logical name with no manifest entry or override")
	}
}
