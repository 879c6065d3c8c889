package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "versions.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExplicitMiddlewareTable(t *testing.T) {
	path := writeManifest(t, `
[components]
transport-http = "0.2.0"
tools-middleware = "0.1.0"

[middleware]
names = ["tools-middleware"]
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, ok := m.Version("transport-http"); !ok || v != "0.2.0" {
		t.Errorf("Version(transport-http) = %q, %v", v, ok)
	}
	if !reflect.DeepEqual(m.Middleware, []string{"tools-middleware"}) {
		t.Errorf("Middleware = %v", m.Middleware)
	}
}

func TestLoad_MiddlewareDiscoveredByConvention(t *testing.T) {
	path := writeManifest(t, `
[components]
transport-http = "0.2.0"
tools-middleware = "0.1.0"
prompts-middleware = "0.1.0"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := append([]string{}, m.Middleware...)
	sort.Strings(got)
	want := []string{"prompts-middleware", "tools-middleware"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Middleware = %v, want %v", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error loading a nonexistent manifest")
	}
}

func TestCapabilityName(t *testing.T) {
	if got := CapabilityName("tools-middleware"); got != "tools" {
		t.Errorf("got %q", got)
	}
}
