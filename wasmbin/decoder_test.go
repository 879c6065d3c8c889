package wasmbin

import "testing"

func componentHeader() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6D, 0x0d, 0x00, 0x01, 0x00}
}

func TestIsComponent(t *testing.T) {
	if !IsComponent(componentHeader()) {
		t.Error("expected a component-versioned header to be recognized")
	}
	coreModule := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if IsComponent(coreModule) {
		t.Error("a core module (version 1) must not be recognized as a component")
	}
	if IsComponent([]byte{0x00, 0x61}) {
		t.Error("short input must not be recognized as a component")
	}
}

// buildImportSection encodes a section-10 body with a single interface
// import, matching decodeImports' expected wire format.
func buildImportSection(name string, externKind byte) []byte {
	w := NewWriter()
	w.WriteU32(1) // count
	w.Byte(0x01)  // name kind: interface
	w.WriteName(name)
	w.Byte(externKind)
	switch externKind {
	case ExternCoreModule:
		w.Byte(0x11)
	case ExternType:
		w.Byte(0x01) // bounds kind: no index follows
	default:
		w.WriteU32(0) // extern index
	}
	return w.Bytes()
}

func buildExportSection(name string, sort byte) []byte {
	w := NewWriter()
	w.WriteU32(1)
	w.Byte(0x01)
	w.WriteName(name)
	w.Byte(sort)
	if sort == sortCore {
		w.Byte(0x00)
	}
	w.WriteU32(0) // sort index
	return w.Bytes()
}

func buildComponent(sections map[byte][]byte, order []byte) []byte {
	w := NewWriter()
	w.WriteBytes(componentHeader())
	for _, id := range order {
		w.WriteSection(id, sections[id])
	}
	return w.Bytes()
}

func TestDecode_ImportsAndExports(t *testing.T) {
	importName := "wasmcp:mcp-v20250618/tools@0.1.0"
	exportName := "wasmcp:mcp-v20250618/server-handler@0.1.3"

	data := buildComponent(map[byte][]byte{
		10: buildImportSection(importName, ExternInstance),
		11: buildExportSection(exportName, 0x02), // value sort, not core
	}, []byte{10, 11})

	mod, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(mod.Imports) != 1 || mod.Imports[0].Name != importName {
		t.Errorf("Imports = %+v", mod.Imports)
	}
	if len(mod.Exports) != 1 || mod.Exports[0].Name != exportName {
		t.Errorf("Exports = %+v", mod.Exports)
	}
}

func TestDecode_CoreModuleSectionKeptVerbatim(t *testing.T) {
	core := []byte{0xde, 0xad, 0xbe, 0xef}
	data := buildComponent(map[byte][]byte{1: core}, []byte{1})

	mod, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(mod.CoreModules) != 1 || string(mod.CoreModules[0]) != string(core) {
		t.Errorf("CoreModules = %+v", mod.CoreModules)
	}
	if mod.IsWitPackage() {
		t.Error("a component with a core module is not a WIT package")
	}
}

func TestDecode_UnknownSectionsSkippedByLength(t *testing.T) {
	// Section kinds this engine never interprets (e.g. 2: core instance)
	// must still be skippable purely by their declared length.
	data := buildComponent(map[byte][]byte{2: {0x01, 0x02, 0x03, 0x04, 0x05}}, []byte{2})
	mod, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(mod.Imports) != 0 || len(mod.Exports) != 0 || len(mod.CoreModules) != 0 {
		t.Errorf("expected no recognized content, got %+v", mod)
	}
}

func TestDecode_NestedComponentMarksNotWitPackage(t *testing.T) {
	data := buildComponent(map[byte][]byte{4: {0x00}}, []byte{4})
	mod, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !mod.HasNestedComponents {
		t.Error("expected HasNestedComponents true")
	}
	if mod.IsWitPackage() {
		t.Error("a component with nested components is not a WIT package")
	}
}

func TestDecode_WitPackageShapedBinary(t *testing.T) {
	// No core modules and no nested components: looks like a WIT package,
	// not an instantiable component.
	data := buildComponent(map[byte][]byte{}, nil)
	mod, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !mod.IsWitPackage() {
		t.Error("expected IsWitPackage true for an empty section stream")
	}
}

func TestDecode_RejectsNonComponent(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}); err == nil {
		t.Error("expected an error decoding a core module as a component")
	}
}
