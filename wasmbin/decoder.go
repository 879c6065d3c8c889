package wasmbin

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Import is a single top-level Component import: a name (which, for
// interface imports, is the fully-qualified ns:pkg/iface@ver string the
// Inspector surfaces directly) and its extern kind.
type Import struct {
	Name       string
	ExternKind byte
}

// Export is a single top-level Component export.
type Export struct {
	Name string
	Sort byte
}

// extern/sort kind bytes, matching the Component Model binary format.
const (
	ExternCoreModule byte = 0x00
	ExternFunc       byte = 0x01
	ExternValue      byte = 0x02
	ExternType       byte = 0x03
	ExternComponent  byte = 0x04
	ExternInstance   byte = 0x05

	sortCore byte = 0x00
)

// Module is the decoded subset of a Component binary this engine needs.
type Module struct {
	Imports     []Import
	Exports     []Export
	CoreModules [][]byte
	// HasNestedComponents reports whether the binary embeds nested
	// component sections (section id 4); used alongside len(CoreModules)==0
	// to recognise a WIT-package-shaped binary rather than a true Component.
	HasNestedComponents bool
}

// IsComponent reports whether data begins with the Component Model magic
// and a layer/version field indicating a component (version > 1), as
// opposed to a plain core Wasm module (version == 1).
func IsComponent(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	if data[0] != 0x00 || data[1] != 0x61 || data[2] != 0x73 || data[3] != 0x6D {
		return false
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	return version > 1
}

// Decode walks the section stream of a Component binary, keeping only core
// module bytes and the top-level import/export name lists. Any other
// section is skipped using its declared byte length — every Component
// section is itself length-prefixed, so skipping is safe without
// understanding its contents.
func Decode(data []byte) (*Module, error) {
	if !IsComponent(data) {
		return nil, fmt.Errorf("not a component")
	}

	r := getReader(data[8:])
	defer putReader(r)

	mod := &Module{}
	sections := 0
	const maxSections = 100000

	for {
		sections++
		if sections > maxSections {
			return nil, fmt.Errorf("exceeded maximum section count %d", maxSections)
		}

		sectionID, err := readByte(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read section id: %w", err)
		}

		size, err := readLEB128(r)
		if err != nil {
			return nil, fmt.Errorf("read section size: %w", err)
		}
		if size > uint32(len(data)) {
			return nil, fmt.Errorf("section %d size %d exceeds input size", sections, size)
		}

		sectionData := make([]byte, size)
		if _, err := io.ReadFull(r, sectionData); err != nil {
			return nil, fmt.Errorf("read section %d data: %w", sections, err)
		}

		switch sectionID {
		case 1: // core module
			mod.CoreModules = append(mod.CoreModules, sectionData)
		case 4: // nested component
			mod.HasNestedComponents = true
		case 10: // import
			imports, err := decodeImports(sectionData)
			if err != nil {
				return nil, fmt.Errorf("decode imports: %w", err)
			}
			mod.Imports = append(mod.Imports, imports...)
		case 11: // export
			exports, err := decodeExports(sectionData)
			if err != nil {
				return nil, fmt.Errorf("decode exports: %w", err)
			}
			mod.Exports = append(mod.Exports, exports...)
		}
		// every other section kind carries index-space/type-resolution or
		// value-marshaling data that belongs to instantiation, out of scope
		// here; its bytes are already consumed above and safely discarded.
	}

	return mod, nil
}

// IsWitPackage reports whether the decoded binary looks like a WIT package
// encoded as a component-shaped binary (no core modules, only nested type
// definitions) rather than an instantiable Component. Used to surface
// NotAComponent per spec.md 4.2.
func (m *Module) IsWitPackage() bool {
	return len(m.CoreModules) == 0 && !m.HasNestedComponents
}

func decodeImports(data []byte) ([]Import, error) {
	r := getReader(data)
	defer putReader(r)

	count, err := readLEB128(r)
	if err != nil {
		return nil, err
	}
	if count > 100000 {
		return nil, fmt.Errorf("import count %d exceeds maximum", count)
	}

	out := make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		// name kind byte: 0x00 plain label, 0x01 interface (version
		// embedded directly in the name string); both forms carry the
		// fully-qualified name as a plain string, so we don't branch on it.
		if _, err := readByte(r); err != nil {
			return nil, fmt.Errorf("import %d: read name kind: %w", i, err)
		}
		name, err := readName(r)
		if err != nil {
			return nil, fmt.Errorf("import %d: read name: %w", i, err)
		}
		externKind, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("import %d: read extern kind: %w", i, err)
		}

		switch externKind {
		case ExternCoreModule:
			extra, err := readByte(r)
			if err != nil {
				return nil, fmt.Errorf("import %d: read core module marker: %w", i, err)
			}
			if extra != 0x11 {
				return nil, fmt.Errorf("import %d: unexpected core module marker 0x%02x", i, extra)
			}
		case ExternType:
			bounds, err := readByte(r)
			if err != nil {
				return nil, fmt.Errorf("import %d: read type bounds kind: %w", i, err)
			}
			if bounds == 0x00 {
				if _, err := readLEB128(r); err != nil {
					return nil, fmt.Errorf("import %d: read type bounds index: %w", i, err)
				}
			}
		default:
			if _, err := readLEB128(r); err != nil {
				return nil, fmt.Errorf("import %d: read extern index: %w", i, err)
			}
		}
		out = append(out, Import{Name: name, ExternKind: externKind})
	}
	return out, nil
}

func decodeExports(data []byte) ([]Export, error) {
	r := getReader(data)
	defer putReader(r)

	count, err := readLEB128(r)
	if err != nil {
		return nil, err
	}
	if count > 100000 {
		return nil, fmt.Errorf("export count %d exceeds maximum", count)
	}

	out := make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := readByte(r); err != nil {
			return nil, fmt.Errorf("export %d: read name kind: %w", i, err)
		}
		name, err := readName(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: read name: %w", i, err)
		}
		sort, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: read sort: %w", i, err)
		}
		if sort == sortCore {
			if _, err := readByte(r); err != nil {
				return nil, fmt.Errorf("export %d: read core sort: %w", i, err)
			}
		}
		if _, err := readLEB128(r); err != nil {
			return nil, fmt.Errorf("export %d: read sort index: %w", i, err)
		}
		out = append(out, Export{Name: name, Sort: sort})
	}
	return out, nil
}
