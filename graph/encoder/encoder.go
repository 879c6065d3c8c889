// Package encoder is the concrete implementation of the graph/encoder
// contract named in spec.md 4.4.1 (new_graph/load_package/register/
// instantiate/alias_export/set_argument/export/encode). No Go port of the
// Rust wac-graph crate this spec treats as an external black box exists in
// the available ecosystem (see DESIGN.md), so this package plays that role
// directly: it tracks packages, instances and their import/export wiring
// in arenas, validates every wiring call against the Component's actual
// decoded interface names (I2: exact string match, no coercion), and
// serializes the result as a Component binary built from the primitives in
// wasmbin.Writer.
package encoder

import (
	"fmt"
	"os"
	"sort"

	"github.com/wasmcp/compose/graph"
	"github.com/wasmcp/compose/wasmbin"
	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

type packageEntry struct {
	graph.Package
}

type instanceEntry struct {
	pkg       graph.PackageId
	arguments map[string]graph.ExportRef // satisfied imports: iface -> export
}

type exportEntry struct {
	instance graph.InstanceId
	iface    string
}

type topExport struct {
	ref   graph.ExportRef
	iface string
}

// Graph is the concrete Encoder. Its zero value is not usable; construct
// with New.
type Graph struct {
	packages  []packageEntry
	instances []instanceEntry
	exports   []exportEntry
	top       []topExport
}

// New is the new_graph() operation.
func New() *Graph {
	return &Graph{}
}

// LoadPackage reads and decodes path into a graph.Package.
func (g *Graph) LoadPackage(label, path string) (graph.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Package{}, wasmcperr.IoError(path, err)
	}
	if !wasmbin.IsComponent(data) {
		return graph.Package{}, wasmcperr.NotAComponent(path)
	}
	mod, err := wasmbin.Decode(data)
	if err != nil {
		return graph.Package{}, wasmcperr.New(wasmcperr.PhaseGraph, wasmcperr.KindNotAComponent).
			Detail("decode %s", path).Cause(err).Path(label).Build()
	}
	return graph.Package{Label: label, Path: path, Raw: data, Module: mod}, nil
}

// Register is the register() operation.
func (g *Graph) Register(pkg graph.Package) (graph.PackageId, error) {
	g.packages = append(g.packages, packageEntry{pkg})
	return graph.PackageId(len(g.packages) - 1), nil
}

func (g *Graph) pkg(id graph.PackageId) (packageEntry, error) {
	if int(id) < 0 || int(id) >= len(g.packages) {
		return packageEntry{}, fmt.Errorf("invalid package id %d", id)
	}
	return g.packages[id], nil
}

// Instantiate is the instantiate() operation.
func (g *Graph) Instantiate(id graph.PackageId) (graph.InstanceId, error) {
	if _, err := g.pkg(id); err != nil {
		return 0, err
	}
	g.instances = append(g.instances, instanceEntry{pkg: id, arguments: make(map[string]graph.ExportRef)})
	return graph.InstanceId(len(g.instances) - 1), nil
}

func (g *Graph) instance(id graph.InstanceId) (*instanceEntry, error) {
	if int(id) < 0 || int(id) >= len(g.instances) {
		return nil, fmt.Errorf("invalid instance id %d", id)
	}
	return &g.instances[id], nil
}

// AliasExport is the alias_export() operation; fails with MissingExport if
// the instance's underlying package does not export iface (I2: exact
// string match).
func (g *Graph) AliasExport(instanceID graph.InstanceId, iface string) (graph.ExportRef, error) {
	inst, err := g.instance(instanceID)
	if err != nil {
		return 0, err
	}
	p, err := g.pkg(inst.pkg)
	if err != nil {
		return 0, err
	}
	if !hasExport(p.Module, iface) {
		return 0, wasmcperr.MissingExport(p.Label, iface)
	}
	g.exports = append(g.exports, exportEntry{instance: instanceID, iface: iface})
	return graph.ExportRef(len(g.exports) - 1), nil
}

// SetArgument is the set_argument() operation; fails if the instance's
// package does not import iface, if that import is already set, or if the
// export's advertised interface name does not match iface exactly (our
// stand-in for the encoder's deeper type-mismatch check — spec.md treats
// true WIT type compatibility as the encoder's concern and this engine
// never attempts to repair mismatches, per the Non-goals).
func (g *Graph) SetArgument(instanceID graph.InstanceId, iface string, export graph.ExportRef) error {
	inst, err := g.instance(instanceID)
	if err != nil {
		return err
	}
	p, err := g.pkg(inst.pkg)
	if err != nil {
		return err
	}
	if !hasImport(p.Module, iface) {
		return wasmcperr.MissingImport(p.Label, iface)
	}
	if _, already := inst.arguments[iface]; already {
		return wasmcperr.New(wasmcperr.PhaseGraph, wasmcperr.KindTypeMismatch).
			Detail("import %s already satisfied", iface).Path(p.Label).Build()
	}
	if int(export) < 0 || int(export) >= len(g.exports) {
		return fmt.Errorf("invalid export ref %d", export)
	}
	exported := g.exports[export]
	if exported.iface != iface {
		return wasmcperr.TypeMismatch(p.Label, iface, "<export>", exported.iface)
	}
	inst.arguments[iface] = export
	return nil
}

// Export is the export() operation: re-export ref at the top level.
func (g *Graph) Export(export graph.ExportRef, iface string) error {
	if int(export) < 0 || int(export) >= len(g.exports) {
		return fmt.Errorf("invalid export ref %d", export)
	}
	g.top = append(g.top, topExport{ref: export, iface: iface})
	return nil
}

// UnsatisfiedByLabel computes, for every instance, the non-host imports its
// package declares that have not been set_argument'd yet, keyed by package
// label. Encode runs it as its pre-encode check (spec.md 4.4.4) and wraps a
// non-empty result in wasmcperr's UnsatisfiedImportsError report.
func (g *Graph) UnsatisfiedByLabel() map[string][]string {
	out := make(map[string][]string)
	for _, inst := range g.instances {
		p, err := g.pkg(inst.pkg)
		if err != nil {
			continue
		}
		set := wasmcp.NewInterfaceSet(importNames(p.Module))
		var missing []string
		for _, name := range set.NonHost() {
			if _, ok := inst.arguments[name]; ok {
				continue
			}
			if wasmcp.IsOptionalImport(name) {
				continue
			}
			missing = append(missing, name)
		}
		if len(missing) > 0 {
			out[p.Label] = missing
		}
	}
	return out
}

// Encode serializes the graph deterministically: every registered
// package's core modules are emitted once each (in registration order),
// followed by a custom section recording the instantiation/wiring plan,
// followed by the top-level export section. Given identical inputs and
// identical graph-operation ordering, Encode is byte-identical (P1, P7).
func (g *Graph) Encode() ([]byte, error) {
	unresolved := g.UnsatisfiedByLabel()
	if len(unresolved) > 0 {
		return nil, wasmcperr.EncodeFailed(wasmcperr.NewUnsatisfiedImportsError(unresolved))
	}

	w := wasmbin.NewWriter()
	w.WriteBytes([]byte{0x00, 0x61, 0x73, 0x6D})
	w.WriteU32LE(0x0001000d) // component layer marker (layer 1, version 0x0d per the Component Model preview2 binary convention)

	for _, p := range g.packages {
		for _, core := range p.Module.CoreModules {
			w.WriteSection(1, core)
		}
	}

	w.WriteSection(0, encodeWiringPlan(g))
	w.WriteSection(11, encodeTopExports(g))

	return w.Bytes(), nil
}

func hasExport(m *wasmbin.Module, iface string) bool {
	for _, e := range m.Exports {
		if canonical(e.Name) == iface {
			return true
		}
	}
	return false
}

func hasImport(m *wasmbin.Module, iface string) bool {
	for _, i := range m.Imports {
		if canonical(i.Name) == iface {
			return true
		}
	}
	return false
}

func importNames(m *wasmbin.Module) []string {
	out := make([]string, 0, len(m.Imports))
	for _, i := range m.Imports {
		out = append(out, canonical(i.Name))
	}
	return out
}

func canonical(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '@' {
			return raw
		}
	}
	return raw + "@0.0.0"
}

// encodeWiringPlan serializes the instance/argument graph as a custom
// section body: a deterministic, sorted record of which instance's import
// was satisfied by which export, for provenance and for P1's determinism
// check to compare byte-for-byte.
func encodeWiringPlan(g *Graph) []byte {
	w := wasmbin.NewWriter()
	w.WriteName("wasmcp-wiring-plan")
	w.WriteU32(uint32(len(g.instances)))
	for i, inst := range g.instances {
		w.WriteU32(uint32(i))
		w.WriteU32(uint32(inst.pkg))
		ifaces := make([]string, 0, len(inst.arguments))
		for iface := range inst.arguments {
			ifaces = append(ifaces, iface)
		}
		sort.Strings(ifaces)
		w.WriteU32(uint32(len(ifaces)))
		for _, iface := range ifaces {
			w.WriteName(iface)
			w.WriteU32(uint32(inst.arguments[iface]))
		}
	}
	return w.Bytes()
}

func encodeTopExports(g *Graph) []byte {
	w := wasmbin.NewWriter()
	w.WriteU32(uint32(len(g.top)))
	for _, t := range g.top {
		w.Byte(0x01) // interface-shaped name marker
		w.WriteName(t.iface)
		w.Byte(0x05) // sort: instance export alias
		w.WriteU32(uint32(t.ref))
	}
	return w.Bytes()
}
