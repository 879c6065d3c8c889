package graph

// Encoder is the abstract graph/encoder contract named in spec.md 4.4.1,
// treated architecturally as an opaque dependency even though, unlike the
// registry client or the CLI, no off-the-shelf Go implementation of it
// exists — graph/encoder ships the concrete implementation. Builder depends
// only on this interface so the contract boundary is preserved in the type
// system.
type Encoder interface {
	// LoadPackage parses a Component file into a Package usable by the
	// graph; label is informational.
	LoadPackage(label, path string) (Package, error)
	// Register records pkg in the graph's package arena.
	Register(pkg Package) (PackageId, error)
	// Instantiate creates a new instance of the registered package.
	Instantiate(id PackageId) (InstanceId, error)
	// AliasExport aliases instance's export named iface. Fails with
	// MissingExport if the instance does not export it.
	AliasExport(instance InstanceId, iface string) (ExportRef, error)
	// SetArgument satisfies instance's import named iface with export.
	// Fails if no such import, if already set, or on a type mismatch.
	SetArgument(instance InstanceId, iface string, export ExportRef) error
	// Export re-exports export at the top level of the final Component
	// under iface.
	Export(export ExportRef, iface string) error
	// Encode serializes the graph. Fails if any instance has unsatisfied
	// non-host imports.
	Encode() ([]byte, error)
}
