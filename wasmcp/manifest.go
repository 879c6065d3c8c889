package wasmcp

// VersionManifest is the declarative map of logical framework-component
// name to required exact version, plus the list of middleware names
// enumerated by the `-middleware` suffix convention (spec.md 3, 6.6).
type VersionManifest struct {
	// Components maps logical name (e.g. "transport-http", "server-io",
	// "session-store", "terminal-handler", "tools-middleware") to an exact
	// version string. No ranges.
	Components map[string]string
	// Middleware lists the logical names that are middleware Components:
	// in the [middleware] names order when that table is present; when they
	// are derived from the -middleware suffix instead, their order is not
	// defined. Each MUST end in "-middleware"; the capability
	// name is the prefix with that suffix stripped.
	Middleware []string
}

// Version returns the manifest's exact version for logical, and whether it
// was present.
func (m VersionManifest) Version(logical string) (string, bool) {
	v, ok := m.Components[logical]
	return v, ok
}

// Overrides is the user-provided map of logical framework-component name to
// a ComponentRef, taking precedence over the VersionManifest (spec.md 3, 9
// "discovered strings WIN for graph wiring; ... overrides replace manifest
// entries and are re-inspected like any other input").
type Overrides map[string]ComponentRef

// Get returns the override for logical, if any.
func (o Overrides) Get(logical string) (ComponentRef, bool) {
	ref, ok := o[logical]
	return ref, ok
}

// CompositionPlan holds the resolved local paths ready for graph build
// (spec.md 3): exclusively owns the list of resolved paths.
type CompositionPlan struct {
	Transport      string
	ServerIO       string
	SessionStore   string
	TerminalHandler string
	// Handlers are the ordered, already-normalized (wrap()'d where needed)
	// handler Component paths, in caller order. Order is externally
	// observable as request-dispatch order (P2).
	Handlers []string
}
