package wasmcp

import "strings"

// WasiNamespace is the reserved namespace whose imports are assumed
// satisfied by the host runtime and never counted toward UnsatisfiedImports
// (spec.md I4, 4.2 "Semantics").
const WasiNamespace = "wasi"

// InterfaceName is a fully-qualified WIT interface identifier:
// namespace:package/iface@version. Version may be absent structurally but is
// always synthesized as "0.0.0" by the Inspector when missing (spec.md 4.2).
type InterfaceName struct {
	Namespace string
	Package   string
	Iface     string
	Version   string
}

// String renders the canonical ns:pkg/iface@ver form. Comparisons of
// interface names for wiring purposes MUST use this raw string form (I2);
// the struct exists for prefix discovery and diagnostics only.
func (n InterfaceName) String() string {
	var b strings.Builder
	b.WriteString(n.Namespace)
	b.WriteByte(':')
	b.WriteString(n.Package)
	b.WriteByte('/')
	b.WriteString(n.Iface)
	if n.Version != "" {
		b.WriteByte('@')
		b.WriteString(n.Version)
	}
	return b.String()
}

// IsWasi reports whether the interface belongs to the reserved wasi:
// namespace (host-provided, never unsatisfied).
func (n InterfaceName) IsWasi() bool {
	return n.Namespace == WasiNamespace
}

// ParseInterfaceName parses a fully-qualified interface name string of the
// form namespace:package/iface@version (version optional). Malformed input
// returns a non-nil error so callers can surface InvalidRef-style failures.
func ParseInterfaceName(s string) (InterfaceName, error) {
	ns, rest, ok := strings.Cut(s, ":")
	if !ok || ns == "" {
		return InterfaceName{}, &ParseError{Input: s, Reason: "missing namespace"}
	}
	pkgIface, version, _ := strings.Cut(rest, "@")
	pkg, iface, ok := strings.Cut(pkgIface, "/")
	if !ok || pkg == "" || iface == "" {
		return InterfaceName{}, &ParseError{Input: s, Reason: "expected package/iface"}
	}
	return InterfaceName{Namespace: ns, Package: pkg, Iface: iface, Version: version}, nil
}

// InterfaceSet is an ordered set of interface names: insertion order is
// preserved (matching the Component's declaration order) while still
// supporting membership tests, since find_export_by_prefix and P2's
// topology-preservation property both depend on declaration order.
type InterfaceSet struct {
	order []string
	index map[string]int
}

// NewInterfaceSet builds an InterfaceSet from names in declaration order.
func NewInterfaceSet(names []string) *InterfaceSet {
	s := &InterfaceSet{index: make(map[string]int, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add appends name if not already present, preserving first-seen order.
func (s *InterfaceSet) Add(name string) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = len(s.order)
	s.order = append(s.order, name)
}

// Has reports exact-string membership (I2: no coercion, no fuzzy match).
func (s *InterfaceSet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the set in declaration order.
func (s *InterfaceSet) Names() []string {
	return s.order
}

// FindByPrefix returns every member whose name starts with prefix, in
// declaration order. Used by find_export_by_prefix (spec.md 4.2) which
// additionally decides what to do about more than one match.
func (s *InterfaceSet) FindByPrefix(prefix string) []string {
	var out []string
	for _, n := range s.order {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// NonHost returns the subset of names that do not belong to the reserved
// wasi: namespace, matching the UnsatisfiedImports accounting rule (I4).
func (s *InterfaceSet) NonHost() []string {
	out := make([]string, 0, len(s.order))
	for _, n := range s.order {
		if !strings.HasPrefix(n, WasiNamespace+":") {
			out = append(out, n)
		}
	}
	return out
}
