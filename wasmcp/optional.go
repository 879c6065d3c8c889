package wasmcp

import "strings"

// optionalImportSuffixes lists interface-name suffixes that MAY be left
// unwired without counting as an unsatisfied import, generalized from the
// original Rust implementation's special-cased best-effort
// tools-call-structured writer import (SPEC_FULL.md 10.4): a wrap or
// topology build MAY set these when available and silently skip them
// otherwise, rather than failing the whole build.
var optionalImportSuffixes = []string{
	"/tools-call-structured",
}

// IsOptionalImport reports whether iface (a full ns:pkg/iface@ver string)
// matches one of the known optional-import suffixes.
func IsOptionalImport(iface string) bool {
	base, _, _ := strings.Cut(iface, "@")
	for _, suffix := range optionalImportSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
