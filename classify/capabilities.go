package classify

import (
	"github.com/wasmcp/compose/manifest"
	"github.com/wasmcp/compose/wasmcp"
)

// McpPackage is the WIT package segment pipeline interfaces live under,
// e.g. "mcp-v20250618" in "wasmcp:mcp-v20250618/server-handler@...".
// Carried as a parameter rather than hardcoded per spec.md 9's guidance
// against hardcoding version-bearing names.
type McpPackage struct {
	Namespace string // "wasmcp"
	Package   string // e.g. "mcp-v20250618"
}

func (p McpPackage) prefix(iface string) string {
	return p.Namespace + ":" + p.Package + "/" + iface + "@"
}

// HandlerExportPrefix returns the discovery prefix for the pipeline
// handler interface.
func (p McpPackage) HandlerExportPrefix() string {
	return p.prefix("server-handler")
}

// CapabilityExportPrefix returns the discovery prefix for a capability
// interface, e.g. "tools", "resources", "prompts".
func (p McpPackage) CapabilityExportPrefix(capability string) string {
	return p.prefix(capability)
}

// ServerIOExportPrefix returns the discovery prefix for the I/O server
// interface.
func (p McpPackage) ServerIOExportPrefix() string {
	return p.prefix("server-io")
}

// SessionsExportPrefix returns the discovery prefix for the session store's
// sessions interface.
func (p McpPackage) SessionsExportPrefix() string {
	return p.prefix("sessions")
}

// SessionManagerExportPrefix returns the discovery prefix for the session
// store's session-manager interface.
func (p McpPackage) SessionManagerExportPrefix() string {
	return p.prefix("session-manager")
}

// KnownCapabilitiesFromManifest builds the known-capability list Classify
// needs directly from the manifest's middleware names, per spec.md 9's
// "canonical behaviour is dynamic: iterate the manifest's middleware list".
func KnownCapabilitiesFromManifest(pkg McpPackage, middlewareNames []string) []KnownCapability {
	out := make([]KnownCapability, 0, len(middlewareNames))
	for _, mw := range middlewareNames {
		cap := manifest.CapabilityName(mw)
		out = append(out, KnownCapability{
			Name:         cap,
			ExportPrefix: pkg.CapabilityExportPrefix(cap),
		})
	}
	return out
}

// IsOptionalImport re-exports wasmcp.IsOptionalImport for callers already
// importing this package; see its doc for the rationale
// (SPEC_FULL.md 10.4).
func IsOptionalImport(iface string) bool {
	return wasmcp.IsOptionalImport(iface)
}
