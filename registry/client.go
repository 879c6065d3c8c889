// Package registry is the package-registry client consumed by the Resolver
// (spec.md 6.2): a single Fetch operation returning the Component bytes for
// a namespace:name@version coordinate, with the transport (HTTP, OCI, ...)
// left to the implementation.
package registry

import "context"

// Client is the contract the Resolver depends on. The engine is indifferent
// to the transport behind it.
type Client interface {
	// Fetch retrieves the Component bytes for namespace:name@version.
	// Errors should be classifiable as not-found, network, or auth failures
	// so callers can map them to wasmcperr.Kind values.
	Fetch(ctx context.Context, namespace, name, version string) ([]byte, error)
}
