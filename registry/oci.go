package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"

	"github.com/wasmcp/compose/wasmcperr"
)

// OCIClient fetches Component binaries stored as the single layer of an OCI
// artifact, treating namespace:name@version as an OCI reference resolved
// against Host. Mirrors the real engine's use of an OCI-backed registry
// client (wasm_pkg_client in the original).
type OCIClient struct {
	// Host is the registry host components are addressed under, e.g.
	// "ghcr.io/wasmcp". Left empty, references are resolved as bare
	// name:version against the default registry (docker.io semantics via
	// go-containerregistry).
	Host string
	auth authn.Keychain
}

// NewOCIClient constructs a client using the registry's default keychain
// (environment + docker config file) for auth, matching the teacher
// reference's NewClient.
func NewOCIClient(host string) *OCIClient {
	return &OCIClient{Host: host, auth: authn.DefaultKeychain}
}

// Fetch implements Client.
func (c *OCIClient) Fetch(ctx context.Context, namespace, pkgName, version string) ([]byte, error) {
	ref, err := c.reference(namespace, pkgName, version)
	if err != nil {
		return nil, wasmcperr.InvalidRef(ref, err)
	}

	parsed, err := name.ParseReference(ref)
	if err != nil {
		return nil, wasmcperr.InvalidRef(ref, err)
	}

	img, err := remote.Image(parsed, remote.WithAuthFromKeychain(c.auth), remote.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, wasmcperr.NotFound(ref)
		}
		return nil, wasmcperr.FetchFailed(ref, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return nil, wasmcperr.FetchFailed(ref, err)
	}
	if len(layers) == 0 {
		return nil, wasmcperr.New(wasmcperr.PhaseResolve, wasmcperr.KindFetchFailed).
			Detail("artifact %s has no layers", ref).Build()
	}

	rc, err := layers[0].Uncompressed()
	if err != nil {
		return nil, wasmcperr.FetchFailed(ref, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, wasmcperr.FetchFailed(ref, err)
	}
	return buf.Bytes(), nil
}

func (c *OCIClient) reference(namespace, pkgName, version string) (string, error) {
	if namespace == "" || pkgName == "" {
		return "", fmt.Errorf("namespace and name are required")
	}
	repo := namespace + "-" + pkgName
	if c.Host != "" {
		repo = c.Host + "/" + repo
	}
	if version == "" {
		return repo + ":latest", nil
	}
	return repo + ":" + version, nil
}

func isNotFound(err error) bool {
	var terr *transport.Error
	if errors.As(err, &terr) {
		return terr.StatusCode == 404
	}
	return false
}
