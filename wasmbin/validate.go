package wasmbin

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// ValidateCoreModules compiles (but never instantiates) every core module
// embedded in the Component, satisfying I1 ("the decoder accepts it") with
// a real structural check rather than trusting the outer Component framing
// alone. Composition never runs the result, so CompileModule — which
// validates without executing — is as far as this engine goes; it never
// calls Instantiate.
func ValidateCoreModules(ctx context.Context, mod *Module) error {
	if len(mod.CoreModules) == 0 {
		return nil
	}
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	for i, core := range mod.CoreModules {
		compiled, err := rt.CompileModule(ctx, core)
		if err != nil {
			return fmt.Errorf("core module %d: %w", i, err)
		}
		compiled.Close(ctx)
	}
	return nil
}
