package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wasmcp/compose/cache"
	"github.com/wasmcp/compose/graph"
	"github.com/wasmcp/compose/inspector"
)

// WrappedComponentPrefix marks intermediate wrap outputs (spec.md 3, 4.3).
const WrappedComponentPrefix = cache.WrappedPrefix

// Wrap builds the mini-composition described in spec.md 4.3 "wrap":
// instantiate the capability Component, alias its capability export,
// instantiate the middleware, set the middleware's capability import to
// that export alias, alias the middleware's handler export, export it at
// the top level, encode, and write to depsDir/.wrapped-<cap>-<idx>.wasm.
func Wrap(ctx context.Context, enc graph.Encoder, depsDir, capabilityPath, middlewarePath, capabilityName string, idx int, capIface, handlerIface string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	capPkg, err := enc.LoadPackage(fmt.Sprintf("capability-%s-%d", capabilityName, idx), capabilityPath)
	if err != nil {
		return "", err
	}
	capID, err := enc.Register(capPkg)
	if err != nil {
		return "", err
	}
	capInst, err := enc.Instantiate(capID)
	if err != nil {
		return "", err
	}
	capExport, err := enc.AliasExport(capInst, capIface)
	if err != nil {
		return "", err
	}

	mwPkg, err := enc.LoadPackage(fmt.Sprintf("middleware-%s-%d", capabilityName, idx), middlewarePath)
	if err != nil {
		return "", err
	}
	mwID, err := enc.Register(mwPkg)
	if err != nil {
		return "", err
	}
	mwInst, err := enc.Instantiate(mwID)
	if err != nil {
		return "", err
	}
	if err := enc.SetArgument(mwInst, capIface, capExport); err != nil {
		return "", err
	}
	handlerExport, err := enc.AliasExport(mwInst, handlerIface)
	if err != nil {
		return "", err
	}
	if err := enc.Export(handlerExport, handlerIface); err != nil {
		return "", err
	}

	data, err := enc.Encode()
	if err != nil {
		return "", err
	}

	filename := cache.WrappedFilename(capabilityName, idx)
	path, err := cache.WriteAtomic(depsDir, filename, data)
	if err != nil {
		return "", err
	}
	log.Info("wrapped capability", zap.String("capability", capabilityName), zap.String("output", path))
	return path, nil
}

// DiscoverMiddlewareInterfaces finds the exact capability-import and
// handler-export interface strings a middleware Component uses, per
// spec.md 4.3 "Middleware discovery".
func DiscoverMiddlewareInterfaces(ctx context.Context, middlewarePath, capImportPrefix, handlerExportPrefix string, logWarn func([]string)) (capIface, handlerIface string, err error) {
	capIface, err = inspector.FindImportByPrefix(ctx, middlewarePath, capImportPrefix, logWarn)
	if err != nil {
		return "", "", err
	}
	handlerIface, err = inspector.FindExportByPrefix(ctx, middlewarePath, handlerExportPrefix, logWarn)
	if err != nil {
		return "", "", err
	}
	return capIface, handlerIface, nil
}
