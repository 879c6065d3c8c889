// Package composer is the top-level orchestration tying resolver,
// inspector, classify and graph together (spec.md 1 "The core"): the
// compose() and compose-handlers() entry points the CLI calls into.
package composer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wasmcp/compose/cache"
	"github.com/wasmcp/compose/classify"
	"github.com/wasmcp/compose/graph"
	"github.com/wasmcp/compose/graph/encoder"
	"github.com/wasmcp/compose/inspector"
	"github.com/wasmcp/compose/registry"
	"github.com/wasmcp/compose/resolver"
	"github.com/wasmcp/compose/wasmcp"
	"github.com/wasmcp/compose/wasmcperr"
)

// Options configures a single build; fields mirror the CLI surface named
// in spec.md 6.3.
type Options struct {
	Transport   string // "http" or "stdio"
	DepsDir     string
	Manifest    wasmcp.VersionManifest
	Overrides   wasmcp.Overrides
	McpPackage  classify.McpPackage
	Client      registry.Client
	KeepWrapped bool // SPEC_FULL.md Open Question 1 decision
	Verbose     bool
	Logger      *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// Compose implements server-mode composition: resolve framework + user
// Components, classify/wrap user Components into handlers, build the
// server-mode topology, and return the encoded bytes.
func Compose(ctx context.Context, userRefs []wasmcp.ComponentRef, opts Options) ([]byte, error) {
	log := opts.logger()

	if err := resolveAllOrFail(opts); err != nil {
		return nil, err
	}

	deps, err := resolver.EnsureDependencies(ctx, opts.Manifest, opts.Overrides, opts.Transport, opts.DepsDir, opts.Client)
	if err != nil {
		return nil, err
	}
	middleware, err := resolver.EnsureMiddleware(ctx, opts.Manifest, opts.Overrides, opts.DepsDir, opts.Client)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		log.Info("resolved framework dependencies",
			zap.String("transport", deps["transport-"+opts.Transport]),
			zap.String("server-io", deps["server-io"]),
			zap.String("session-store", deps["session-store"]),
			zap.String("terminal-handler", deps["terminal-handler"]))
	}

	handlerPrefix := opts.McpPackage.HandlerExportPrefix()
	handlerIface, err := inspector.FindExportByPrefix(ctx, deps["terminal-handler"], handlerPrefix, logWarn(log))
	if err != nil {
		return nil, err
	}
	serverIOIface, err := inspector.FindExportByPrefix(ctx, deps["server-io"], opts.McpPackage.ServerIOExportPrefix(), logWarn(log))
	if err != nil {
		return nil, err
	}
	sessionsIface, err := inspector.FindExportByPrefix(ctx, deps["session-store"], opts.McpPackage.SessionsExportPrefix(), logWarn(log))
	if err != nil {
		return nil, err
	}
	sessionManagerIface, err := inspector.FindExportByPrefix(ctx, deps["session-store"], opts.McpPackage.SessionManagerExportPrefix(), logWarn(log))
	if err != nil {
		return nil, err
	}
	hostIface, err := transportHostInterface(ctx, deps["transport-"+opts.Transport], opts.Transport)
	if err != nil {
		return nil, err
	}

	handlers, err := classifyAndWrapAll(ctx, userRefs, opts, handlerPrefix, handlerIface, middleware, log)
	if err != nil {
		return nil, err
	}

	enc := encoder.New()
	builder := graph.NewBuilder(enc, log)
	out, err := builder.BuildServerMode(ctx, graph.ServerModeInputs{
		TransportPath:       deps["transport-"+opts.Transport],
		TransportLabel:      "transport",
		TransportKind:       opts.Transport,
		TransportHostIface:  hostIface,
		ServerIOPath:        deps["server-io"],
		ServerIOIface:       serverIOIface,
		SessionStorePath:    deps["session-store"],
		SessionsIface:       sessionsIface,
		SessionManagerIface: sessionManagerIface,
		TerminalHandlerPath: deps["terminal-handler"],
		HandlerIface:        handlerIface,
		Handlers:            handlers,
	})
	if err != nil {
		return nil, err
	}

	if !opts.KeepWrapped {
		if err := cache.RemoveWrapped(opts.DepsDir); err != nil {
			log.Warn("failed to clean up wrapped intermediates", zap.Error(err))
		}
	}
	return out, nil
}

// ComposeHandlers implements handler-only composition (spec.md 4.4.3).
func ComposeHandlers(ctx context.Context, userRefs []wasmcp.ComponentRef, opts Options) ([]byte, error) {
	log := opts.logger()

	if len(userRefs) == 0 {
		return nil, wasmcperr.EmptyHandlerChain()
	}

	middleware, err := resolver.EnsureMiddleware(ctx, opts.Manifest, opts.Overrides, opts.DepsDir, opts.Client)
	if err != nil {
		return nil, err
	}

	handlerPrefix := opts.McpPackage.HandlerExportPrefix()
	// In handler-only mode there is no terminal handler to canonically
	// define server-handler's version; the first user handler that already
	// exports it stands in (P5 applies to whichever Component wins
	// Classify as Handler first).
	handlerIface, err := discoverHandlerIfaceFromAny(ctx, userRefs, opts, handlerPrefix)
	if err != nil {
		return nil, err
	}

	handlers, err := classifyAndWrapAll(ctx, userRefs, opts, handlerPrefix, handlerIface, middleware, log)
	if err != nil {
		return nil, err
	}

	enc := encoder.New()
	builder := graph.NewBuilder(enc, log)
	out, err := builder.BuildHandlerOnly(handlers, handlerIface)
	if err != nil {
		return nil, err
	}

	if !opts.KeepWrapped {
		if err := cache.RemoveWrapped(opts.DepsDir); err != nil {
			log.Warn("failed to clean up wrapped intermediates", zap.Error(err))
		}
	}
	return out, nil
}

func resolveAllOrFail(opts Options) error {
	if opts.DepsDir == "" {
		return wasmcperr.New(wasmcperr.PhaseCLI, wasmcperr.KindInvalidRef).Detail("deps-dir is required").Build()
	}
	return nil
}

func logWarn(log *zap.Logger) func([]string) {
	return func(candidates []string) {
		log.Warn("ambiguous interface prefix match, using first in declaration order",
			zap.Strings("candidates", candidates))
	}
}

// transportHostInterface discovers the host-facing export interface the
// transport re-exports at the top level: wasi:http/incoming-handler for
// http, wasi:cli/run for stdio (spec.md 4.4.2 step 5).
func transportHostInterface(ctx context.Context, transportPath, kind string) (string, error) {
	var prefix string
	switch kind {
	case "http":
		prefix = "wasi:http/incoming-handler@"
	case "stdio":
		prefix = "wasi:cli/run@"
	default:
		return "", wasmcperr.UnsupportedTransport(kind)
	}
	return inspector.FindExportByPrefix(ctx, transportPath, prefix, nil)
}

func discoverHandlerIfaceFromAny(ctx context.Context, userRefs []wasmcp.ComponentRef, opts Options, prefix string) (string, error) {
	for _, ref := range userRefs {
		path, err := resolveUser(ctx, ref, opts)
		if err != nil {
			continue
		}
		iface, err := inspector.FindExportByPrefix(ctx, path, prefix, nil)
		if err == nil {
			return iface, nil
		}
	}
	return "", wasmcperr.New(wasmcperr.PhaseClassify, wasmcperr.KindMissingExport).
		Detail("no user component exports %s*", prefix).Build()
}

func resolveUser(ctx context.Context, ref wasmcp.ComponentRef, opts Options) (string, error) {
	return resolver.Resolve(ctx, ref, opts.DepsDir, opts.Client)
}

// classifyAndWrapAll resolves, classifies and (for capabilities) wraps
// every user Component, returning them in caller order as HandlerSpecs
// ready for a topology build. Duplicate filenames get unique labels via an
// index suffix (spec.md 4.4 boundary behaviour; 10.3 label convention).
func classifyAndWrapAll(ctx context.Context, userRefs []wasmcp.ComponentRef, opts Options, handlerPrefix, handlerIface string, middlewarePaths map[string]string, log *zap.Logger) ([]graph.HandlerSpec, error) {
	out := make([]graph.HandlerSpec, 0, len(userRefs))
	for i, ref := range userRefs {
		path, err := resolveUser(ctx, ref, opts)
		if err != nil {
			return nil, err
		}
		label := fmt.Sprintf("component-%d", i)

		known := classify.KnownCapabilitiesFromManifest(opts.McpPackage, opts.Manifest.Middleware)
		result, err := classify.Classify(ctx, path, handlerPrefix, known)
		if err != nil {
			return nil, err
		}

		if result.Kind == classify.KindHandler {
			out = append(out, graph.HandlerSpec{Label: label, Path: path})
			continue
		}

		mwLogical := result.Capability + "-middleware"
		mwPath, ok := middlewarePaths[mwLogical]
		if !ok {
			return nil, wasmcperr.New(wasmcperr.PhaseWrap, wasmcperr.KindMissingImport).
				Detail("no middleware resolved for capability %q", result.Capability).Path(label).Build()
		}

		capPrefix := opts.McpPackage.CapabilityExportPrefix(result.Capability)
		capIface, mwHandlerIface, err := classify.DiscoverMiddlewareInterfaces(ctx, mwPath, capPrefix, handlerPrefix, logWarn(log))
		if err != nil {
			return nil, err
		}

		enc := encoder.New()
		wrappedPath, err := classify.Wrap(ctx, enc, opts.DepsDir, path, mwPath, result.Capability, i, capIface, mwHandlerIface, log)
		if err != nil {
			return nil, err
		}
		out = append(out, graph.HandlerSpec{Label: label, Path: wrappedPath})
	}
	return out, nil
}
