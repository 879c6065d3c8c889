package graph

import (
	"context"

	"go.uber.org/zap"

	"github.com/wasmcp/compose/inspector"
	"github.com/wasmcp/compose/wasmcperr"
)

// Builder drives an Encoder through the fixed topologies in spec.md
// 4.4.2/4.4.3 and tracks the monotonic state machine (4.4.5). It keeps no
// UnsatisfiedImports record of its own: the unsatisfied-import check
// (4.4.4) happens inside Encoder.Encode, which fails with EncodeFailed
// wrapping a per-label UnsatisfiedImportsError before any bytes are
// emitted. All interface-name strings it wires are passed in
// already discovered (by the Inspector, at the composer layer) rather than
// hard-coded, per 4.4.2's closing note.
type Builder struct {
	enc    Encoder
	state  State
	log    *zap.Logger
	labels map[InstanceId]string
}

// NewBuilder wraps enc (typically encoder.New()) in a topology-aware
// Builder. A nil logger defaults to a no-op, matching the teacher's
// Logger()/SetLogger() convention used elsewhere in this codebase.
func NewBuilder(enc Encoder, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{enc: enc, state: StateEmpty, log: log, labels: make(map[InstanceId]string)}
}

// State reports the builder's current lifecycle state.
func (b *Builder) State() State {
	return b.state
}

// loadInstantiate loads, registers and instantiates path under label,
// advancing the state machine, and records the label for diagnostics.
func (b *Builder) loadInstantiate(label, path string) (InstanceId, error) {
	pkg, err := b.enc.LoadPackage(label, path)
	if err != nil {
		return 0, err
	}
	if b.state < StateLoaded {
		b.state = StateLoaded
	}
	id, err := b.enc.Register(pkg)
	if err != nil {
		return 0, err
	}
	inst, err := b.enc.Instantiate(id)
	if err != nil {
		return 0, err
	}
	if b.state < StateInstantiated {
		b.state = StateInstantiated
	}
	b.labels[inst] = label
	return inst, nil
}

// wireIfImported aliases providerExport's iface from provider and sets it
// as consumer's argument only if consumer's package actually imports iface
// — steps 2c/2d of the server-mode topology ("If Hᵢ imports the I
// interface...").
func (b *Builder) wireIfImported(ctx context.Context, consumerPath string, consumer InstanceId, iface string, provider InstanceId) error {
	has, err := inspector.HasImport(ctx, consumerPath, iface)
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	ref, err := b.enc.AliasExport(provider, iface)
	if err != nil {
		return err
	}
	return b.enc.SetArgument(consumer, iface, ref)
}

// HandlerSpec is one user-handler input to a topology build: its resolved
// path and label (spec.md 4.4 boundary behaviour: "duplicate filenames...
// labels remain unique via index suffix").
type HandlerSpec struct {
	Label string
	Path  string
}

// ServerModeInputs carries the discovered interface name strings and
// resolved paths the server-mode topology needs (spec.md 4.4.2). All
// interface strings here are exact, discovered versions — the pipeline
// interfaces (server-handler, server-io, sessions, session-manager) and the
// transport's exported host interface.
type ServerModeInputs struct {
	TransportPath     string
	TransportLabel    string
	TransportKind     string // "http" or "stdio"
	TransportHostIface string // e.g. wasi:http/incoming-handler@0.2.8

	ServerIOPath  string
	ServerIOIface string // server-io export iface

	SessionStorePath         string
	SessionsIface            string // sessions export iface
	SessionManagerIface      string // session-manager export iface

	TerminalHandlerPath string
	HandlerIface        string // server-handler iface, shared by every stage

	Handlers []HandlerSpec // H1..Hn, caller order
}

// BuildServerMode implements the server-mode topology (spec.md 4.4.2): a
// linear chain whose request traversal order is
// transport -> I/O -> session-store -> H1 -> ... -> Hn -> terminal.
func (b *Builder) BuildServerMode(ctx context.Context, in ServerModeInputs) ([]byte, error) {
	switch in.TransportKind {
	case "http", "stdio":
	default:
		return nil, wasmcperr.UnsupportedTransport(in.TransportKind)
	}

	// Step 1: instantiate the terminal handler; alias its handler export.
	terminal, err := b.loadInstantiate("terminal", in.TerminalHandlerPath)
	if err != nil {
		return nil, err
	}
	prev, err := b.enc.AliasExport(terminal, in.HandlerIface)
	if err != nil {
		return nil, err
	}

	// Step 3 (done early so steps 2c/2d can wire into it): instantiate the
	// shared I/O server and session store once.
	serverIO, err := b.loadInstantiate("server-io", in.ServerIOPath)
	if err != nil {
		return nil, err
	}
	serverIOExport, err := b.enc.AliasExport(serverIO, in.ServerIOIface)
	if err != nil {
		return nil, err
	}
	sessionStore, err := b.loadInstantiate("session-store", in.SessionStorePath)
	if err != nil {
		return nil, err
	}
	sessionsExport, err := b.enc.AliasExport(sessionStore, in.SessionsIface)
	if err != nil {
		return nil, err
	}
	sessionManagerExport, err := b.enc.AliasExport(sessionStore, in.SessionManagerIface)
	if err != nil {
		return nil, err
	}

	// Step 2: for i = n..1, instantiate Hi, wire its server-handler import
	// to prev, optionally wire server-io/sessions, then alias its own
	// server-handler export as the new prev.
	for i := len(in.Handlers) - 1; i >= 0; i-- {
		h := in.Handlers[i]
		inst, err := b.loadInstantiate(h.Label, h.Path)
		if err != nil {
			return nil, err
		}
		if err := b.enc.SetArgument(inst, in.HandlerIface, prev); err != nil {
			return nil, err
		}
		if err := b.wireIfImported(ctx, h.Path, inst, in.ServerIOIface, serverIO); err != nil {
			return nil, err
		}
		if err := b.wireIfImported(ctx, h.Path, inst, in.SessionsIface, sessionStore); err != nil {
			return nil, err
		}
		prev, err = b.enc.AliasExport(inst, in.HandlerIface)
		if err != nil {
			return nil, err
		}
	}
	b.state = StateWired

	// Step 4: instantiate the transport; wire its four imports.
	transport, err := b.loadInstantiate(in.TransportLabel, in.TransportPath)
	if err != nil {
		return nil, err
	}
	if err := b.enc.SetArgument(transport, in.HandlerIface, prev); err != nil {
		return nil, err
	}
	if err := b.enc.SetArgument(transport, in.ServerIOIface, serverIOExport); err != nil {
		return nil, err
	}
	if err := b.enc.SetArgument(transport, in.SessionsIface, sessionsExport); err != nil {
		return nil, err
	}
	if err := b.enc.SetArgument(transport, in.SessionManagerIface, sessionManagerExport); err != nil {
		return nil, err
	}

	// Step 5: re-export the transport's host interface at the top level.
	hostExport, err := b.enc.AliasExport(transport, in.TransportHostIface)
	if err != nil {
		return nil, err
	}
	if err := b.enc.Export(hostExport, in.TransportHostIface); err != nil {
		return nil, err
	}

	return b.encode()
}

// BuildHandlerOnly implements the handler-only topology (spec.md 4.4.3):
// n==1 short-circuits to a single re-exported instance; n>1 chains exactly
// as the server-mode handler loop does, without I/O or session store, and
// re-exports H1's handler export. Empty input fails with
// EmptyHandlerChain (I3).
func (b *Builder) BuildHandlerOnly(handlers []HandlerSpec, handlerIface string) ([]byte, error) {
	if len(handlers) == 0 {
		return nil, wasmcperr.EmptyHandlerChain()
	}

	if len(handlers) == 1 {
		inst, err := b.loadInstantiate(handlers[0].Label, handlers[0].Path)
		if err != nil {
			return nil, err
		}
		export, err := b.enc.AliasExport(inst, handlerIface)
		if err != nil {
			return nil, err
		}
		b.state = StateWired
		if err := b.enc.Export(export, handlerIface); err != nil {
			return nil, err
		}
		return b.encode()
	}

	last := handlers[len(handlers)-1]
	terminal, err := b.loadInstantiate(last.Label, last.Path)
	if err != nil {
		return nil, err
	}
	prev, err := b.enc.AliasExport(terminal, handlerIface)
	if err != nil {
		return nil, err
	}

	var head ExportRef
	for i := len(handlers) - 2; i >= 0; i-- {
		h := handlers[i]
		inst, err := b.loadInstantiate(h.Label, h.Path)
		if err != nil {
			return nil, err
		}
		if err := b.enc.SetArgument(inst, handlerIface, prev); err != nil {
			return nil, err
		}
		prev, err = b.enc.AliasExport(inst, handlerIface)
		if err != nil {
			return nil, err
		}
		head = prev
	}
	b.state = StateWired

	if err := b.enc.Export(head, handlerIface); err != nil {
		return nil, err
	}
	return b.encode()
}

func (b *Builder) encode() ([]byte, error) {
	bytes, err := b.enc.Encode()
	if err != nil {
		return nil, err
	}
	b.state = StateEncoded
	return bytes, nil
}
