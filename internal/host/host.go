// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package host runs a single extension through its lifecycle: it builds the
// activation context from the shim services, invokes activation, forwards
// webview messages, and turns anything the extension raises into typed
// fault events instead of letting it escape.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/errutil"
	"github.com/holomush/exthost/pkg/protocol"
)

var tracer = otel.Tracer("exthost/host")

// Sentinel errors for programmatic error checking.
var (
	// ErrDisposed is returned by operations on a disposed host.
	ErrDisposed = errors.New("host is disposed")
	// ErrNotActivated is returned when the extension is not activated.
	ErrNotActivated = errors.New("extension is not activated")
	// ErrActivationFailed is returned when the extension's activation raised a fault.
	ErrActivationFailed = errors.New("extension activation failed")
	// ErrNotImplemented is returned by an optional API method the loaded
	// extension does not provide. Callers fall back as if the interface
	// were absent.
	ErrNotImplemented = errors.New("operation not implemented by extension")
)

// Host owns one extension instance and its lifecycle.
type Host struct {
	plugin        Plugin
	logger        *slog.Logger
	services      *shim.Services
	ownServices   bool
	identity      Identity
	workspaceRoot shim.URI
	extensionRoot shim.URI
	events        *shim.Emitter[Event]

	mu          sync.Mutex
	phase       Phase
	api         API
	pctx        *Context
	handlers    *handlerSet
	inflight    chan struct{}
	activatedAt time.Time
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithServices supplies the shim services. By default the host creates
// in-memory services and closes them on Dispose.
func WithServices(s *shim.Services) Option {
	return func(h *Host) { h.services = s }
}

// WithIdentity sets the identity passed to the extension.
func WithIdentity(id Identity) Option {
	return func(h *Host) { h.identity = id }
}

// WithWorkspaceRoot sets the workspace root URI.
func WithWorkspaceRoot(u shim.URI) Option {
	return func(h *Host) { h.workspaceRoot = u }
}

// WithExtensionRoot sets the URI of the extension bundle.
func WithExtensionRoot(u shim.URI) Option {
	return func(h *Host) { h.extensionRoot = u }
}

// New creates a host for plugin in PhaseInactive.
func New(plugin Plugin, opts ...Option) *Host {
	h := &Host{
		plugin: plugin,
		events: shim.NewEmitter[Event]("host"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.services == nil {
		h.services = shim.New(h.logger)
		h.ownServices = true
	}
	if h.identity == (Identity{}) {
		h.identity = NewIdentity("exthost", "dev")
	}
	return h
}

// Phase returns the current lifecycle phase.
func (h *Host) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

// API returns the activated extension's API, or nil.
func (h *Host) API() API {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.api
}

// ActivatedAt returns when the current activation completed, or the zero time.
func (h *Host) ActivatedAt() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activatedAt
}

// Context returns the activation context, or nil before the first activation.
func (h *Host) Context() *Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pctx
}

// Services returns the shim services backing the activation context.
func (h *Host) Services() *shim.Services {
	return h.services
}

// OnEvent registers a listener for host events.
func (h *Host) OnEvent(fn shim.Listener[Event]) shim.Disposable {
	return h.events.On(fn)
}

// Activate activates the extension and returns its API. While activated it
// returns the current API without calling the extension again. Concurrent
// callers during an in-flight activation wait for its result.
func (h *Host) Activate(ctx context.Context) (API, error) {
	h.mu.Lock()
	for h.phase == PhaseActivating {
		wait := h.inflight
		h.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, oops.In("host").With("phase", PhaseActivating.String()).Wrap(ctx.Err())
		}
		h.mu.Lock()
	}

	switch h.phase {
	case PhaseDisposed:
		h.mu.Unlock()
		return nil, h.disposedError()
	case PhaseActivated:
		api := h.api
		h.mu.Unlock()
		return api, nil
	}

	from := h.phase
	h.phase = PhaseActivating
	done := make(chan struct{})
	h.inflight = done
	if h.pctx == nil {
		h.pctx = h.newContext()
	}
	pctx := h.pctx
	h.mu.Unlock()
	defer close(done)

	h.logger.Debug("activating extension", "from", from.String())
	api, err := h.invokeActivate(ctx, pctx)

	h.mu.Lock()
	if h.phase == PhaseDisposed {
		h.mu.Unlock()
		if api != nil {
			h.runDeactivate(ctx, FaultDispose)
		}
		return nil, h.disposedError()
	}
	if err != nil {
		h.phase = from
		h.mu.Unlock()

		// subscriptions made before the failure would block a retry
		for _, subErr := range pctx.disposeSubscriptions() {
			h.emitFault(ctx, &Fault{Context: FaultActivate, Err: subErr, Recoverable: true})
		}
		fault := newFault(FaultActivate, err)
		h.emitFault(ctx, fault)
		return nil, oops.In("host").
			Code("HOST_ACTIVATION_FAILED").
			With("recoverable", fault.Recoverable).
			Wrapf(errors.Join(ErrActivationFailed, fault), "activate extension")
	}
	h.phase = PhaseActivated
	h.api = api
	h.handlers = newHandlerSet()
	h.activatedAt = time.Now()
	h.mu.Unlock()

	h.logger.Info("extension activated", "session_id", h.identity.SessionID)
	h.events.Fire(Event{Kind: EventActivated, API: api})
	return api, nil
}

func (h *Host) invokeActivate(ctx context.Context, pctx *Context) (api API, err error) {
	ctx, span := tracer.Start(ctx, "extension.activate",
		trace.WithAttributes(attribute.String("session.id", h.identity.SessionID)))
	defer func() {
		endSpan(span, err)
	}()
	defer func() {
		if r := recover(); r != nil {
			api, err = nil, panicError(FaultActivate, r)
		}
	}()

	api, err = h.plugin.Activate(ctx, pctx)
	if err == nil && api == nil {
		err = oops.In("host").Code("PLUGIN_NO_API").New("activation returned no API")
	}
	return api, err
}

// SendWebviewMessage delivers env to the extension's message handler and
// waits for it to return. Faults raised by the handler are published as fault events and are not
// returned; only precondition failures are.
func (h *Host) SendWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	h.mu.Lock()
	api, err := h.activeAPI(env)
	h.mu.Unlock()
	if err != nil {
		return err
	}
	h.deliver(ctx, api, env)
	return nil
}

// activeAPI returns the API messages may be delivered to. Callers hold h.mu.
func (h *Host) activeAPI(env protocol.Envelope) (API, error) {
	switch h.phase {
	case PhaseActivated:
		return h.api, nil
	case PhaseDisposed:
		return nil, h.disposedError()
	default:
		return nil, oops.In("host").
			Code("HOST_NOT_ACTIVATED").
			With("phase", h.phase.String()).
			With("message_type", string(env.Type)).
			Wrap(ErrNotActivated)
	}
}

func (h *Host) deliver(ctx context.Context, api API, env protocol.Envelope) {
	if err := h.invokeHandler(ctx, api, env); err != nil {
		h.emitFault(ctx, newFault(FaultMessage, err))
	}
}

func (h *Host) invokeHandler(ctx context.Context, api API, env protocol.Envelope) (err error) {
	ctx, span := tracer.Start(ctx, "extension.message",
		trace.WithAttributes(attribute.String("message.type", string(env.Type))))
	defer func() {
		endSpan(span, err)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = panicError(FaultMessage, r)
		}
	}()
	return api.HandleWebviewMessage(ctx, env)
}

// Deactivate runs the extension's teardown hook, releases its
// subscriptions and discards its API. Teardown faults are published as
// recoverable faults. Deactivating an extension that is not activated is
// a no-op.
func (h *Host) Deactivate(ctx context.Context) error {
	h.mu.Lock()
	switch h.phase {
	case PhaseDisposed:
		h.mu.Unlock()
		return h.disposedError()
	case PhaseActivated:
	default:
		h.mu.Unlock()
		return nil
	}
	h.phase = PhaseDeactivated
	h.api = nil
	handlers := h.handlers
	h.handlers = nil
	h.activatedAt = time.Time{}
	h.mu.Unlock()

	h.stopHandlers(ctx, handlers)
	h.runDeactivate(ctx, FaultDeactivate)
	h.events.Fire(Event{Kind: EventDeactivated})
	h.logger.Info("extension deactivated")
	return nil
}

// runDeactivate calls the teardown hook and disposes subscriptions. All
// faults are downgraded to recoverable.
func (h *Host) runDeactivate(ctx context.Context, boundary string) {
	if d, ok := h.plugin.(Deactivator); ok {
		if err := h.invokeDeactivate(ctx, d); err != nil {
			h.emitFault(ctx, &Fault{Context: boundary, Err: err, Recoverable: true})
		}
	}
	h.mu.Lock()
	pctx := h.pctx
	h.mu.Unlock()
	if pctx == nil {
		return
	}
	for _, err := range pctx.disposeSubscriptions() {
		h.emitFault(ctx, &Fault{Context: boundary, Err: err, Recoverable: true})
	}
}

func (h *Host) invokeDeactivate(ctx context.Context, d Deactivator) (err error) {
	ctx, span := tracer.Start(ctx, "extension.deactivate")
	defer func() {
		endSpan(span, err)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = panicError(FaultDeactivate, r)
		}
	}()
	return d.Deactivate(ctx)
}

// Dispose deactivates the extension if needed and moves the host to
// PhaseDisposed. Further calls are no-ops.
func (h *Host) Dispose(ctx context.Context) error {
	h.mu.Lock()
	prev := h.phase
	if prev == PhaseDisposed {
		h.mu.Unlock()
		return nil
	}
	h.phase = PhaseDisposed
	h.api = nil
	handlers := h.handlers
	h.handlers = nil
	h.mu.Unlock()

	// An in-flight activation tears itself down when it observes PhaseDisposed.
	if prev == PhaseActivated {
		h.stopHandlers(ctx, handlers)
		h.runDeactivate(ctx, FaultDispose)
	}

	h.events.Fire(Event{Kind: EventDisposed})
	h.events.Dispose()
	if h.ownServices {
		h.services.Close()
	}
	h.logger.Debug("host disposed", "previous_phase", prev.String())
	return nil
}

func (h *Host) newContext() *Context {
	return &Context{
		Services:      h.services,
		Identity:      h.identity,
		WorkspaceRoot: h.workspaceRoot,
		ExtensionRoot: h.extensionRoot,
		Logger:        h.logger.With("extension_session", h.identity.SessionID),
		post:          h.postMessage,
	}
}

// postMessage publishes an envelope the extension sent to its webview.
// Messages posted outside an activation are dropped.
func (h *Host) postMessage(ctx context.Context, env protocol.Envelope) error {
	switch h.Phase() {
	case PhaseActivating, PhaseActivated:
	default:
		h.logger.DebugContext(ctx, "dropping message posted while inactive", "message_type", string(env.Type))
		return nil
	}
	h.events.Fire(Event{Kind: EventMessage, Message: env})
	return nil
}

func (h *Host) emitFault(ctx context.Context, f *Fault) {
	level := slog.LevelError
	if f.Recoverable {
		level = slog.LevelWarn
	}
	logger := h.logger.With("boundary", f.Context, "recoverable", f.Recoverable)
	errutil.Log(ctx, logger, level, "extension fault", f.Err)
	h.events.Fire(Event{Kind: EventFault, Fault: f})
}

func (h *Host) disposedError() error {
	return oops.In("host").
		Code("HOST_DISPOSED").
		With("phase", PhaseDisposed.String()).
		Wrap(ErrDisposed)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
