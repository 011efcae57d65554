// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package service is the consumer-facing façade over one hosted extension.
// It composes the extension host and the message bridge, guards every
// operation by lifecycle phase, and republishes what the extension does as
// typed events.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/holomush/exthost/internal/bridge"
	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/errutil"
	"github.com/holomush/exthost/pkg/protocol"
)

// DefaultCompletionTimeout applies when RequestSingleCompletion gets no timeout.
const DefaultCompletionTimeout = 60 * time.Second

// Service owns one Host and one Bridge.
type Service struct {
	host    *host.Host
	bridge  *bridge.Bridge
	logger  *slog.Logger
	metrics *Metrics
	events  *eventBus

	hostOpts          []host.Option
	bridgeOpts        []bridge.Option
	registerer        prometheus.Registerer
	completionTimeout time.Duration
	retryAttempts     uint64
	retryBase         time.Duration

	mu          sync.Mutex
	initialized bool
	ready       bool
	disposed    bool
	lastState   json.RawMessage
	lastFault   *host.Fault
	faultCount  int
	done        chan struct{}
	wiring      []shim.Disposable
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the service, host and bridge.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithHostOptions passes options to the underlying host.
func WithHostOptions(opts ...host.Option) Option {
	return func(s *Service) { s.hostOpts = append(s.hostOpts, opts...) }
}

// WithBridgeOptions passes options to the underlying bridge.
func WithBridgeOptions(opts ...bridge.Option) Option {
	return func(s *Service) { s.bridgeOpts = append(s.bridgeOpts, opts...) }
}

// WithRegisterer registers service metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) { s.registerer = reg }
}

// WithCompletionTimeout changes the default completion timeout.
func WithCompletionTimeout(d time.Duration) Option {
	return func(s *Service) { s.completionTimeout = d }
}

// WithActivationRetry retries activation faults marked recoverable up to
// attempts extra times with exponential backoff starting at base.
func WithActivationRetry(attempts uint64, base time.Duration) Option {
	return func(s *Service) {
		s.retryAttempts = attempts
		s.retryBase = base
	}
}

// New creates a service for plugin. Nothing runs until Initialize.
func New(plugin host.Plugin, opts ...Option) *Service {
	s := &Service{
		events:            newEventBus(),
		completionTimeout: DefaultCompletionTimeout,
		done:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.completionTimeout <= 0 {
		s.completionTimeout = DefaultCompletionTimeout
	}

	s.host = host.New(plugin, append([]host.Option{host.WithLogger(s.logger)}, s.hostOpts...)...)
	s.bridge = bridge.New(append([]bridge.Option{bridge.WithLogger(s.logger)}, s.bridgeOpts...)...)
	if s.registerer != nil {
		s.metrics = NewMetrics(s.registerer, func() float64 { return float64(s.bridge.Pending()) })
	}

	s.wiring = []shim.Disposable{
		s.host.OnEvent(s.handleHostEvent),
		s.bridge.Plugin().OnMessage(s.deliverToExtension),
		s.bridge.Client().OnMessage(s.deliverToClient),
	}
	if w := s.host.Services().Window; w != nil {
		s.wiring = append(s.wiring, w.OnNotification(func(n shim.Notification) {
			s.events.fire(Event{Type: EventNotification, Notification: &n})
		}))
	}
	return s
}

// On registers a listener for event type t. Disposing the result removes
// exactly this listener.
func (s *Service) On(t EventType, fn shim.Listener[Event]) shim.Disposable {
	return s.events.on(t, fn)
}

// ListenerCount returns the number of listeners for t.
func (s *Service) ListenerCount(t EventType) int {
	return s.events.count(t)
}

// Phase returns the host lifecycle phase.
func (s *Service) Phase() host.Phase {
	return s.host.Phase()
}

// Services returns the shim services shared with the extension.
func (s *Service) Services() *shim.Services {
	return s.host.Services()
}

// Initialize activates the extension. It is a no-op while activated. The
// first successful activation emits "ready" with the extension API.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return preconditionError(CodeDisposed, ErrDisposed, host.PhaseDisposed, "initialize")
	}
	s.initialized = true
	s.mu.Unlock()

	if s.host.Phase() == host.PhaseActivated {
		return nil
	}

	api, err := s.activate(ctx)
	if err != nil {
		s.metrics.activation("failure")
		if s.isDisposed() {
			return preconditionError(CodeDisposed, ErrDisposed, host.PhaseDisposed, "initialize")
		}
		return err
	}
	s.metrics.activation("success")

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return preconditionError(CodeDisposed, ErrDisposed, host.PhaseDisposed, "initialize")
	}
	first := !s.ready
	s.ready = true
	s.mu.Unlock()

	if first {
		s.logger.Info("extension service ready")
		s.events.fire(Event{Type: EventReady, API: api})
	}
	return nil
}

func (s *Service) activate(ctx context.Context) (host.API, error) {
	if s.retryAttempts == 0 {
		return s.host.Activate(ctx)
	}

	var api host.API
	backoff := retry.WithMaxRetries(s.retryAttempts, retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		api, err = s.host.Activate(ctx)
		if err != nil && host.IsRecoverable(err) {
			errutil.LogWarn(s.logger, "activation failed, retrying", err)
			return retry.RetryableError(err)
		}
		return err
	})
	return api, err
}

func (s *Service) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// guard checks the preconditions shared by operations that need an
// activated extension.
func (s *Service) guard(op string) error {
	s.mu.Lock()
	disposed, initialized := s.disposed, s.initialized
	s.mu.Unlock()

	switch {
	case disposed:
		return preconditionError(CodeDisposed, ErrDisposed, host.PhaseDisposed, op)
	case !initialized:
		return preconditionError(CodeNotInitialized, ErrNotInitialized, s.host.Phase(), op)
	}
	if phase := s.host.Phase(); phase != host.PhaseActivated {
		return preconditionError(CodeNotActivated, ErrNotActivated, phase, op)
	}
	return nil
}

// SendWebviewMessage delivers env to the extension's message handler.
// Delivery is asynchronous and ordered; faults raised while handling it
// surface as "error" or "warning" events.
func (s *Service) SendWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	if err := s.guard("sendWebviewMessage"); err != nil {
		return err
	}
	return s.bridge.Client().Send(ctx, env)
}

// Request sends env to the extension and waits for its correlated
// response. The extension answers by posting a "response" envelope with
// the request's id.
func (s *Service) Request(ctx context.Context, env protocol.Envelope) (json.RawMessage, error) {
	if err := s.guard("request"); err != nil {
		return nil, err
	}
	return s.bridge.Client().Request(ctx, env)
}

// Respond answers a request the extension posted, delivering a "response"
// envelope carrying id back to it.
func (s *Service) Respond(ctx context.Context, id string, result json.RawMessage, errText string) error {
	if err := s.guard("respond"); err != nil {
		return err
	}
	env, err := protocol.New(protocol.TypeResponse, protocol.ResponsePayload{Result: result, Error: errText})
	if err != nil {
		return err
	}
	env.ID = id
	return s.bridge.Client().Send(ctx, env)
}

// ExtensionAPI returns the extension's API, or nil when not activated.
func (s *Service) ExtensionAPI() host.API {
	if s.isDisposed() {
		return nil
	}
	return s.host.API()
}

// GetState returns the extension state: live from the API when it can
// report it, otherwise the last pushed snapshot. It returns nil before
// initialization and after disposal and never fails.
func (s *Service) GetState(ctx context.Context) json.RawMessage {
	s.mu.Lock()
	if s.disposed || !s.initialized {
		s.mu.Unlock()
		return nil
	}
	last := s.lastState
	s.mu.Unlock()

	if sp, ok := s.host.API().(host.StateProvider); ok {
		if state, err := s.liveState(ctx, sp); err == nil && state != nil {
			return state
		} else if err != nil && !errors.Is(err, host.ErrNotImplemented) {
			s.logger.Debug("state provider failed, using last snapshot", "error", err)
		}
	}
	return last
}

func (s *Service) liveState(ctx context.Context, sp host.StateProvider) (state json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = oops.In("service").Errorf("state provider panicked: %v", r)
		}
	}()
	return sp.State(ctx)
}

// ExecuteCommand runs a command registered with the shim command registry.
func (s *Service) ExecuteCommand(ctx context.Context, id string, args ...any) (any, error) {
	if err := s.guard("executeCommand"); err != nil {
		return nil, err
	}
	return s.host.Services().Commands.Execute(ctx, id, args...)
}

// StartTask starts a task through the API when it implements
// host.TaskRunner, or by sending a "newTask" message otherwise.
func (s *Service) StartTask(ctx context.Context, text string, images []string) (string, error) {
	if err := s.guard("startTask"); err != nil {
		return "", err
	}
	if runner, ok := s.host.API().(host.TaskRunner); ok {
		id, err := runner.StartTask(ctx, text, images)
		if !errors.Is(err, host.ErrNotImplemented) {
			return id, err
		}
	}
	env, err := protocol.New(protocol.TypeNewTask, protocol.NewTaskPayload{Text: text, Images: images})
	if err != nil {
		return "", err
	}
	return "", s.bridge.Client().Send(ctx, env)
}

// CancelTask cancels a task through the API when it implements
// host.TaskRunner, or by sending a "cancelTask" message otherwise.
func (s *Service) CancelTask(ctx context.Context, taskID string) error {
	if err := s.guard("cancelTask"); err != nil {
		return err
	}
	if runner, ok := s.host.API().(host.TaskRunner); ok {
		err := runner.CancelTask(ctx, taskID)
		if !errors.Is(err, host.ErrNotImplemented) {
			return err
		}
	}
	env, err := protocol.New(protocol.TypeCancelTask, protocol.CancelTaskPayload{TaskID: taskID})
	if err != nil {
		return err
	}
	return s.bridge.Client().Send(ctx, env)
}

// TerminalOperation forwards a terminal operation to APIs implementing
// host.TerminalHandler.
func (s *Service) TerminalOperation(ctx context.Context, op string, args json.RawMessage) error {
	if err := s.guard("terminalOperation"); err != nil {
		return err
	}
	handler, ok := s.host.API().(host.TerminalHandler)
	if !ok {
		return oops.In("service").Code(CodeUnsupported).With("operation", op).Wrap(ErrUnsupported)
	}
	err := handler.HandleTerminalOperation(ctx, op, args)
	if errors.Is(err, host.ErrNotImplemented) {
		return oops.In("service").Code(CodeUnsupported).With("operation", op).Wrap(ErrUnsupported)
	}
	return err
}

// Dispose disposes the bridge, deactivates and disposes the host, removes
// every listener and emits "disposed". Extension faults during teardown are
// logged and do not fail Dispose. Safe to call more than once.
func (s *Service) Dispose(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	s.ready = false
	s.lastState = nil
	close(s.done)
	wiring := s.wiring
	s.wiring = nil
	s.mu.Unlock()

	s.bridge.Dispose()
	if err := s.host.Dispose(ctx); err != nil {
		errutil.LogWarn(s.logger, "host dispose failed", err)
	}
	for _, d := range wiring {
		d.Dispose()
	}

	s.events.clearExcept(EventDisposed)
	s.events.fire(Event{Type: EventDisposed})
	s.events.clear(EventDisposed)
	s.logger.Info("extension service disposed")
	return nil
}

// handleHostEvent republishes host events. Messages posted by the
// extension enter the bridge on the plugin side.
func (s *Service) handleHostEvent(ev host.Event) {
	switch ev.Kind {
	case host.EventMessage:
		if err := s.bridge.Plugin().Send(context.Background(), ev.Message); err != nil {
			s.rejectPost(ev.Message, err)
		}
	case host.EventFault:
		s.recordFault(ev.Fault)
	}
}

// rejectPost reports a message the extension posted that the bridge would
// not take. Posts racing disposal are dropped quietly.
func (s *Service) rejectPost(env protocol.Envelope, err error) {
	if errutil.HasCode(err, "BRIDGE_DISPOSED") {
		s.logger.Debug("dropping extension message after dispose", "type", string(env.Type))
		return
	}
	errutil.LogWarn(s.logger.With("type", string(env.Type)), "dropping extension message", err)
	s.recordFault(&host.Fault{Context: host.FaultPost, Err: err, Recoverable: true})
}

func (s *Service) recordFault(f *host.Fault) {
	s.mu.Lock()
	s.lastFault = f
	s.faultCount++
	s.mu.Unlock()

	s.metrics.fault(f.Context, f.Recoverable)
	t := EventError
	if f.Recoverable {
		t = EventWarning
	}
	s.events.fire(Event{Type: t, Fault: f})
}

// deliverToExtension runs on the plugin channel's delivery goroutine. It
// dispatches without waiting so that one slow handler does not delay the
// messages queued behind it.
func (s *Service) deliverToExtension(env protocol.Envelope) {
	s.metrics.message("inbound", string(env.Type))
	if err := s.host.DispatchWebviewMessage(context.Background(), env); err != nil {
		s.logger.Debug("message not delivered to extension", "type", string(env.Type), "error", err)
		if env.IsRequest() {
			_ = s.bridge.Plugin().Respond(env.ID, nil, err.Error())
		}
	}
}

// deliverToClient runs on the client channel's delivery goroutine.
func (s *Service) deliverToClient(env protocol.Envelope) {
	s.metrics.message("outbound", string(env.Type))

	switch env.Type {
	case protocol.TypeResponse:
		if env.IsRequest() {
			s.resolve(env)
			return
		}
	case protocol.TypeState:
		s.updateState(env)
	case protocol.TypeNotification:
		s.notify(env)
	}
	s.events.fire(Event{Type: EventMessage, Message: env})
}

func (s *Service) resolve(env protocol.Envelope) {
	var resp protocol.ResponsePayload
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &resp); err != nil {
			resp.Error = "malformed response: " + err.Error()
		}
	}
	if err := s.bridge.Plugin().Respond(env.ID, resp.Result, resp.Error); err != nil {
		s.logger.Debug("response not delivered", "request_id", env.ID, "error", err)
	}
}

func (s *Service) updateState(env protocol.Envelope) {
	p, err := env.Decode()
	if err != nil {
		s.logger.Debug("dropping malformed state message", "error", err)
		return
	}
	state := p.(*protocol.StatePayload).State

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.lastState = state
	s.mu.Unlock()

	s.events.fire(Event{Type: EventStateChange, State: state})
}

func (s *Service) notify(env protocol.Envelope) {
	p, err := env.Decode()
	if err != nil {
		return
	}
	np := p.(*protocol.NotificationPayload)
	s.events.fire(Event{Type: EventNotification, Notification: &shim.Notification{
		Severity: shim.ParseSeverity(np.Severity),
		Message:  np.Message,
		Items:    np.Items,
	}})
}
