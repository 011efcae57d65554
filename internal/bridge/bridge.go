// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package bridge connects the terminal client and the hosted extension
// through two channels. Each channel sends notifications to its
// counterpart's stream and issues correlated requests that wait for the
// counterpart's response.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/protocol"
)

// Default bounds.
const (
	DefaultMaxPending      = 256
	DefaultMaxPayloadBytes = 4 << 20
	DefaultQueueSize       = 1024
)

// Channel names.
const (
	ClientChannel = "client"
	PluginChannel = "plugin"
)

// Sentinel errors for programmatic error checking.
var (
	// ErrBridgeDisposed is returned by operations on a disposed bridge and
	// by requests still pending when it was disposed.
	ErrBridgeDisposed = errors.New("bridge is disposed")
	// ErrDuplicateRequestID is returned when a correlation id is already pending.
	ErrDuplicateRequestID = errors.New("duplicate request id")
	// ErrTooManyPending is returned when the pending request limit is reached.
	ErrTooManyPending = errors.New("too many pending requests")
	// ErrPayloadTooLarge is returned for payloads above the size limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrQueueFull is returned when the counterpart is not draining its stream.
	ErrQueueFull = errors.New("message queue full")
)

// RemoteError is returned by Request when the counterpart responded with an error.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Bridge owns the client and plugin channels.
type Bridge struct {
	logger          *slog.Logger
	maxPending      int
	maxPayloadBytes int
	queueSize       int

	client *Channel
	plugin *Channel

	inflight atomic.Int64
	dropped  atomic.Int64
	done     chan struct{}
	once     sync.Once
	idFunc   func() string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithMaxPending caps concurrently pending requests across both channels.
func WithMaxPending(n int) Option {
	return func(b *Bridge) { b.maxPending = n }
}

// WithMaxPayloadBytes caps the payload size of any message or response.
func WithMaxPayloadBytes(n int) Option {
	return func(b *Bridge) { b.maxPayloadBytes = n }
}

// WithQueueSize sets how many undelivered messages each stream buffers.
func WithQueueSize(n int) Option {
	return func(b *Bridge) { b.queueSize = n }
}

// withIDFunc replaces the correlation id generator. Tests use it to force collisions.
func withIDFunc(fn func() string) Option {
	return func(b *Bridge) { b.idFunc = fn }
}

// New creates a bridge and starts one delivery goroutine per channel.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		maxPending:      DefaultMaxPending,
		maxPayloadBytes: DefaultMaxPayloadBytes,
		queueSize:       DefaultQueueSize,
		done:            make(chan struct{}),
		idFunc:          protocol.NewID,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	b.client = newChannel(b, ClientChannel)
	b.plugin = newChannel(b, PluginChannel)
	b.client.peer = b.plugin
	b.plugin.peer = b.client

	go b.client.pump()
	go b.plugin.pump()
	return b
}

// Client returns the channel used by the terminal client.
func (b *Bridge) Client() *Channel { return b.client }

// Plugin returns the channel used on behalf of the extension.
func (b *Bridge) Plugin() *Channel { return b.plugin }

// Pending returns the number of requests awaiting a response.
func (b *Bridge) Pending() int {
	return int(b.inflight.Load())
}

// DroppedResponses returns how many responses arrived for unknown ids.
func (b *Bridge) DroppedResponses() int64 {
	return b.dropped.Load()
}

// Disposed reports whether Dispose was called.
func (b *Bridge) Disposed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Dispose fails every pending request with ErrBridgeDisposed, stops
// delivery and drops all stream listeners. Safe to call more than once.
func (b *Bridge) Dispose() {
	b.once.Do(func() {
		close(b.done)
		for _, c := range []*Channel{b.client, b.plugin} {
			for _, id := range c.pending.Keys() {
				if _, ok := c.pending.Pop(id); ok {
					b.inflight.Add(-1)
				}
			}
			c.listeners.Dispose()
		}
		b.logger.Debug("bridge disposed")
	})
}

func (b *Bridge) disposedError(channel string) error {
	return oops.In("bridge").Code("BRIDGE_DISPOSED").With("channel", channel).Wrap(ErrBridgeDisposed)
}

type response struct {
	result json.RawMessage
	err    string
}

type pendingRequest struct {
	ch chan response
}

// Channel is one side of the bridge.
type Channel struct {
	name      string
	bridge    *Bridge
	peer      *Channel
	queue     chan protocol.Envelope
	listeners *shim.Emitter[protocol.Envelope]
	pending   cmap.ConcurrentMap[string, *pendingRequest]
}

func newChannel(b *Bridge, name string) *Channel {
	return &Channel{
		name:      name,
		bridge:    b,
		queue:     make(chan protocol.Envelope, b.queueSize),
		listeners: shim.NewEmitter[protocol.Envelope](name),
		pending:   cmap.New[*pendingRequest](),
	}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// OnMessage registers a listener for messages the counterpart sends.
// Listeners run in send order on the channel's delivery goroutine and must
// not block on a response that would be delivered on the same channel.
func (c *Channel) OnMessage(fn shim.Listener[protocol.Envelope]) shim.Disposable {
	return c.listeners.On(fn)
}

// ListenerCount returns the number of message listeners.
func (c *Channel) ListenerCount() int {
	return c.listeners.ListenerCount()
}

// Send delivers env to the counterpart's stream without waiting.
func (c *Channel) Send(ctx context.Context, env protocol.Envelope) error {
	if err := ctx.Err(); err != nil {
		return oops.In("bridge").With("channel", c.name).Wrap(err)
	}
	if c.bridge.Disposed() {
		return c.bridge.disposedError(c.name)
	}
	if size := env.Size(); size > c.bridge.maxPayloadBytes {
		return oops.In("bridge").
			Code("BRIDGE_PAYLOAD_TOO_LARGE").
			With("channel", c.name).
			With("size", size).
			With("limit", c.bridge.maxPayloadBytes).
			Wrap(ErrPayloadTooLarge)
	}

	select {
	case c.peer.queue <- env:
		return nil
	default:
		return oops.In("bridge").
			Code("BRIDGE_QUEUE_FULL").
			With("channel", c.name).
			With("message_type", string(env.Type)).
			Wrap(ErrQueueFull)
	}
}

// Request sends env with a fresh correlation id and waits for the
// counterpart's Respond. There is no bridge-level timeout: the wait ends
// on a response, when ctx is done, or when the bridge is disposed.
func (c *Channel) Request(ctx context.Context, env protocol.Envelope) (json.RawMessage, error) {
	if c.bridge.Disposed() {
		return nil, c.bridge.disposedError(c.name)
	}

	id := c.bridge.idFunc()
	pr := &pendingRequest{ch: make(chan response, 1)}
	if err := c.register(id, pr); err != nil {
		return nil, err
	}

	env.ID = id
	if err := c.Send(ctx, env); err != nil {
		c.release(id)
		return nil, err
	}

	select {
	case resp := <-pr.ch:
		if resp.err != "" {
			return nil, oops.In("bridge").
				With("channel", c.name).
				With("request_id", id).
				Wrap(&RemoteError{Message: resp.err})
		}
		return resp.result, nil
	case <-ctx.Done():
		c.release(id)
		return nil, oops.In("bridge").With("channel", c.name).With("request_id", id).Wrap(ctx.Err())
	case <-c.bridge.done:
		return nil, c.bridge.disposedError(c.name)
	}
}

func (c *Channel) register(id string, pr *pendingRequest) error {
	b := c.bridge
	if b.inflight.Add(1) > int64(b.maxPending) {
		b.inflight.Add(-1)
		return oops.In("bridge").
			Code("BRIDGE_TOO_MANY_PENDING").
			With("channel", c.name).
			With("limit", b.maxPending).
			Wrap(ErrTooManyPending)
	}
	if !c.pending.SetIfAbsent(id, pr) {
		b.inflight.Add(-1)
		return oops.In("bridge").
			Code("BRIDGE_DUPLICATE_ID").
			With("channel", c.name).
			With("request_id", id).
			Wrap(ErrDuplicateRequestID)
	}
	return nil
}

// release removes a pending request if it is still registered.
func (c *Channel) release(id string) (*pendingRequest, bool) {
	pr, ok := c.pending.Pop(id)
	if ok {
		c.bridge.inflight.Add(-1)
	}
	return pr, ok
}

// Respond resolves the counterpart's pending request id. errText, when
// non-empty, fails the request with a RemoteError. A response for an id
// that is not pending is dropped.
func (c *Channel) Respond(id string, result json.RawMessage, errText string) error {
	if c.bridge.Disposed() {
		return c.bridge.disposedError(c.name)
	}
	if len(result) > c.bridge.maxPayloadBytes {
		return oops.In("bridge").
			Code("BRIDGE_PAYLOAD_TOO_LARGE").
			With("channel", c.name).
			With("request_id", id).
			With("size", len(result)).
			Wrap(ErrPayloadTooLarge)
	}

	pr, ok := c.peer.release(id)
	if !ok {
		c.bridge.dropped.Add(1)
		c.bridge.logger.Debug("dropping response for unknown request",
			"channel", c.name,
			"request_id", id)
		return nil
	}
	pr.ch <- response{result: result, err: errText}
	return nil
}

// Pending returns the number of requests this channel is waiting on.
func (c *Channel) Pending() int {
	return c.pending.Count()
}

func (c *Channel) pump() {
	for {
		select {
		case <-c.bridge.done:
			return
		case env := <-c.queue:
			c.listeners.Fire(env)
		}
	}
}
