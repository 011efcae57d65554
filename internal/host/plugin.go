// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host

import (
	"context"
	"encoding/json"

	"github.com/holomush/exthost/pkg/protocol"
)

// Plugin is a hosted extension. Activate receives the context built by the
// host and returns the extension's public API.
type Plugin interface {
	Activate(ctx context.Context, pctx *Context) (API, error)
}

// Deactivator is implemented by plugins with a teardown hook.
type Deactivator interface {
	Deactivate(ctx context.Context) error
}

// API is the public surface an extension returns from activation. Every
// extension handles webview messages; the interfaces below are optional.
type API interface {
	// HandleWebviewMessage is the entry point the extension's graphical
	// front end would otherwise call.
	HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error
}

// StateProvider is implemented by APIs that can report their state on demand.
type StateProvider interface {
	State(ctx context.Context) (json.RawMessage, error)
}

// TaskRunner is implemented by APIs that start and cancel tasks directly.
type TaskRunner interface {
	StartTask(ctx context.Context, text string, images []string) (taskID string, err error)
	CancelTask(ctx context.Context, taskID string) error
}

// TerminalHandler is implemented by APIs that accept terminal operations
// such as "addToChat" or "fixCommand".
type TerminalHandler interface {
	HandleTerminalOperation(ctx context.Context, op string, args json.RawMessage) error
}

// Serializer is implemented by APIs whose message handler runs on a single
// thread of execution, such as one Lua state. Dispatched messages are then
// handled inline, one at a time, in arrival order.
type Serializer interface {
	SerializesMessages() bool
}

// PluginFunc adapts an activation function to Plugin.
type PluginFunc func(ctx context.Context, pctx *Context) (API, error)

// Activate implements Plugin.
func (f PluginFunc) Activate(ctx context.Context, pctx *Context) (API, error) {
	return f(ctx, pctx)
}

// HandlerFunc adapts a function to API.
type HandlerFunc func(ctx context.Context, env protocol.Envelope) error

// HandleWebviewMessage implements API.
func (f HandlerFunc) HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	return f(ctx, env)
}
