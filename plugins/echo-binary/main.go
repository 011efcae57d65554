// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Command echo-binary is an exthost extension running as its own process.
// It echoes webview messages back and completes prompts with a prefix.
package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/holomush/exthost/pkg/pluginsdk"
	"github.com/holomush/exthost/pkg/protocol"
)

type echo struct {
	mu    sync.Mutex
	host  *pluginsdk.Host
	count int
}

func (e *echo) Activate(ctx context.Context, host *pluginsdk.Host, info pluginsdk.ActivateInfo) error {
	e.mu.Lock()
	e.host = host
	e.mu.Unlock()
	return host.ShowMessage(ctx, "info", "echo-binary activated for session "+info.SessionID)
}

func (e *echo) HandleMessage(ctx context.Context, env protocol.Envelope) error {
	if env.Type == protocol.TypeSingleCompletionRequest {
		return e.complete(ctx, env)
	}

	e.mu.Lock()
	e.count++
	count := e.count
	e.mu.Unlock()

	state, err := protocol.New(protocol.TypeState, map[string]any{
		"state": map[string]any{"count": count, "last": env.Type},
	})
	if err != nil {
		return err
	}
	return e.host.PostMessage(ctx, state)
}

func (e *echo) complete(ctx context.Context, env protocol.Envelope) error {
	p, err := env.Decode()
	if err != nil {
		return pluginsdk.Recoverable(err)
	}
	req := p.(*protocol.CompletionRequestPayload)

	prefix := "echo: "
	if _, err := e.host.Config(ctx, "echo.prefix", &prefix); err != nil {
		return err
	}
	return e.host.PostMessage(ctx, protocol.MustNew(protocol.TypeSingleCompletionResult, protocol.CompletionResultPayload{
		RequestID: req.RequestID,
		Success:   true,
		Text:      prefix + req.Prompt,
	}))
}

func (e *echo) State(context.Context) (json.RawMessage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return json.Marshal(map[string]int{"count": e.count})
}

func main() {
	pluginsdk.Serve(&echo{})
}
