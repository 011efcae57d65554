// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/pkg/protocol"
)

// fakeExtension is a Go extension that records completion requests and lets
// the test decide when and how to answer them.
type fakeExtension struct {
	mu        sync.Mutex
	pctx      *host.Context
	requests  []protocol.CompletionRequestPayload
	arrived   chan protocol.CompletionRequestPayload
	handleErr error
	state     json.RawMessage
	autoReply bool
	invokes   int
}

func newFakeExtension() *fakeExtension {
	return &fakeExtension{arrived: make(chan protocol.CompletionRequestPayload, 64)}
}

func (f *fakeExtension) Activate(_ context.Context, pctx *host.Context) (host.API, error) {
	f.mu.Lock()
	f.pctx = pctx
	f.mu.Unlock()
	if f.state != nil {
		return &stateAPI{fakeExtension: f}, nil
	}
	return f, nil
}

func (f *fakeExtension) HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	if f.handleErr != nil {
		return f.handleErr
	}
	switch env.Type {
	case protocol.TypeSingleCompletionRequest:
		p, err := env.Decode()
		if err != nil {
			return err
		}
		req := *p.(*protocol.CompletionRequestPayload)
		f.mu.Lock()
		f.requests = append(f.requests, req)
		auto := f.autoReply
		f.mu.Unlock()
		if auto {
			return f.complete(ctx, req.RequestID, strings.ToUpper(req.Prompt), "")
		}
		f.arrived <- req
	case protocol.TypeInvoke:
		f.mu.Lock()
		f.invokes++
		f.mu.Unlock()
		if env.IsRequest() {
			resp := protocol.MustNew(protocol.TypeResponse, protocol.ResponsePayload{Result: json.RawMessage(`"done"`)})
			resp.ID = env.ID
			return f.pctx.PostMessage(ctx, resp)
		}
	}
	return nil
}

// complete posts a completion result for requestID.
func (f *fakeExtension) complete(ctx context.Context, requestID, text, errText string) error {
	res := protocol.CompletionResultPayload{RequestID: requestID, Success: errText == "", Text: text, Error: errText}
	return f.pctx.PostMessage(ctx, protocol.MustNew(protocol.TypeSingleCompletionResult, res))
}

func (f *fakeExtension) postState(ctx context.Context, state string) error {
	return f.pctx.PostMessage(ctx, protocol.MustNew(protocol.TypeState, protocol.StatePayload{State: json.RawMessage(state)}))
}

// stateAPI adds a live state provider.
type stateAPI struct {
	*fakeExtension
}

func (a *stateAPI) State(context.Context) (json.RawMessage, error) {
	return a.state, nil
}

// pacedExtension answers completions itself and takes its time on the
// prompt "slow".
type pacedExtension struct {
	delay time.Duration
	pctx  *host.Context
}

func (p *pacedExtension) Activate(_ context.Context, pctx *host.Context) (host.API, error) {
	p.pctx = pctx
	return p, nil
}

func (p *pacedExtension) HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	if env.Type != protocol.TypeSingleCompletionRequest {
		return nil
	}
	v, err := env.Decode()
	if err != nil {
		return err
	}
	req := v.(*protocol.CompletionRequestPayload)
	if req.Prompt == "slow" {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	res := protocol.CompletionResultPayload{RequestID: req.RequestID, Success: true, Text: strings.ToUpper(req.Prompt)}
	return p.pctx.PostMessage(ctx, protocol.MustNew(protocol.TypeSingleCompletionResult, res))
}
