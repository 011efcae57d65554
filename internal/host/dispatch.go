// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host

import (
	"context"
	"sync"
	"time"

	"github.com/holomush/exthost/pkg/protocol"
)

// handlerDrainTimeout bounds how long teardown waits for running message
// handlers after cancelling them.
const handlerDrainTimeout = 5 * time.Second

// handlerSet tracks the message handlers started during one activation.
type handlerSet struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func newHandlerSet() *handlerSet {
	ctx, cancel := context.WithCancel(context.Background())
	return &handlerSet{ctx: ctx, cancel: cancel}
}

// stop cancels running handlers and waits for them until ctx ends.
func (s *handlerSet) stop(ctx context.Context) bool {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// DispatchWebviewMessage hands env to the extension's message handler
// without waiting for it to finish, so a slow handler does not hold up
// later messages. Handlers start in call order. APIs implementing
// Serializer are handled inline instead. Handler contexts are cancelled
// when the activation ends. Faults are published as fault events; only
// precondition failures are returned.
func (h *Host) DispatchWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	h.mu.Lock()
	api, err := h.activeAPI(env)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	if s, ok := api.(Serializer); ok && s.SerializesMessages() {
		h.mu.Unlock()
		h.deliver(ctx, api, env)
		return nil
	}
	set := h.handlers
	set.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer set.wg.Done()
		hctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(set.ctx, cancel)
		defer stop()
		h.deliver(hctx, api, env)
	}()
	return nil
}

// stopHandlers cancels the handlers of an ending activation and waits a
// bounded time for them to return.
func (h *Host) stopHandlers(ctx context.Context, set *handlerSet) {
	if set == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, handlerDrainTimeout)
	defer cancel()
	if !set.stop(wctx) {
		h.logger.WarnContext(ctx, "message handlers still running after teardown")
	}
}
