// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/pkg/protocol"
)

// blockingAPI holds "slow" messages until released or cancelled.
type blockingAPI struct {
	release  chan struct{}
	handled  chan string
	canceled chan string
	serial   bool

	mu      sync.Mutex
	running int
	peak    int
}

func newBlockingAPI() *blockingAPI {
	return &blockingAPI{
		release:  make(chan struct{}),
		handled:  make(chan string, 16),
		canceled: make(chan string, 16),
	}
}

func (a *blockingAPI) SerializesMessages() bool { return a.serial }

func (a *blockingAPI) HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	a.mu.Lock()
	a.running++
	a.peak = max(a.peak, a.running)
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running--
		a.mu.Unlock()
	}()

	if env.Type == "slow" {
		select {
		case <-a.release:
		case <-ctx.Done():
			a.canceled <- string(env.Type)
			return ctx.Err()
		}
	}
	a.handled <- string(env.Type)
	return nil
}

func activated(t *testing.T, api host.API) *host.Host {
	t.Helper()
	h := host.New(&stubPlugin{api: api})
	t.Cleanup(func() { _ = h.Dispose(context.Background()) })
	_, err := h.Activate(context.Background())
	require.NoError(t, err)
	return h
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("handler did not run")
		return ""
	}
}

func TestHost_DispatchSlowHandlerDoesNotBlockLaterMessages(t *testing.T) {
	ctx := context.Background()
	api := newBlockingAPI()
	h := activated(t, api)

	require.NoError(t, h.DispatchWebviewMessage(ctx, protocol.Envelope{Type: "slow"}))
	require.NoError(t, h.DispatchWebviewMessage(ctx, protocol.Envelope{Type: "fast"}))

	assert.Equal(t, "fast", receive(t, api.handled), "fast finishes while slow is still running")
	close(api.release)
	assert.Equal(t, "slow", receive(t, api.handled))
}

func TestHost_DispatchSerializedAPIRunsInline(t *testing.T) {
	ctx := context.Background()
	api := newBlockingAPI()
	api.serial = true
	h := activated(t, api)

	for _, typ := range []protocol.MessageType{"a", "b", "c"} {
		require.NoError(t, h.DispatchWebviewMessage(ctx, protocol.Envelope{Type: typ}))
	}
	require.Len(t, api.handled, 3, "serialized handlers finish before dispatch returns")
	assert.Equal(t, "a", <-api.handled)
	assert.Equal(t, "b", <-api.handled)
	assert.Equal(t, "c", <-api.handled)
	assert.Equal(t, 1, api.peak)
}

func TestHost_DispatchRequiresActivation(t *testing.T) {
	h := host.New(&stubPlugin{api: newBlockingAPI()})
	err := h.DispatchWebviewMessage(context.Background(), protocol.Envelope{Type: "fast"})
	assert.True(t, errors.Is(err, host.ErrNotActivated))

	require.NoError(t, h.Dispose(context.Background()))
	err = h.DispatchWebviewMessage(context.Background(), protocol.Envelope{Type: "fast"})
	assert.True(t, errors.Is(err, host.ErrDisposed))
}

func TestHost_DeactivateCancelsRunningHandlers(t *testing.T) {
	ctx := context.Background()
	api := newBlockingAPI()
	plugin := &stubPlugin{api: api}
	h := host.New(plugin)
	t.Cleanup(func() { _ = h.Dispose(ctx) })
	_, err := h.Activate(ctx)
	require.NoError(t, err)

	require.NoError(t, h.DispatchWebviewMessage(ctx, protocol.Envelope{Type: "slow"}))
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.running == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Deactivate(ctx))
	assert.Equal(t, "slow", receive(t, api.canceled))
	assert.Equal(t, int32(1), plugin.deactivations.Load())

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Zero(t, api.running, "deactivate waits for cancelled handlers")
}

func TestHost_DispatchHandlerFaultBecomesEvent(t *testing.T) {
	ctx := context.Background()
	h := activated(t, &stubAPI{err: errors.New("bad")})

	faults := make(chan *host.Fault, 1)
	h.OnEvent(func(ev host.Event) {
		if ev.Kind == host.EventFault {
			faults <- ev.Fault
		}
	})
	require.NoError(t, h.DispatchWebviewMessage(ctx, protocol.Envelope{Type: protocol.TypeNewTask}))

	select {
	case f := <-faults:
		assert.Equal(t, host.FaultMessage, f.Context)
	case <-time.After(time.Second):
		t.Fatal("no fault event")
	}
}
