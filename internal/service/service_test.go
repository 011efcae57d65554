// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/holomush/exthost/internal/bridge"
	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/service"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/errutil"
	"github.com/holomush/exthost/pkg/protocol"
)

func newService(t *testing.T, plugin host.Plugin, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(plugin, opts...)
	t.Cleanup(func() { _ = svc.Dispose(context.Background()) })
	return svc
}

func initialized(t *testing.T, plugin host.Plugin, opts ...service.Option) *service.Service {
	t.Helper()
	svc := newService(t, plugin, opts...)
	require.NoError(t, svc.Initialize(context.Background()))
	return svc
}

func TestService_InitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	var activations atomic.Int32
	ext := newFakeExtension()
	plugin := host.PluginFunc(func(ctx context.Context, pctx *host.Context) (host.API, error) {
		activations.Add(1)
		return ext.Activate(ctx, pctx)
	})
	svc := newService(t, plugin)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Initialize(ctx))
		assert.Equal(t, host.PhaseActivated, svc.Phase())
	}
	assert.Equal(t, int32(1), activations.Load())
}

func TestService_ReadyFiresOnceWithAPI(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	ext.state = json.RawMessage(`{"value":1}`)
	svc := newService(t, ext)

	var ready []host.API
	svc.On(service.EventReady, func(ev service.Event) { ready = append(ready, ev.API) })

	require.NoError(t, svc.Initialize(ctx))
	require.NoError(t, svc.Initialize(ctx))

	require.Len(t, ready, 1)
	assert.Same(t, svc.ExtensionAPI(), ready[0])
	assert.JSONEq(t, `{"value":1}`, string(svc.GetState(ctx)))
}

func TestService_SendBeforeInitialize(t *testing.T) {
	svc := newService(t, newFakeExtension())

	err := svc.SendWebviewMessage(context.Background(), protocol.Envelope{Type: protocol.TypeNewTask})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotInitialized))
	assert.False(t, errors.Is(err, service.ErrNotActivated))
	assert.False(t, errors.Is(err, service.ErrDisposed))
	errutil.AssertErrorCode(t, err, service.CodeNotInitialized)
	errutil.AssertErrorContext(t, err, "phase", "inactive")
}

func TestService_SendAfterFailedActivation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, host.PluginFunc(func(context.Context, *host.Context) (host.API, error) {
		return nil, errors.New("no api key")
	}))

	require.Error(t, svc.Initialize(ctx))

	err := svc.SendWebviewMessage(ctx, protocol.Envelope{Type: protocol.TypeNewTask})
	assert.True(t, errors.Is(err, service.ErrNotActivated))
	errutil.AssertErrorCode(t, err, service.CodeNotActivated)
}

func TestService_OperationsAfterDispose(t *testing.T) {
	ctx := context.Background()
	svc := initialized(t, newFakeExtension())
	require.NoError(t, svc.Dispose(ctx))

	err := svc.SendWebviewMessage(ctx, protocol.Envelope{Type: protocol.TypeNewTask})
	assert.True(t, errors.Is(err, service.ErrDisposed))
	errutil.AssertErrorCode(t, err, service.CodeDisposed)

	err = svc.Initialize(ctx)
	assert.True(t, errors.Is(err, service.ErrDisposed))

	_, err = svc.RequestSingleCompletion(ctx, "x", time.Second)
	assert.True(t, errors.Is(err, service.ErrDisposed))
}

func TestService_DisposeTwice(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()
	ext := newFakeExtension()
	ext.state = json.RawMessage(`{"value":1}`)
	svc := service.New(ext)
	require.NoError(t, svc.Initialize(ctx))

	var disposed int
	svc.On(service.EventDisposed, func(service.Event) { disposed++ })
	svc.On(service.EventMessage, func(service.Event) {})

	require.NoError(t, svc.Dispose(ctx))
	require.NoError(t, svc.Dispose(ctx))

	assert.Equal(t, 1, disposed)
	assert.Nil(t, svc.GetState(ctx))
	assert.Nil(t, svc.ExtensionAPI())
	for _, et := range service.EventTypes {
		assert.Equal(t, 0, svc.ListenerCount(et), "listeners for %s", et)
	}
	assert.Equal(t, host.PhaseDisposed, svc.Phase())
}

func TestService_GetStateBeforeInitialize(t *testing.T) {
	ext := newFakeExtension()
	ext.state = json.RawMessage(`{"value":1}`)
	svc := newService(t, ext)
	assert.Nil(t, svc.GetState(context.Background()))
}

func TestService_StateSnapshots(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	changes := make(chan json.RawMessage, 1)
	svc.On(service.EventStateChange, func(ev service.Event) { changes <- ev.State })

	require.NoError(t, ext.postState(ctx, `{"tasks":2}`))

	select {
	case state := <-changes:
		assert.JSONEq(t, `{"tasks":2}`, string(state))
	case <-time.After(time.Second):
		t.Fatal("no stateChange event")
	}
	assert.JSONEq(t, `{"tasks":2}`, string(svc.GetState(ctx)))
}

func TestService_CompletionResolves(t *testing.T) {
	ext := newFakeExtension()
	ext.autoReply = true
	svc := initialized(t, ext)

	text, err := svc.RequestSingleCompletion(context.Background(), "hello", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", text)
	assert.Equal(t, 0, svc.ListenerCount(service.EventMessage))
}

func TestService_CompletionTimeout(t *testing.T) {
	svc := initialized(t, newFakeExtension())
	before := svc.ListenerCount(service.EventMessage)

	start := time.Now()
	_, err := svc.RequestSingleCompletion(context.Background(), "hello", 100*time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCompletionTimeout))
	errutil.AssertErrorCode(t, err, service.CodeCompletionTimeout)
	assert.Contains(t, err.Error(), "timed out")
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 300*time.Millisecond)
	assert.Equal(t, before, svc.ListenerCount(service.EventMessage))
}

func TestService_CompletionFailure(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	go func() {
		req := <-ext.arrived
		_ = ext.complete(ctx, req.RequestID, "", "model unavailable")
	}()

	_, err := svc.RequestSingleCompletion(ctx, "hello", time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCompletionFailed))
	assert.Contains(t, err.Error(), "model unavailable")
	assert.Equal(t, 0, svc.ListenerCount(service.EventMessage))
}

func TestService_CompletionIgnoresOtherRequestIDs(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	go func() {
		req := <-ext.arrived
		_ = ext.complete(ctx, "someone-else", "WRONG", "")
		_ = ext.complete(ctx, req.RequestID, "RIGHT", "")
	}()

	text, err := svc.RequestSingleCompletion(ctx, "q", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "RIGHT", text)
}

func TestService_OverlappingCompletionsNeverSwap(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	var wg sync.WaitGroup
	var a, b string
	var errA, errB error
	wg.Add(2)
	go func() { defer wg.Done(); a, errA = svc.RequestSingleCompletion(ctx, "a", 2*time.Second) }()
	reqA := <-ext.arrived
	go func() { defer wg.Done(); b, errB = svc.RequestSingleCompletion(ctx, "b", 2*time.Second) }()
	reqB := <-ext.arrived

	require.NoError(t, ext.complete(ctx, reqB.RequestID, "B", ""))
	require.NoError(t, ext.complete(ctx, reqA.RequestID, "A", ""))
	wg.Wait()

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
}

func TestService_ConcurrentCompletionsOutOfOrder(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)
	const n = 20

	results := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.RequestSingleCompletion(ctx, fmt.Sprintf("prompt-%d", i), 5*time.Second)
		}(i)
	}

	reqs := make([]protocol.CompletionRequestPayload, 0, n)
	for len(reqs) < n {
		reqs = append(reqs, <-ext.arrived)
	}
	for i := len(reqs) - 1; i >= 0; i-- {
		require.NoError(t, ext.complete(ctx, reqs[i].RequestID, strings.ToUpper(reqs[i].Prompt), ""))
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("PROMPT-%d", i), results[i])
	}
	assert.Equal(t, 0, svc.ListenerCount(service.EventMessage))
}

func TestService_SlowCompletionDoesNotDelayLaterOnes(t *testing.T) {
	ctx := context.Background()
	svc := initialized(t, &pacedExtension{delay: 1500 * time.Millisecond})

	slow := make(chan string, 1)
	go func() {
		text, err := svc.RequestSingleCompletion(ctx, "slow", 3*time.Second)
		if err != nil {
			text = err.Error()
		}
		slow <- text
	}()
	time.Sleep(50 * time.Millisecond)

	text, err := svc.RequestSingleCompletion(ctx, "fast", 500*time.Millisecond)
	require.NoError(t, err, "a slow handler must not hold up later messages")
	assert.Equal(t, "FAST", text)

	select {
	case got := <-slow:
		assert.Equal(t, "SLOW", got)
	case <-time.After(3 * time.Second):
		t.Fatal("slow completion never resolved")
	}
}

func TestService_CompletionCanceledByDispose(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.RequestSingleCompletion(ctx, "slow", 10*time.Second)
		errCh <- err
	}()
	<-ext.arrived
	require.NoError(t, svc.Dispose(ctx))

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, service.ErrDisposed))
	case <-time.After(time.Second):
		t.Fatal("completion did not end on dispose")
	}
}

func TestService_CompletionDefaultTimeout(t *testing.T) {
	svc := initialized(t, newFakeExtension(), service.WithCompletionTimeout(50*time.Millisecond))
	_, err := svc.RequestSingleCompletion(context.Background(), "x", 0)
	assert.True(t, errors.Is(err, service.ErrCompletionTimeout))
}

func TestService_FaultEvents(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		event service.EventType
	}{
		{name: "fatal", err: errors.New("crash"), event: service.EventError},
		{name: "recoverable", err: host.MarkRecoverable(errors.New("retry later")), event: service.EventWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ext := newFakeExtension()
			ext.handleErr = tt.err
			svc := initialized(t, ext)

			got := make(chan *host.Fault, 1)
			svc.On(tt.event, func(ev service.Event) { got <- ev.Fault })

			require.NoError(t, svc.SendWebviewMessage(ctx, protocol.Envelope{Type: protocol.TypeNewTask}))

			select {
			case f := <-got:
				assert.Equal(t, host.FaultMessage, f.Context)
			case <-time.After(time.Second):
				t.Fatalf("no %s event", tt.event)
			}
			assert.Equal(t, host.PhaseActivated, svc.Phase(), "the service stays usable")
			assert.Equal(t, 1, svc.GetExtensionHealth().FaultCount)
		})
	}
}

func TestService_RequestRoundTrip(t *testing.T) {
	svc := initialized(t, newFakeExtension())

	result, err := svc.Request(context.Background(), protocol.Envelope{Type: protocol.TypeInvoke})
	require.NoError(t, err)
	assert.JSONEq(t, `"done"`, string(result))
	assert.Equal(t, 0, svc.GetExtensionHealth().PendingRequests)
}

func TestService_BridgeLimits(t *testing.T) {
	svc := initialized(t, newFakeExtension(), service.WithBridgeOptions(bridge.WithMaxPayloadBytes(16)))

	big := protocol.Envelope{Type: protocol.TypeInvoke, Payload: json.RawMessage(`{"invoke":"` + strings.Repeat("x", 32) + `"}`)}
	err := svc.SendWebviewMessage(context.Background(), big)
	require.ErrorIs(t, err, bridge.ErrPayloadTooLarge)
	errutil.AssertErrorCode(t, err, "BRIDGE_PAYLOAD_TOO_LARGE")

	assert.NoError(t, svc.SendWebviewMessage(context.Background(), protocol.Envelope{Type: protocol.TypeInvoke}))
}

func TestService_RejectedPostBecomesWarning(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext, service.WithBridgeOptions(bridge.WithMaxPayloadBytes(64)))

	got := make(chan *host.Fault, 1)
	svc.On(service.EventWarning, func(ev service.Event) { got <- ev.Fault })

	require.NoError(t, ext.postState(ctx, `{"log":"`+strings.Repeat("x", 128)+`"}`))

	select {
	case f := <-got:
		assert.Equal(t, host.FaultPost, f.Context)
		assert.True(t, f.Recoverable)
		assert.ErrorIs(t, f, bridge.ErrPayloadTooLarge)
	case <-time.After(time.Second):
		t.Fatal("no warning event")
	}
	assert.Equal(t, 1, svc.GetExtensionHealth().FaultCount)

	// posts after disposal are not faults
	require.NoError(t, svc.Dispose(ctx))
	_ = ext.postState(ctx, `{}`)
	assert.Equal(t, 1, svc.GetExtensionHealth().FaultCount)
}

func TestService_MessagesReachListenersInOrder(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	svc.On(service.EventMessage, func(ev service.Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, string(ev.Message.Payload))
		if len(got) == 10 {
			close(done)
		}
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, ext.postState(ctx, fmt.Sprintf(`{"n":%d}`, i)))
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("messages not delivered")
	}
	for i, p := range got {
		assert.JSONEq(t, fmt.Sprintf(`{"state":{"n":%d}}`, i), p)
	}
}

func TestService_NotificationsFromWindow(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	var got []shim.Notification
	svc.On(service.EventNotification, func(ev service.Event) { got = append(got, *ev.Notification) })

	svc.Services().Window.ShowMessage(ctx, shim.SeverityWarning, "quota low")

	require.Len(t, got, 1)
	assert.Equal(t, shim.SeverityWarning, got[0].Severity)
	assert.Equal(t, "quota low", got[0].Message)
}

func TestService_ActivationRetry(t *testing.T) {
	var attempts atomic.Int32
	ext := newFakeExtension()
	plugin := host.PluginFunc(func(ctx context.Context, pctx *host.Context) (host.API, error) {
		if attempts.Add(1) < 3 {
			return nil, host.MarkRecoverable(errors.New("provider warming up"))
		}
		return ext.Activate(ctx, pctx)
	})
	svc := newService(t, plugin, service.WithActivationRetry(5, time.Millisecond))

	require.NoError(t, svc.Initialize(context.Background()))
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, host.PhaseActivated, svc.Phase())
}

func TestService_ActivationRetryStopsOnFatal(t *testing.T) {
	var attempts atomic.Int32
	plugin := host.PluginFunc(func(context.Context, *host.Context) (host.API, error) {
		attempts.Add(1)
		return nil, errors.New("bad bundle")
	})
	svc := newService(t, plugin, service.WithActivationRetry(5, time.Millisecond))

	require.Error(t, svc.Initialize(context.Background()))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestService_ExecuteCommand(t *testing.T) {
	ctx := context.Background()
	ext := newFakeExtension()
	svc := initialized(t, ext)

	_, err := svc.Services().Commands.Register("exthost.ping", func(context.Context, ...any) (any, error) {
		return "pong", nil
	})
	require.NoError(t, err)

	got, err := svc.ExecuteCommand(ctx, "exthost.ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.Contains(t, svc.GetExtensionHealth().Commands, "exthost.ping")
}

func TestService_TaskFallsBackToMessages(t *testing.T) {
	ctx := context.Background()
	received := make(chan protocol.Envelope, 2)
	plugin := host.PluginFunc(func(context.Context, *host.Context) (host.API, error) {
		return host.HandlerFunc(func(_ context.Context, env protocol.Envelope) error {
			received <- env
			return nil
		}), nil
	})
	svc := initialized(t, plugin)

	_, err := svc.StartTask(ctx, "write tests", nil)
	require.NoError(t, err)
	require.NoError(t, svc.CancelTask(ctx, ""))

	assert.Equal(t, protocol.TypeNewTask, (<-received).Type)
	assert.Equal(t, protocol.TypeCancelTask, (<-received).Type)

	err = svc.TerminalOperation(ctx, "addToChat", nil)
	assert.True(t, errors.Is(err, service.ErrUnsupported))
}

func TestService_Health(t *testing.T) {
	svc := newService(t, newFakeExtension())

	h := svc.GetExtensionHealth()
	assert.Equal(t, "inactive", h.Phase)
	assert.False(t, h.Ready)
	assert.Error(t, svc.Ready())
	assert.NoError(t, svc.Live())

	require.NoError(t, svc.Initialize(context.Background()))
	h = svc.GetExtensionHealth()
	assert.Equal(t, "activated", h.Phase)
	assert.True(t, h.Ready)
	assert.NotNil(t, h.ActivatedAt)
	assert.NotEmpty(t, h.Identity["sessionId"])
	assert.NoError(t, svc.Ready())

	require.NoError(t, svc.Dispose(context.Background()))
	h = svc.GetExtensionHealth()
	assert.True(t, h.Disposed)
	assert.Error(t, svc.Live())
}

func TestService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := newFakeExtension()
	ext.autoReply = true
	svc := initialized(t, ext, service.WithRegisterer(reg))

	_, err := svc.RequestSingleCompletion(context.Background(), "hi", time.Second)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	counters := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			key := f.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			counters[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counters["exthost_completions_total/success"])
	assert.Equal(t, float64(1), counters["exthost_activations_total/success"])
	assert.Equal(t, float64(1), counters["exthost_messages_total/inbound/singleCompletionRequest"])
	assert.Equal(t, float64(1), counters["exthost_messages_total/outbound/singleCompletionResult"])
}
