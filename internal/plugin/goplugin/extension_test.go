// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package goplugin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/plugin/goplugin"
	"github.com/holomush/exthost/pkg/pluginsdk"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
	"github.com/holomush/exthost/pkg/protocol"
)

// echo is an SDK extension used in place of a real process.
type echo struct {
	mu          sync.Mutex
	host        *pluginsdk.Host
	info        pluginsdk.ActivateInfo
	deactivated int
}

func (e *echo) Activate(_ context.Context, h *pluginsdk.Host, info pluginsdk.ActivateInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.host, e.info = h, info
	return nil
}

func (e *echo) Deactivate(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deactivated++
	return nil
}

func (e *echo) HandleMessage(ctx context.Context, env protocol.Envelope) error {
	e.mu.Lock()
	h := e.host
	e.mu.Unlock()

	switch env.Type {
	case "secret":
		v, _, err := h.Secret(ctx, "token")
		if err != nil {
			return err
		}
		return h.PostMessage(ctx, protocol.MustNew("secret", map[string]string{"value": v}))
	case "fail":
		return pluginsdk.Recoverable(errors.New("retry later"))
	case "crash":
		return errors.New("boom")
	default:
		return h.PostMessage(ctx, env)
	}
}

func (e *echo) State(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"ready":true}`), nil
}

// bufDialer connects to an in-process extension over bufconn.
type bufDialer struct {
	ext   pluginsdk.Extension
	mu    sync.Mutex
	dials int
	err   error
}

func (d *bufDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func bufClient(lis *bufconn.Listener) (*grpc.ClientConn, error) {
	return grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
}

func (d *bufDialer) Dial(context.Context, string) (goplugin.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	d.dials++

	c := &bufConn{hostLis: bufconn.Listen(1 << 20)}
	extLis := bufconn.Listen(1 << 20)
	c.extServer = grpc.NewServer()
	extensionv1.RegisterExtensionServer(c.extServer, pluginsdk.NewServer(d.ext, func(uint32) (grpc.ClientConnInterface, error) {
		return bufClient(c.hostLis)
	}))
	go func() { _ = c.extServer.Serve(extLis) }()

	cc, err := bufClient(extLis)
	if err != nil {
		c.extServer.Stop()
		return nil, err
	}
	c.cc = cc
	c.client = extensionv1.NewExtensionClient(cc)
	return c, nil
}

type bufConn struct {
	hostLis    *bufconn.Listener
	hostServer *grpc.Server
	extServer  *grpc.Server
	cc         *grpc.ClientConn
	client     extensionv1.ExtensionClient
}

func (c *bufConn) Extension() extensionv1.ExtensionClient { return c.client }

func (c *bufConn) ServeHost(register func(*grpc.Server)) uint32 {
	c.hostServer = grpc.NewServer()
	register(c.hostServer)
	go func() { _ = c.hostServer.Serve(c.hostLis) }()
	return 7
}

func (c *bufConn) Close() {
	_ = c.cc.Close()
	c.extServer.Stop()
	if c.hostServer != nil {
		c.hostServer.Stop()
	}
}

type recorder struct {
	mu       sync.Mutex
	messages []protocol.Envelope
	faults   []*host.Fault
}

func (r *recorder) listen(ev host.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch ev.Kind {
	case host.EventMessage:
		r.messages = append(r.messages, ev.Message)
	case host.EventFault:
		r.faults = append(r.faults, ev.Fault)
	}
}

func (r *recorder) snapshot() ([]protocol.Envelope, []*host.Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Envelope(nil), r.messages...), append([]*host.Fault(nil), r.faults...)
}

func writeBinaryBundle(t *testing.T, capabilities ...string) *plugin.Bundle {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "echo"), []byte("#!/bin/sh\n"), 0o700)) //nolint:gosec // test fixture
	return &plugin.Bundle{
		Dir: dir,
		Manifest: &plugin.Manifest{
			Name:         "echo",
			Version:      "1.0.0",
			Type:         plugin.TypeBinary,
			Capabilities: capabilities,
			Binary:       &plugin.BinaryConfig{Executable: "echo"},
		},
	}
}

type harness struct {
	ext    *echo
	dialer *bufDialer
	host   *host.Host
	rec    *recorder
}

func newHarness(t *testing.T, capabilities ...string) *harness {
	t.Helper()
	enforcer := capability.NewEnforcer()
	require.NoError(t, enforcer.SetGrants("echo", capabilities))

	ext := &echo{}
	dialer := &bufDialer{ext: ext}
	rt := goplugin.NewRuntime(enforcer, goplugin.WithDialer(dialer))
	p, err := rt.Load(context.Background(), writeBinaryBundle(t, capabilities...))
	require.NoError(t, err)

	h := host.New(p)
	rec := &recorder{}
	h.OnEvent(rec.listen)
	t.Cleanup(func() {
		_ = h.Dispose(context.Background())
		_ = rt.Close(context.Background())
	})
	return &harness{ext: ext, dialer: dialer, host: h, rec: rec}
}

func TestNewRuntime_PanicsWithoutEnforcer(t *testing.T) {
	assert.Panics(t, func() { goplugin.NewRuntime(nil) })
}

func TestRuntime_LoadErrors(t *testing.T) {
	rt := goplugin.NewRuntime(capability.NewEnforcer())
	ctx := context.Background()

	b := writeBinaryBundle(t)
	b.Manifest.Binary = nil
	_, err := rt.Load(ctx, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no binary section")

	b = writeBinaryBundle(t)
	b.Manifest.Binary.Executable = "missing"
	_, err = rt.Load(ctx, b)
	require.Error(t, err)

	b = writeBinaryBundle(t)
	b.Manifest.Binary.Executable = "."
	_, err = rt.Load(ctx, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")

	require.NoError(t, rt.Close(ctx))
	_, err = rt.Load(ctx, writeBinaryBundle(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestExtension_ActivateAndEcho(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.host.Activate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.dialer.count())
	assert.Equal(t, "echo", h.ext.info.ExtensionID)
	assert.Equal(t, h.host.Context().Identity.SessionID, h.ext.info.SessionID)

	env := protocol.MustNew("hello", map[string]string{"text": "hi"})
	require.NoError(t, h.host.SendWebviewMessage(ctx, env))

	messages, faults := h.rec.snapshot()
	assert.Empty(t, faults)
	require.Len(t, messages, 1)
	assert.Equal(t, env.Type, messages[0].Type)
	assert.JSONEq(t, `{"text":"hi"}`, string(messages[0].Payload))
}

func TestExtension_CapabilityGatedHostCalls(t *testing.T) {
	ctx := context.Background()

	denied := newHarness(t)
	_, err := denied.host.Activate(ctx)
	require.NoError(t, err)
	require.NoError(t, denied.host.SendWebviewMessage(ctx, protocol.Envelope{Type: "secret"}))
	_, faults := denied.rec.snapshot()
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0].Error(), "secrets.read")

	granted := newHarness(t, "secrets.read")
	_, err = granted.host.Activate(ctx)
	require.NoError(t, err)
	require.NoError(t, granted.host.Services().Secrets.Store(ctx, "token", "s3cret"))
	require.NoError(t, granted.host.SendWebviewMessage(ctx, protocol.Envelope{Type: "secret"}))
	messages, faults := granted.rec.snapshot()
	assert.Empty(t, faults)
	require.Len(t, messages, 1)
	assert.JSONEq(t, `{"value":"s3cret"}`, string(messages[0].Payload))
}

func TestExtension_ErrorsBecomeFaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.host.Activate(ctx)
	require.NoError(t, err)

	require.NoError(t, h.host.SendWebviewMessage(ctx, protocol.Envelope{Type: "fail"}))
	require.NoError(t, h.host.SendWebviewMessage(ctx, protocol.Envelope{Type: "crash"}))

	_, faults := h.rec.snapshot()
	require.Len(t, faults, 2)
	assert.True(t, faults[0].Recoverable)
	assert.Contains(t, faults[0].Error(), "retry later")
	assert.False(t, faults[1].Recoverable)
	assert.Contains(t, faults[1].Error(), "boom")
}

func TestExtension_OptionalAPI(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	api, err := h.host.Activate(ctx)
	require.NoError(t, err)

	state, err := api.(host.StateProvider).State(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ready":true}`, string(state))

	_, err = api.(host.TaskRunner).StartTask(ctx, "build", nil)
	assert.True(t, errors.Is(err, host.ErrNotImplemented))
	err = api.(host.TerminalHandler).HandleTerminalOperation(ctx, "clear", nil)
	assert.True(t, errors.Is(err, host.ErrNotImplemented))
}

func TestExtension_DeactivateEndsProcess(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.host.Activate(ctx)
	require.NoError(t, err)
	require.NoError(t, h.host.Deactivate(ctx))
	assert.Equal(t, 1, h.ext.deactivated)

	_, err = h.host.Activate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.dialer.count())
}

func TestExtension_DialFailure(t *testing.T) {
	h := newHarness(t)
	h.dialer.err = errors.New("exec format error")

	_, err := h.host.Activate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, host.ErrActivationFailed))
	assert.Contains(t, err.Error(), "exec format error")
	assert.Equal(t, host.PhaseInactive, h.host.Phase())
}
