// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pluginsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/holomush/exthost/pkg/extrpc"
	"github.com/holomush/exthost/pkg/pluginsdk"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
	"github.com/holomush/exthost/pkg/protocol"
)

// fakeHost is an in-memory host service.
type fakeHost struct {
	extensionv1.UnimplementedHostServer
	posted  []protocol.Envelope
	shown   []string
	secrets map[string]string
	state   map[string]json.RawMessage
	config  map[string]json.RawMessage
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		secrets: map[string]string{},
		state:   map[string]json.RawMessage{},
		config:  map[string]json.RawMessage{"echo.greeting": json.RawMessage(`"hello"`)},
	}
}

func (h *fakeHost) PostMessage(_ context.Context, r *extensionv1.Message) (*extensionv1.Empty, error) {
	h.posted = append(h.posted, extrpc.FromProto(r.GetEnvelope()))
	return &extensionv1.Empty{}, nil
}

func (h *fakeHost) ShowMessage(_ context.Context, r *extensionv1.ShowMessageRequest) (*extensionv1.Empty, error) {
	h.shown = append(h.shown, r.GetSeverity()+":"+r.GetText())
	return &extensionv1.Empty{}, nil
}

func (h *fakeHost) GetSecret(_ context.Context, r *extensionv1.KeyRequest) (*extensionv1.SecretValue, error) {
	v, ok := h.secrets[r.GetKey()]
	return &extensionv1.SecretValue{Key: r.GetKey(), Value: v, Found: ok}, nil
}

func (h *fakeHost) StoreSecret(_ context.Context, r *extensionv1.SecretValue) (*extensionv1.Empty, error) {
	h.secrets[r.GetKey()] = r.GetValue()
	return &extensionv1.Empty{}, nil
}

func (h *fakeHost) DeleteSecret(_ context.Context, r *extensionv1.KeyRequest) (*extensionv1.Empty, error) {
	if r.GetKey() == "locked" {
		return nil, extrpc.PermissionDenied(errors.New("secrets.write denied"))
	}
	delete(h.secrets, r.GetKey())
	return &extensionv1.Empty{}, nil
}

func (h *fakeHost) GetState(_ context.Context, r *extensionv1.StateKeyRequest) (*extensionv1.Value, error) {
	v, ok := h.state[r.GetScope()+"/"+r.GetKey()]
	return &extensionv1.Value{Value: v, Found: ok}, nil
}

func (h *fakeHost) UpdateState(_ context.Context, r *extensionv1.StateUpdateRequest) (*extensionv1.Empty, error) {
	if len(r.GetValue()) == 0 {
		delete(h.state, r.GetScope()+"/"+r.GetKey())
	} else {
		h.state[r.GetScope()+"/"+r.GetKey()] = r.GetValue()
	}
	return &extensionv1.Empty{}, nil
}

func (h *fakeHost) GetConfig(_ context.Context, r *extensionv1.KeyRequest) (*extensionv1.Value, error) {
	v, ok := h.config[r.GetKey()]
	return &extensionv1.Value{Value: v, Found: ok}, nil
}

func (h *fakeHost) ExecuteCommand(_ context.Context, r *extensionv1.CommandRequest) (*extensionv1.Value, error) {
	var sum float64
	for _, a := range r.GetArgs() {
		var n float64
		if err := json.Unmarshal(a, &n); err != nil {
			return nil, err
		}
		sum += n
	}
	out, _ := json.Marshal(sum)
	return &extensionv1.Value{Value: out, Found: true}, nil
}

// minimal implements only the required Extension methods.
type minimal struct {
	host *pluginsdk.Host
	info pluginsdk.ActivateInfo
}

func (m *minimal) Activate(_ context.Context, h *pluginsdk.Host, info pluginsdk.ActivateInfo) error {
	if info.ExtensionID == "" {
		return errors.New("extension id missing")
	}
	m.host, m.info = h, info
	return nil
}

func (m *minimal) HandleMessage(_ context.Context, env protocol.Envelope) error {
	if env.Type == "retry" {
		return pluginsdk.Recoverable(errors.New("busy"))
	}
	return nil
}

func listen(t *testing.T, register func(*grpc.Server)) *bufconn.Listener {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	register(s)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)
	return lis
}

func connect(t *testing.T, lis *bufconn.Listener) *grpc.ClientConn {
	t.Helper()
	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })
	return cc
}

// activate serves ext and fake host over bufconn and activates ext.
func activate(t *testing.T, ext pluginsdk.Extension) (extensionv1.ExtensionClient, *fakeHost) {
	t.Helper()
	fh := newFakeHost()
	hostLis := listen(t, func(s *grpc.Server) { extensionv1.RegisterHostServer(s, fh) })

	var dialed uint32
	extLis := listen(t, func(s *grpc.Server) {
		extensionv1.RegisterExtensionServer(s, pluginsdk.NewServer(ext, func(id uint32) (grpc.ClientConnInterface, error) {
			dialed = id
			return connect(t, hostLis), nil
		}))
	})
	client := extensionv1.NewExtensionClient(connect(t, extLis))

	_, err := client.Activate(context.Background(), &extensionv1.ActivateRequest{
		ExtensionId:  "holomush.echo",
		SessionId:    "session-1",
		AppName:      "exthost",
		HostBrokerId: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), dialed)
	return client, fh
}

func TestServe_PanicsWithoutExtension(t *testing.T) {
	assert.Panics(t, func() { pluginsdk.Serve(nil) })
}

func TestGRPCPlugin_ServerRequiresImpl(t *testing.T) {
	p := &pluginsdk.GRPCPlugin{}
	err := p.GRPCServer(nil, grpc.NewServer())
	require.Error(t, err)
}

func TestRecoverable(t *testing.T) {
	assert.NoError(t, pluginsdk.Recoverable(nil))
	base := errors.New("busy")
	err := pluginsdk.Recoverable(base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "busy", err.Error())
}

func TestServer_ActivatePassesInfo(t *testing.T) {
	ext := &minimal{}
	activate(t, ext)
	assert.Equal(t, "holomush.echo", ext.info.ExtensionID)
	assert.Equal(t, "session-1", ext.info.SessionID)
	assert.Equal(t, "exthost", ext.info.AppName)
	require.NotNil(t, ext.host)
}

func TestServer_ActivateFailure(t *testing.T) {
	hostLis := listen(t, func(s *grpc.Server) { extensionv1.RegisterHostServer(s, newFakeHost()) })
	extLis := listen(t, func(s *grpc.Server) {
		extensionv1.RegisterExtensionServer(s, pluginsdk.NewServer(&minimal{}, func(uint32) (grpc.ClientConnInterface, error) {
			return connect(t, hostLis), nil
		}))
	})
	client := extensionv1.NewExtensionClient(connect(t, extLis))

	_, err := client.Activate(context.Background(), &extensionv1.ActivateRequest{})
	require.Error(t, err)
	assert.Equal(t, "extension id missing", extrpc.ErrorMessage(err))
}

func TestServer_DialFailure(t *testing.T) {
	extLis := listen(t, func(s *grpc.Server) {
		extensionv1.RegisterExtensionServer(s, pluginsdk.NewServer(&minimal{}, func(uint32) (grpc.ClientConnInterface, error) {
			return nil, errors.New("no broker")
		}))
	})
	client := extensionv1.NewExtensionClient(connect(t, extLis))

	_, err := client.Activate(context.Background(), &extensionv1.ActivateRequest{ExtensionId: "x"})
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestServer_OptionalInterfacesUnimplemented(t *testing.T) {
	client, _ := activate(t, &minimal{})
	ctx := context.Background()

	_, err := client.GetState(ctx, &extensionv1.Empty{})
	assert.True(t, extrpc.IsUnimplemented(err))
	_, err = client.StartTask(ctx, &extensionv1.StartTaskRequest{Text: "x"})
	assert.True(t, extrpc.IsUnimplemented(err))
	_, err = client.CancelTask(ctx, &extensionv1.CancelTaskRequest{TaskId: "x"})
	assert.True(t, extrpc.IsUnimplemented(err))
	_, err = client.TerminalOperation(ctx, &extensionv1.TerminalRequest{Op: "clear"})
	assert.True(t, extrpc.IsUnimplemented(err))

	// Deactivate without a Deactivator succeeds
	_, err = client.Deactivate(ctx, &extensionv1.Empty{})
	assert.NoError(t, err)
}

func TestServer_RecoverableErrors(t *testing.T) {
	client, _ := activate(t, &minimal{})
	ctx := context.Background()

	_, err := client.HandleMessage(ctx, extrpc.NewMessage(protocol.Envelope{Type: "retry"}))
	require.Error(t, err)
	assert.True(t, extrpc.IsRecoverable(err))
	assert.Equal(t, "busy", extrpc.ErrorMessage(err))

	_, err = client.HandleMessage(ctx, extrpc.NewMessage(protocol.Envelope{Type: "ok"}))
	assert.NoError(t, err)
}

func TestHost_Services(t *testing.T) {
	ext := &minimal{}
	_, fh := activate(t, ext)
	ctx := context.Background()
	h := ext.host

	require.NoError(t, h.PostMessage(ctx, protocol.Envelope{Type: "state"}))
	require.Len(t, fh.posted, 1)

	require.NoError(t, h.ShowMessage(ctx, "warning", "careful"))
	assert.Equal(t, []string{"warning:careful"}, fh.shown)

	require.NoError(t, h.StoreSecret(ctx, "token", "abc"))
	v, ok, err := h.Secret(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	require.NoError(t, h.DeleteSecret(ctx, "token"))
	_, ok, err = h.Secret(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	err = h.DeleteSecret(ctx, "locked")
	require.Error(t, err)
	assert.True(t, extrpc.IsPermissionDenied(err))

	require.NoError(t, h.UpdateState(ctx, "global", "count", map[string]int{"n": 2}))
	var state struct{ N int }
	ok, err = h.State(ctx, "global", "count", &state)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, state.N)
	require.NoError(t, h.UpdateState(ctx, "global", "count", nil))
	ok, err = h.State(ctx, "global", "count", &state)
	require.NoError(t, err)
	assert.False(t, ok)

	var greeting string
	ok, err = h.Config(ctx, "echo.greeting", &greeting)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", greeting)

	var sum float64
	require.NoError(t, h.ExecuteCommand(ctx, "math.sum", &sum, 1, 2, 3.5))
	assert.InDelta(t, 6.5, sum, 0.001)
}
