// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package goplugin

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/samber/oops"
	"google.golang.org/grpc"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/pkg/extrpc"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
	"github.com/holomush/exthost/pkg/protocol"
)

// Compile-time interface checks.
var (
	_ host.Plugin          = (*Extension)(nil)
	_ host.Deactivator     = (*Extension)(nil)
	_ host.StateProvider   = (*extensionAPI)(nil)
	_ host.TaskRunner      = (*extensionAPI)(nil)
	_ host.TerminalHandler = (*extensionAPI)(nil)
)

// Extension is a binary extension. Each activation starts a fresh process
// and each deactivation ends it.
type Extension struct {
	id       string
	execPath string
	dialer   Dialer
	enforcer *capability.Enforcer
	logger   *slog.Logger

	mu   sync.Mutex
	conn Conn
}

// ID returns the extension id.
func (e *Extension) ID() string { return e.id }

// Activate implements host.Plugin.
func (e *Extension) Activate(ctx context.Context, pctx *host.Context) (host.API, error) {
	errb := oops.In("goplugin").With("extension", e.id).With("operation", "activate")

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		return nil, errb.New("extension process already running")
	}

	conn, err := e.dialer.Dial(ctx, e.execPath)
	if err != nil {
		return nil, errb.Wrap(err)
	}
	hs := &hostServer{extension: e.id, enforcer: e.enforcer, pctx: pctx}
	brokerID := conn.ServeHost(func(s *grpc.Server) {
		extensionv1.RegisterHostServer(s, hs)
	})

	req := &extensionv1.ActivateRequest{
		ExtensionId:   e.id,
		SessionId:     pctx.Identity.SessionID,
		MachineId:     pctx.Identity.MachineID,
		AppName:       pctx.Identity.AppName,
		AppVersion:    pctx.Identity.AppVersion,
		WorkspaceRoot: pctx.WorkspaceRoot.String(),
		ExtensionRoot: pctx.ExtensionRoot.String(),
		HostBrokerId:  brokerID,
	}
	if _, err := conn.Extension().Activate(ctx, req); err != nil {
		conn.Close()
		return nil, errb.Wrap(remoteError(err))
	}
	e.conn = conn
	e.logger.Debug("extension process activated", "path", e.execPath)
	return &extensionAPI{client: conn.Extension()}, nil
}

// Deactivate implements host.Deactivator. The process is ended even when
// the extension's own teardown fails.
func (e *Extension) Deactivate(ctx context.Context) error {
	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.mu.Unlock()
	if conn == nil {
		return nil
	}
	defer conn.Close()

	if _, err := conn.Extension().Deactivate(ctx, &extensionv1.Empty{}); err != nil {
		return oops.In("goplugin").With("extension", e.id).With("operation", "deactivate").Wrap(remoteError(err))
	}
	return nil
}

func (e *Extension) kill() {
	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// remoteError maps an extension status to a host error.
func remoteError(err error) error {
	switch {
	case extrpc.IsUnimplemented(err):
		return oops.Wrapf(host.ErrNotImplemented, "%s", extrpc.ErrorMessage(err))
	case extrpc.IsRecoverable(err):
		return host.MarkRecoverable(oops.New(extrpc.ErrorMessage(err)))
	default:
		return oops.New(extrpc.ErrorMessage(err))
	}
}

type extensionAPI struct {
	client extensionv1.ExtensionClient
}

func (a *extensionAPI) HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	if _, err := a.client.HandleMessage(ctx, extrpc.NewMessage(env)); err != nil {
		return remoteError(err)
	}
	return nil
}

func (a *extensionAPI) State(ctx context.Context) (json.RawMessage, error) {
	resp, err := a.client.GetState(ctx, &extensionv1.Empty{})
	if err != nil {
		return nil, remoteError(err)
	}
	return resp.GetState(), nil
}

func (a *extensionAPI) StartTask(ctx context.Context, text string, images []string) (string, error) {
	resp, err := a.client.StartTask(ctx, &extensionv1.StartTaskRequest{Text: text, Images: images})
	if err != nil {
		return "", remoteError(err)
	}
	return resp.GetTaskId(), nil
}

func (a *extensionAPI) CancelTask(ctx context.Context, taskID string) error {
	if _, err := a.client.CancelTask(ctx, &extensionv1.CancelTaskRequest{TaskId: taskID}); err != nil {
		return remoteError(err)
	}
	return nil
}

func (a *extensionAPI) HandleTerminalOperation(ctx context.Context, op string, args json.RawMessage) error {
	if _, err := a.client.TerminalOperation(ctx, &extensionv1.TerminalRequest{Op: op, Args: args}); err != nil {
		return remoteError(err)
	}
	return nil
}
