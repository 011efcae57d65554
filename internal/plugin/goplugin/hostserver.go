// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package goplugin

import (
	"context"
	"encoding/json"

	"github.com/samber/oops"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/extrpc"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
)

// hostServer answers host service calls from one extension process. Every
// call except PostMessage is gated by the extension's capabilities.
type hostServer struct {
	extensionv1.UnimplementedHostServer
	extension string
	enforcer  *capability.Enforcer
	pctx      *host.Context
}

var _ extensionv1.HostServer = (*hostServer)(nil)

func (s *hostServer) require(capName string) error {
	if err := s.enforcer.Require(s.extension, capName); err != nil {
		return extrpc.PermissionDenied(oops.Wrapf(err, "%s requires %s", s.extension, capName))
	}
	return nil
}

func internal(err error) error {
	return status.Error(codes.Internal, err.Error())
}

func (s *hostServer) PostMessage(ctx context.Context, req *extensionv1.Message) (*extensionv1.Empty, error) {
	if req.GetEnvelope().GetType() == "" {
		return nil, status.Error(codes.InvalidArgument, "message type is required")
	}
	if err := s.pctx.PostMessage(ctx, extrpc.FromProto(req.GetEnvelope())); err != nil {
		return nil, internal(err)
	}
	return &extensionv1.Empty{}, nil
}

func (s *hostServer) ShowMessage(ctx context.Context, req *extensionv1.ShowMessageRequest) (*extensionv1.Empty, error) {
	if err := s.require(capability.WindowNotify); err != nil {
		return nil, err
	}
	s.pctx.Window.ShowMessage(ctx, shim.ParseSeverity(req.GetSeverity()), req.GetText(), req.GetItems()...)
	return &extensionv1.Empty{}, nil
}

func (s *hostServer) GetSecret(ctx context.Context, req *extensionv1.KeyRequest) (*extensionv1.SecretValue, error) {
	if err := s.require(capability.SecretsRead); err != nil {
		return nil, err
	}
	v, ok, err := s.pctx.Secrets.Get(ctx, req.GetKey())
	if err != nil {
		return nil, internal(err)
	}
	return &extensionv1.SecretValue{Key: req.GetKey(), Value: v, Found: ok}, nil
}

func (s *hostServer) StoreSecret(ctx context.Context, req *extensionv1.SecretValue) (*extensionv1.Empty, error) {
	if err := s.require(capability.SecretsWrite); err != nil {
		return nil, err
	}
	if err := s.pctx.Secrets.Store(ctx, req.GetKey(), req.GetValue()); err != nil {
		return nil, internal(err)
	}
	return &extensionv1.Empty{}, nil
}

func (s *hostServer) DeleteSecret(ctx context.Context, req *extensionv1.KeyRequest) (*extensionv1.Empty, error) {
	if err := s.require(capability.SecretsWrite); err != nil {
		return nil, err
	}
	if err := s.pctx.Secrets.Delete(ctx, req.GetKey()); err != nil {
		return nil, internal(err)
	}
	return &extensionv1.Empty{}, nil
}

// memento resolves scope and checks the matching capability.
func (s *hostServer) memento(scope string, write bool) (shim.Memento, error) {
	var m shim.Memento
	var capName string
	switch shim.Scope(scope) {
	case shim.ScopeGlobal:
		m, capName = s.pctx.GlobalState, capability.GlobalStateRead
		if write {
			capName = capability.GlobalStateWrite
		}
	case shim.ScopeWorkspace:
		m, capName = s.pctx.WorkspaceState, capability.WorkspaceRead
		if write {
			capName = capability.WorkspaceWrite
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "scope must be 'global' or 'workspace', got %q", scope)
	}
	if err := s.require(capName); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *hostServer) GetState(_ context.Context, req *extensionv1.StateKeyRequest) (*extensionv1.Value, error) {
	m, err := s.memento(req.GetScope(), false)
	if err != nil {
		return nil, err
	}
	v, ok := m.Get(req.GetKey())
	return encodeValue(v, ok)
}

func (s *hostServer) UpdateState(ctx context.Context, req *extensionv1.StateUpdateRequest) (*extensionv1.Empty, error) {
	m, err := s.memento(req.GetScope(), true)
	if err != nil {
		return nil, err
	}
	var value any
	if len(req.GetValue()) > 0 {
		if err := json.Unmarshal(req.GetValue(), &value); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "decode state value: %v", err)
		}
	}
	if err := m.Update(ctx, req.GetKey(), value); err != nil {
		return nil, internal(err)
	}
	return &extensionv1.Empty{}, nil
}

func (s *hostServer) GetConfig(_ context.Context, req *extensionv1.KeyRequest) (*extensionv1.Value, error) {
	if err := s.require(capability.ConfigRead); err != nil {
		return nil, err
	}
	v, ok := s.pctx.Configuration.Get(req.GetKey())
	return encodeValue(v, ok)
}

func (s *hostServer) ExecuteCommand(ctx context.Context, req *extensionv1.CommandRequest) (*extensionv1.Value, error) {
	if err := s.require(capability.CommandsExecute); err != nil {
		return nil, err
	}
	args := make([]any, 0, len(req.GetArgs()))
	for _, raw := range req.GetArgs() {
		var a any
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "decode command argument: %v", err)
		}
		args = append(args, a)
	}
	out, err := s.pctx.Commands.Execute(ctx, req.GetId(), args...)
	if err != nil {
		return nil, internal(err)
	}
	return encodeValue(out, true)
}

func encodeValue(v any, found bool) (*extensionv1.Value, error) {
	if !found {
		return &extensionv1.Value{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, internal(err)
	}
	return &extensionv1.Value{Value: data, Found: true}, nil
}
