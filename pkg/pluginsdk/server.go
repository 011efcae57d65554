// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pluginsdk

import (
	"context"
	"errors"
	"io"
	"sync"

	hashiplug "github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/holomush/exthost/pkg/extrpc"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
)

// HostDialer connects to the host service announced in ActivateRequest.
type HostDialer func(brokerID uint32) (grpc.ClientConnInterface, error)

// BrokerDialer dials the host service over a go-plugin broker.
func BrokerDialer(broker *hashiplug.GRPCBroker) HostDialer {
	return func(id uint32) (grpc.ClientConnInterface, error) {
		return broker.Dial(id)
	}
}

// NewServer adapts ext to the extension gRPC service. Optional interfaces
// ext does not implement answer with codes.Unimplemented.
func NewServer(ext Extension, dial HostDialer) extensionv1.ExtensionServer {
	return &server{ext: ext, dial: dial}
}

type server struct {
	extensionv1.UnimplementedExtensionServer
	ext  Extension
	dial HostDialer

	mu   sync.Mutex
	conn grpc.ClientConnInterface
}

// toStatus converts an extension error to a status the host understands.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var rec recoverableError
	if errors.As(err, &rec) {
		return extrpc.Recoverable(err)
	}
	return status.Error(codes.Unknown, err.Error())
}

func (s *server) Activate(ctx context.Context, req *extensionv1.ActivateRequest) (*extensionv1.Empty, error) {
	conn, err := s.dial(req.GetHostBrokerId())
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "dial host service: %v", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	info := ActivateInfo{
		ExtensionID:   req.GetExtensionId(),
		SessionID:     req.GetSessionId(),
		MachineID:     req.GetMachineId(),
		AppName:       req.GetAppName(),
		AppVersion:    req.GetAppVersion(),
		WorkspaceRoot: req.GetWorkspaceRoot(),
		ExtensionRoot: req.GetExtensionRoot(),
	}
	if err := s.ext.Activate(ctx, &Host{client: extensionv1.NewHostClient(conn)}, info); err != nil {
		s.closeConn()
		return nil, toStatus(err)
	}
	return &extensionv1.Empty{}, nil
}

func (s *server) Deactivate(ctx context.Context, _ *extensionv1.Empty) (*extensionv1.Empty, error) {
	defer s.closeConn()
	if d, ok := s.ext.(Deactivator); ok {
		if err := d.Deactivate(ctx); err != nil {
			return nil, toStatus(err)
		}
	}
	return &extensionv1.Empty{}, nil
}

func (s *server) closeConn() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if c, ok := conn.(io.Closer); ok {
		_ = c.Close()
	}
}

func (s *server) HandleMessage(ctx context.Context, req *extensionv1.Message) (*extensionv1.Empty, error) {
	if err := s.ext.HandleMessage(ctx, extrpc.FromProto(req.GetEnvelope())); err != nil {
		return nil, toStatus(err)
	}
	return &extensionv1.Empty{}, nil
}

func (s *server) GetState(ctx context.Context, _ *extensionv1.Empty) (*extensionv1.StateResponse, error) {
	sp, ok := s.ext.(StateProvider)
	if !ok {
		return nil, extrpc.Unimplemented("GetState")
	}
	state, err := sp.State(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &extensionv1.StateResponse{State: state}, nil
}

func (s *server) StartTask(ctx context.Context, req *extensionv1.StartTaskRequest) (*extensionv1.StartTaskResponse, error) {
	runner, ok := s.ext.(TaskRunner)
	if !ok {
		return nil, extrpc.Unimplemented("StartTask")
	}
	id, err := runner.StartTask(ctx, req.GetText(), req.GetImages())
	if err != nil {
		return nil, toStatus(err)
	}
	return &extensionv1.StartTaskResponse{TaskId: id}, nil
}

func (s *server) CancelTask(ctx context.Context, req *extensionv1.CancelTaskRequest) (*extensionv1.Empty, error) {
	runner, ok := s.ext.(TaskRunner)
	if !ok {
		return nil, extrpc.Unimplemented("CancelTask")
	}
	if err := runner.CancelTask(ctx, req.GetTaskId()); err != nil {
		return nil, toStatus(err)
	}
	return &extensionv1.Empty{}, nil
}

func (s *server) TerminalOperation(ctx context.Context, req *extensionv1.TerminalRequest) (*extensionv1.Empty, error) {
	h, ok := s.ext.(TerminalHandler)
	if !ok {
		return nil, extrpc.Unimplemented("TerminalOperation")
	}
	if err := h.HandleTerminalOperation(ctx, req.GetOp(), req.GetArgs()); err != nil {
		return nil, toStatus(err)
	}
	return &extensionv1.Empty{}, nil
}
