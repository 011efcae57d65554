// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/service"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/errutil"
	"github.com/holomush/exthost/pkg/protocol"
)

// Service is the part of the extension service a session drives.
type Service interface {
	Initialize(ctx context.Context) error
	SendWebviewMessage(ctx context.Context, env protocol.Envelope) error
	Request(ctx context.Context, env protocol.Envelope) (json.RawMessage, error)
	Respond(ctx context.Context, id string, result json.RawMessage, errText string) error
	RequestSingleCompletion(ctx context.Context, prompt string, timeout time.Duration) (string, error)
	GetState(ctx context.Context) json.RawMessage
	GetExtensionHealth() service.Health
	ExecuteCommand(ctx context.Context, id string, args ...any) (any, error)
	StartTask(ctx context.Context, text string, images []string) (string, error)
	CancelTask(ctx context.Context, taskID string) error
	TerminalOperation(ctx context.Context, op string, args json.RawMessage) error
	Dispose(ctx context.Context) error
	On(t service.EventType, fn shim.Listener[service.Event]) shim.Disposable
}

// Compile-time interface check.
var _ Service = (*service.Service)(nil)

// Codec reads requests and writes frames. Write must be safe for
// concurrent use. Read returns io.EOF when the peer is gone.
type Codec interface {
	Read(req *Request) error
	Write(f Frame) error
	Close() error
}

// Session connects one client to a service until the client leaves or
// asks for "dispose". Only the owning session disposes the service.
type Session struct {
	svc    Service
	codec  Codec
	logger *slog.Logger

	// dispose on disconnect when the session owns the service
	owner    bool
	disposed bool

	wg sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithOwnership disposes the service when the session ends.
func WithOwnership() SessionOption {
	return func(s *Session) { s.owner = true }
}

// NewSession creates a session.
func NewSession(svc Service, codec Codec, opts ...SessionOption) *Session {
	s := &Session{svc: svc, codec: codec, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run forwards service events to the client and serves requests until the
// client disconnects, ctx is cancelled, or a "dispose" request completes.
// Requests run concurrently; results carry the request id.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	subs := make([]shim.Disposable, 0, len(service.EventTypes))
	for _, t := range service.EventTypes {
		subs = append(subs, s.svc.On(t, func(ev service.Event) { s.write(eventFrame(ev)) }))
	}
	defer func() {
		for _, d := range subs {
			d.Dispose()
		}
	}()

	// unblock Read when ctx ends
	stop := context.AfterFunc(ctx, func() { _ = s.codec.Close() })
	defer stop()

	err := s.loop(ctx)
	cancel()
	s.wg.Wait()

	if s.owner && !s.disposed {
		disposeCtx, done := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer done()
		if derr := s.svc.Dispose(disposeCtx); derr != nil {
			errutil.LogWarn(s.logger, "dispose on session end failed", derr)
		}
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	// requests end with the session even though the codec stays open for
	// the final result frame
	reqCtx, cancelReqs := context.WithCancel(ctx)
	defer cancelReqs()

	for {
		var req Request
		err := s.codec.Read(&req)
		switch {
		case err == nil:
		case errors.Is(err, ErrMalformed):
			s.write(Frame{Event: string(service.EventError), Error: err.Error()})
			continue
		case errors.Is(err, io.EOF) || ctx.Err() != nil:
			return nil
		default:
			return oops.In("transport").Hint("failed to read request").Wrap(err)
		}

		if req.Op == OpDispose {
			s.write(s.dispose(ctx, cancelReqs, req.ID))
			return nil
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			data, err := s.handle(reqCtx, &req)
			s.write(resultFrame(req.ID, data, err))
		}()
	}
}

// dispose answers a "dispose" request. The owning session disposes the
// service; any other session only detaches, leaving the service to its
// remaining clients.
func (s *Session) dispose(ctx context.Context, cancelReqs context.CancelFunc, id string) Frame {
	if !s.owner {
		cancelReqs()
		s.wg.Wait()
		s.logger.Debug("session detached from shared service")
		return resultFrame(id, map[string]bool{"detached": true}, nil)
	}
	// disposing rejects in-flight requests, so the wait is short
	err := s.svc.Dispose(ctx)
	s.disposed = true
	s.wg.Wait()
	return resultFrame(id, nil, err)
}

func (s *Session) write(f Frame) {
	if err := s.codec.Write(f); err != nil {
		s.logger.Debug("dropping frame", "event", f.Event, "error", err)
	}
}

func (s *Session) handle(ctx context.Context, req *Request) (any, error) {
	errb := oops.In("transport").With("op", string(req.Op))
	switch req.Op {
	case OpInitialize:
		return nil, s.svc.Initialize(ctx)
	case OpSend, OpRequest:
		if req.Message == nil {
			return nil, errb.New("message is required")
		}
		if req.Op == OpSend {
			return nil, s.svc.SendWebviewMessage(ctx, *req.Message)
		}
		return s.svc.Request(ctx, *req.Message)
	case OpRespond:
		return nil, s.svc.Respond(ctx, req.RequestID, req.Result, req.Error)
	case OpComplete:
		return s.svc.RequestSingleCompletion(ctx, req.Prompt, time.Duration(req.TimeoutMS)*time.Millisecond)
	case OpState:
		return s.svc.GetState(ctx), nil
	case OpHealth:
		return s.svc.GetExtensionHealth(), nil
	case OpExecute:
		var args []any
		if len(req.Args) > 0 {
			if err := json.Unmarshal(req.Args, &args); err != nil {
				return nil, errb.Wrapf(err, "args must be a JSON array")
			}
		}
		return s.svc.ExecuteCommand(ctx, req.Command, args...)
	case OpStartTask:
		id, err := s.svc.StartTask(ctx, req.Text, req.Images)
		if err != nil {
			return nil, err
		}
		return map[string]string{"taskId": id}, nil
	case OpCancelTask:
		return nil, s.svc.CancelTask(ctx, req.TaskID)
	case OpTerminal:
		return nil, s.svc.TerminalOperation(ctx, req.Operation, req.Args)
	default:
		return nil, errb.Errorf("unknown op %q", req.Op)
	}
}
