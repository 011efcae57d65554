// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service

import (
	"context"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/pkg/protocol"
)

// RequestSingleCompletion asks the extension for one completion of prompt
// and waits for the matching result. A timeout of zero or less means
// DefaultCompletionTimeout (or the WithCompletionTimeout value).
//
// Each call carries its own request id in the payload, so concurrent calls
// resolve independently and in any order. The temporary message listener
// is removed on every return path.
func (s *Service) RequestSingleCompletion(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	if err := s.guard("requestSingleCompletion"); err != nil {
		return "", err
	}
	if timeout <= 0 {
		timeout = s.completionTimeout
	}

	requestID := protocol.NewID()
	results := make(chan protocol.CompletionResultPayload, 1)
	sub := s.On(EventMessage, func(ev Event) {
		if ev.Message.Type != protocol.TypeSingleCompletionResult {
			return
		}
		p, err := ev.Message.Decode()
		if err != nil {
			return
		}
		res := p.(*protocol.CompletionResultPayload)
		if res.RequestID != requestID {
			return
		}
		select {
		case results <- *res:
		default:
		}
	})
	defer sub.Dispose()

	env, err := protocol.New(protocol.TypeSingleCompletionRequest, protocol.CompletionRequestPayload{
		RequestID: requestID,
		Prompt:    prompt,
	})
	if err != nil {
		return "", err
	}
	if err := s.bridge.Client().Send(ctx, env); err != nil {
		s.metrics.completion("error")
		return "", err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if !res.Success {
			s.metrics.completion("failure")
			return "", oops.In("service").
				Code(CodeCompletionFailed).
				With("request_id", requestID).
				Wrapf(ErrCompletionFailed, "%s", res.Error)
		}
		s.metrics.completion("success")
		return res.Text, nil
	case <-timer.C:
		s.metrics.completion("timeout")
		return "", oops.In("service").
			Code(CodeCompletionTimeout).
			With("request_id", requestID).
			With("timeout", timeout.String()).
			Wrapf(ErrCompletionTimeout, "no completion result after %s", timeout)
	case <-ctx.Done():
		s.metrics.completion("canceled")
		return "", oops.In("service").With("request_id", requestID).Wrap(ctx.Err())
	case <-s.done:
		s.metrics.completion("disposed")
		return "", preconditionError(CodeDisposed, ErrDisposed, host.PhaseDisposed, "requestSingleCompletion")
	}
}
