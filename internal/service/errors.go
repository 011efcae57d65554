// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service

import (
	"errors"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/host"
)

// Error codes for precondition and timeout failures.
const (
	CodeNotInitialized    = "SERVICE_NOT_INITIALIZED"
	CodeNotActivated      = "SERVICE_NOT_ACTIVATED"
	CodeDisposed          = "SERVICE_DISPOSED"
	CodeCompletionTimeout = "COMPLETION_TIMEOUT"
	CodeCompletionFailed  = "COMPLETION_FAILED"
	CodeUnsupported       = "SERVICE_UNSUPPORTED"
)

// Sentinel errors for programmatic error checking. Each precondition has
// its own error because the caller's recovery differs: wait for
// initialization, initialize again, or give up on the service.
var (
	// ErrNotInitialized is returned before Initialize has been called.
	ErrNotInitialized = errors.New("extension service not initialized")
	// ErrNotActivated is returned after Initialize when the extension is not activated.
	ErrNotActivated = errors.New("extension not activated")
	// ErrDisposed is returned after Dispose.
	ErrDisposed = errors.New("extension service disposed")
	// ErrCompletionTimeout is returned when a completion response does not arrive in time.
	ErrCompletionTimeout = errors.New("completion request timed out")
	// ErrCompletionFailed is returned when the extension answered a completion with an error.
	ErrCompletionFailed = errors.New("completion failed")
	// ErrUnsupported is returned when the extension API lacks an optional capability.
	ErrUnsupported = errors.New("operation not supported by extension")
)

func preconditionError(code string, sentinel error, phase host.Phase, op string) error {
	return oops.In("service").
		Code(code).
		With("phase", phase.String()).
		With("operation", op).
		Wrap(sentinel)
}
