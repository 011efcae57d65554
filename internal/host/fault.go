// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/samber/oops"
)

// Fault contexts name the boundary where a plugin fault was caught.
const (
	FaultActivate   = "activate"
	FaultMessage    = "message"
	FaultDeactivate = "deactivate"
	FaultDispose    = "dispose"
	FaultPost       = "postMessage"
)

// Fault is an error raised inside the hosted extension and caught at the
// host boundary.
type Fault struct {
	Context     string
	Err         error
	Recoverable bool
}

func (f *Fault) Error() string {
	kind := "fatal"
	if f.Recoverable {
		kind = "recoverable"
	}
	return fmt.Sprintf("%s fault in %s: %v", kind, f.Context, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

type recoverableError struct {
	err error
}

func (e *recoverableError) Error() string     { return e.err.Error() }
func (e *recoverableError) Unwrap() error     { return e.err }
func (e *recoverableError) Recoverable() bool { return true }

// MarkRecoverable wraps err so the host reports it as recoverable.
// Unmarked errors are fatal.
func MarkRecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &recoverableError{err: err}
}

// IsRecoverable reports whether any error in err's chain declares itself
// recoverable through a Recoverable() bool method.
func IsRecoverable(err error) bool {
	var r interface{ Recoverable() bool }
	if errors.As(err, &r) {
		return r.Recoverable()
	}
	return false
}

// newFault classifies err raised at boundary.
func newFault(boundary string, err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{Context: boundary, Err: err, Recoverable: IsRecoverable(err)}
}

// panicError converts a recovered panic into an error. Panics are fatal.
func panicError(boundary string, rec any) error {
	return oops.In("host").
		Code("PLUGIN_PANIC").
		With("boundary", boundary).
		With("stack", string(debug.Stack())).
		Errorf("plugin panicked: %v", rec)
}
