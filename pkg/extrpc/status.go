// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package extrpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Unimplemented reports an optional operation the extension does not provide.
func Unimplemented(op string) error {
	return status.Errorf(codes.Unimplemented, "extension does not implement %s", op)
}

// IsUnimplemented reports whether err came from Unimplemented.
func IsUnimplemented(err error) bool {
	return status.Code(err) == codes.Unimplemented
}

// PermissionDenied reports a capability the extension does not hold.
func PermissionDenied(err error) error {
	return status.Error(codes.PermissionDenied, err.Error())
}

// IsPermissionDenied reports whether err came from PermissionDenied.
func IsPermissionDenied(err error) bool {
	return status.Code(err) == codes.PermissionDenied
}

// ErrorMessage strips the status prefix from a remote error.
func ErrorMessage(err error) string {
	if s, ok := status.FromError(err); ok {
		return s.Message()
	}
	return err.Error()
}

// Recoverable reports an extension error the host should treat as
// recoverable.
func Recoverable(err error) error {
	return status.Error(codes.Aborted, err.Error())
}

// IsRecoverable reports whether err came from Recoverable.
func IsRecoverable(err error) bool {
	return status.Code(err) == codes.Aborted
}
