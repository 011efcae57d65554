// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
)

// asOops reports a failure on t unless err is an oops error.
func asOops(t testing.TB, err error) (oops.OopsError, bool) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		t.Errorf("expected oops error, got %T: %v", err, err)
	}
	return oopsErr, ok
}

// AssertErrorCode asserts that err carries code anywhere in its oops chain.
func AssertErrorCode(t testing.TB, err error, code string) bool {
	t.Helper()
	if _, ok := asOops(t, err); !ok {
		return false
	}
	return assert.Equal(t, code, Code(err), "error: %v", err)
}

// AssertErrorDomain asserts that err was built with oops.In(domain).
func AssertErrorDomain(t testing.TB, err error, domain string) bool {
	t.Helper()
	oopsErr, ok := asOops(t, err)
	if !ok {
		return false
	}
	return assert.Equal(t, domain, oopsErr.Domain(), "error: %v", err)
}

// AssertErrorContext asserts that err carries key with value in its oops context.
func AssertErrorContext(t testing.TB, err error, key string, value any) bool {
	t.Helper()
	oopsErr, ok := asOops(t, err)
	if !ok {
		return false
	}
	got, present := oopsErr.Context()[key]
	if !assert.True(t, present, "context has no %q: %v", key, oopsErr.Context()) {
		return false
	}
	return assert.Equal(t, value, got)
}
