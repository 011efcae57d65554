// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package capability gates the host services an extension may call.
//
// Grants are glob patterns with '.' as the segment separator:
//   - '*' matches one segment, so "state.*.read" matches "state.global.read"
//   - '**' matches any number of segments, so "state.**" matches every state capability
//   - "**" alone grants everything
package capability

import (
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Capabilities checked by the host function layer.
const (
	SecretsRead      = "secrets.read"
	SecretsWrite     = "secrets.write"
	GlobalStateRead  = "state.global.read"
	GlobalStateWrite = "state.global.write"
	WorkspaceRead    = "state.workspace.read"
	WorkspaceWrite   = "state.workspace.write"
	WindowNotify     = "window.notify"
	ConfigRead       = "config.read"
	ConfigWrite      = "config.write"
	CommandsRegister = "commands.register"
	CommandsExecute  = "commands.execute"
)

// Known lists every capability the host checks, in sorted order.
func Known() []string {
	known := []string{
		SecretsRead, SecretsWrite,
		GlobalStateRead, GlobalStateWrite,
		WorkspaceRead, WorkspaceWrite,
		WindowNotify,
		ConfigRead, ConfigWrite,
		CommandsRegister, CommandsExecute,
	}
	sort.Strings(known)
	return known
}

// ErrDenied is returned by Require when a grant is missing.
var ErrDenied = errors.New("capability denied")

type compiledGrant struct {
	pattern string
	glob    glob.Glob
}

// Enforcer holds per-extension grants. The zero value is ready to use.
type Enforcer struct {
	mu     sync.RWMutex
	grants map[string][]compiledGrant
}

// NewEnforcer creates an empty enforcer.
func NewEnforcer() *Enforcer {
	return &Enforcer{grants: make(map[string][]compiledGrant)}
}

// SetGrants replaces the grants of an extension. Every pattern is compiled
// before any state changes, so a bad pattern leaves the enforcer untouched.
func (e *Enforcer) SetGrants(extension string, patterns []string) error {
	if extension == "" {
		return oops.In("capability").New("extension id cannot be empty")
	}

	compiled := make([]compiledGrant, len(patterns))
	for i, pattern := range patterns {
		if pattern == "" {
			return oops.In("capability").With("extension", extension).With("index", i).
				New("empty capability pattern")
		}
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return oops.In("capability").With("extension", extension).With("pattern", pattern).
				Wrapf(err, "compile capability pattern")
		}
		compiled[i] = compiledGrant{pattern: pattern, glob: g}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grants == nil {
		e.grants = make(map[string][]compiledGrant)
	}
	e.grants[extension] = compiled
	return nil
}

// IsRegistered reports whether SetGrants was called for extension.
func (e *Enforcer) IsRegistered(extension string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.grants[extension]
	return ok
}

// RemoveGrants forgets an extension. Unknown ids are ignored.
func (e *Enforcer) RemoveGrants(extension string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.grants, extension)
}

// GetGrants returns a copy of the patterns granted to extension, or nil.
func (e *Enforcer) GetGrants(extension string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	grants, ok := e.grants[extension]
	if !ok {
		return nil
	}
	patterns := make([]string, len(grants))
	for i, g := range grants {
		patterns[i] = g.pattern
	}
	return patterns
}

// Extensions returns the registered extension ids in sorted order.
func (e *Enforcer) Extensions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.grants))
	for id := range e.grants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Check reports whether extension holds capability. Unknown extensions and
// empty capabilities are denied.
func (e *Enforcer) Check(extension, capability string) bool {
	if capability == "" {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, grant := range e.grants[extension] {
		if grant.glob.Match(capability) {
			return true
		}
	}
	return false
}

// Require is Check that returns an ErrDenied error carrying the extension
// and capability.
func (e *Enforcer) Require(extension, capability string) error {
	if e.Check(extension, capability) {
		return nil
	}
	return oops.In("capability").
		Code("CAPABILITY_DENIED").
		With("extension", extension).
		With("capability", capability).
		Hint("add the capability to the extension manifest").
		Wrap(ErrDenied)
}
