// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/plugin/hostfunc"
)

// Compile-time interface check.
var _ plugin.Runtime = (*Runtime)(nil)

// Runtime loads Lua bundles. The entry file is read and compiled at load
// time so syntax errors surface before activation.
type Runtime struct {
	factory *StateFactory
	funcs   *hostfunc.Functions
	logger  *slog.Logger

	mu         sync.Mutex
	closed     bool
	extensions map[string]*Extension
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithStateFactory replaces the default sandbox factory.
func WithStateFactory(f *StateFactory) RuntimeOption {
	return func(r *Runtime) { r.factory = f }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) { r.logger = logger }
}

// NewRuntime creates a Lua runtime. Panics if funcs is nil.
func NewRuntime(funcs *hostfunc.Functions, opts ...RuntimeOption) *Runtime {
	if funcs == nil {
		panic("lua.NewRuntime: host functions cannot be nil")
	}
	r := &Runtime{
		factory:    NewStateFactory(),
		funcs:      funcs,
		logger:     slog.Default(),
		extensions: make(map[string]*Extension),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load implements plugin.Runtime.
func (r *Runtime) Load(_ context.Context, b *plugin.Bundle) (host.Plugin, error) {
	m := b.Manifest
	errb := oops.In("lua").With("extension", m.ID()).With("operation", "load")
	if m.Lua == nil {
		return nil, errb.New("manifest has no lua section")
	}

	entry := b.Path(m.Lua.Entry)
	code, err := os.ReadFile(entry) //nolint:gosec // entry is resolved inside the bundle dir
	if err != nil {
		return nil, errb.With("path", entry).Hint("failed to read entry file").Wrap(err)
	}
	proto, err := Compile(m.Lua.Entry, code)
	if err != nil {
		return nil, errb.Wrap(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errb.New("runtime is closed")
	}
	ext := NewExtension(m.ID(), proto, r.factory, r.funcs, r.logger)
	r.extensions[m.ID()] = ext
	return ext, nil
}

// Extensions returns the ids of loaded extensions in sorted order.
func (r *Runtime) Extensions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.extensions))
	for id := range r.extensions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close implements plugin.Runtime. Active states are closed without
// running their deactivate hooks.
func (r *Runtime) Close(_ context.Context) error {
	r.mu.Lock()
	exts := r.extensions
	r.extensions = make(map[string]*Extension)
	r.closed = true
	r.mu.Unlock()

	for _, ext := range exts {
		ext.close()
	}
	return nil
}
