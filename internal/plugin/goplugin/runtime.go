// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package goplugin

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/plugin/capability"
)

// Compile-time interface check.
var _ plugin.Runtime = (*Runtime)(nil)

// Runtime loads binary bundles. Processes start on activation, not load.
type Runtime struct {
	enforcer *capability.Enforcer
	dialer   Dialer
	logger   *slog.Logger

	mu         sync.Mutex
	closed     bool
	extensions map[string]*Extension
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithDialer replaces the process dialer.
func WithDialer(d Dialer) Option {
	return func(r *Runtime) { r.dialer = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// NewRuntime creates a binary runtime. Panics if enforcer is nil.
func NewRuntime(enforcer *capability.Enforcer, opts ...Option) *Runtime {
	if enforcer == nil {
		panic("goplugin.NewRuntime: enforcer cannot be nil")
	}
	r := &Runtime{
		enforcer:   enforcer,
		dialer:     ProcessDialer{},
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
	errb := oops.In("goplugin").With("extension", m.ID()).With("operation", "load")
	if m.Binary == nil {
		return nil, errb.New("manifest has no binary section")
	}

	execPath := b.Path(m.Binary.Executable)
	info, err := os.Stat(execPath)
	if err != nil {
		return nil, errb.With("path", execPath).Hint("extension executable not found").Wrap(err)
	}
	if info.IsDir() {
		return nil, errb.With("path", execPath).New("extension executable is a directory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errb.New("runtime is closed")
	}
	ext := &Extension{
		id:       m.ID(),
		execPath: execPath,
		dialer:   r.dialer,
		enforcer: r.enforcer,
		logger:   r.logger.With("extension", m.ID()),
	}
	r.extensions[ext.id] = ext
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

// Close kills every running extension process.
func (r *Runtime) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range r.extensions {
		ext.kill()
	}
	r.closed = true
	clear(r.extensions)
	return nil
}
