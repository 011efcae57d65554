// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import "log/slog"

// Services bundles the host services handed to an extension at activation.
type Services struct {
	Secrets        SecretStore
	GlobalState    Memento
	WorkspaceState Memento
	Window         Window
	Configuration  *Configuration
	Commands       *CommandRegistry
}

// Option configures Services.
type Option func(*Services)

// WithSecrets replaces the default in-memory secret store.
func WithSecrets(s SecretStore) Option {
	return func(svc *Services) { svc.Secrets = s }
}

// WithWindow replaces the default log-backed notification surface.
func WithWindow(w Window) Option {
	return func(svc *Services) { svc.Window = w }
}

// WithConfiguration uses an already loaded configuration.
func WithConfiguration(c *Configuration) Option {
	return func(svc *Services) { svc.Configuration = c }
}

// WithMementos replaces the global and workspace stores.
func WithMementos(global, workspace Memento) Option {
	return func(svc *Services) {
		svc.GlobalState = global
		svc.WorkspaceState = workspace
	}
}

// New creates Services with in-memory defaults for anything not supplied.
func New(logger *slog.Logger, opts ...Option) *Services {
	svc := &Services{}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.Secrets == nil {
		svc.Secrets = NewMemorySecrets()
	}
	if svc.GlobalState == nil {
		svc.GlobalState = NewMapMemento(ScopeGlobal)
	}
	if svc.WorkspaceState == nil {
		svc.WorkspaceState = NewMapMemento(ScopeWorkspace)
	}
	if svc.Window == nil {
		svc.Window = NewLogWindow(logger)
	}
	if svc.Configuration == nil {
		svc.Configuration = NewConfiguration()
	}
	if svc.Commands == nil {
		svc.Commands = NewCommandRegistry()
	}
	return svc
}

// Close releases services that hold resources.
func (s *Services) Close() {
	if closer, ok := s.Secrets.(interface{ Close() }); ok {
		closer.Close()
	}
	if d, ok := s.Window.(Disposable); ok {
		d.Dispose()
	}
}
