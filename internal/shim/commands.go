// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/oops"
)

// Sentinel errors for programmatic error checking.
var (
	// ErrCommandExists is returned when registering an id that is already taken.
	ErrCommandExists = errors.New("command already registered")
	// ErrCommandNotFound is returned when executing an unknown id.
	ErrCommandNotFound = errors.New("command not found")
)

// CommandHandler runs a registered command.
type CommandHandler func(ctx context.Context, args ...any) (any, error)

// CommandRegistry maps command ids to handlers.
type CommandRegistry struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]CommandHandler)}
}

// Register adds a handler under id. Disposing the result unregisters it.
func (r *CommandRegistry) Register(id string, handler CommandHandler) (Disposable, error) {
	if id == "" {
		return nil, oops.In("shim").New("command id cannot be empty")
	}
	if handler == nil {
		return nil, oops.In("shim").With("command", id).New("command handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[id]; ok {
		return nil, oops.In("shim").With("command", id).Wrap(ErrCommandExists)
	}
	r.handlers[id] = handler

	return OnceDisposable(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.handlers, id)
	}), nil
}

// Execute runs the handler registered under id. A panicking handler is
// reported as an error.
func (r *CommandRegistry) Execute(ctx context.Context, id string, args ...any) (result any, err error) {
	r.mu.RLock()
	handler, ok := r.handlers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, oops.In("shim").With("command", id).Wrap(ErrCommandNotFound)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = oops.In("shim").With("command", id).Errorf("command panicked: %s", fmt.Sprint(rec))
		}
	}()
	return handler(ctx, args...)
}

// Has reports whether id is registered.
func (r *CommandRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[id]
	return ok
}

// List returns registered ids in sorted order.
func (r *CommandRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
