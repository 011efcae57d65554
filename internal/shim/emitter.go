// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package shim provides the host services an extension's activation path
// touches: secrets, key-value state, notifications, configuration, commands,
// resource identifiers and event sources. Each service implements only the
// operations extensions actually call.
package shim

import (
	"fmt"
	"log/slog"
	"sync"
)

// Disposable releases a registration.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to Disposable. The function runs at most once.
type DisposableFunc func()

// Dispose implements Disposable.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// OnceDisposable wraps fn so that repeated Dispose calls run it only once.
func OnceDisposable(fn func()) Disposable {
	var once sync.Once
	return DisposableFunc(func() { once.Do(fn) })
}

// Listener receives values fired by an Emitter.
type Listener[T any] func(T)

// registration is a single listener slot. Identity is the pointer, so
// removing one registration never removes another with the same function.
type registration[T any] struct {
	fn Listener[T]
}

// Emitter is an event source. The zero value is ready to use.
//
// Listeners run synchronously on the goroutine calling Fire, in registration
// order. A panicking listener is logged and does not stop delivery to the
// remaining listeners.
type Emitter[T any] struct {
	mu        sync.RWMutex
	listeners []*registration[T]
	disposed  bool
	name      string
}

// NewEmitter creates an emitter. The name only appears in logs.
func NewEmitter[T any](name string) *Emitter[T] {
	return &Emitter[T]{name: name}
}

// On registers a listener. Disposing the returned value removes exactly this
// registration. Registering on a disposed emitter is a no-op.
func (e *Emitter[T]) On(fn Listener[T]) Disposable {
	if fn == nil {
		return DisposableFunc(nil)
	}
	reg := &registration[T]{fn: fn}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return DisposableFunc(nil)
	}
	e.listeners = append(e.listeners, reg)

	return OnceDisposable(func() { e.remove(reg) })
}

func (e *Emitter[T]) remove(reg *registration[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l == reg {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Fire delivers v to a snapshot of the current listeners.
func (e *Emitter[T]) Fire(v T) {
	e.mu.RLock()
	if e.disposed || len(e.listeners) == 0 {
		e.mu.RUnlock()
		return
	}
	snapshot := make([]*registration[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.RUnlock()

	for _, reg := range snapshot {
		e.call(reg, v)
	}
}

func (e *Emitter[T]) call(reg *registration[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event listener panicked",
				"emitter", e.name,
				"panic", fmt.Sprint(r))
		}
	}()
	reg.fn(v)
}

// ListenerCount returns the number of registered listeners.
func (e *Emitter[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// Dispose removes every listener and stops further delivery.
func (e *Emitter[T]) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposed = true
	e.listeners = nil
}

// Clear removes every listener but keeps the emitter usable.
func (e *Emitter[T]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = nil
}
