// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import (
	"context"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/samber/oops"
)

// Scope names a key-value store.
type Scope string

// Memento scopes exposed to extensions.
const (
	ScopeGlobal    Scope = "global"
	ScopeWorkspace Scope = "workspace"
)

// Memento is a key-value store scoped to the host (global) or to the
// current workspace. Reads are synchronous; writes take a context because
// extensions treat them as asynchronous.
type Memento interface {
	// Get returns the value and true, or nil and false when key is absent.
	Get(key string) (any, bool)
	// Keys returns all stored keys in sorted order.
	Keys() []string
	// Update stores value under key. A nil value deletes the key.
	Update(ctx context.Context, key string, value any) error
}

// MapMemento is an in-memory Memento. State lives only as long as the process.
type MapMemento struct {
	scope   Scope
	items   cmap.ConcurrentMap[string, any]
	changes *Emitter[string]
}

// Compile-time interface check.
var _ Memento = (*MapMemento)(nil)

// NewMapMemento creates an empty memento for scope.
func NewMapMemento(scope Scope) *MapMemento {
	return &MapMemento{
		scope:   scope,
		items:   cmap.New[any](),
		changes: NewEmitter[string]("memento." + string(scope)),
	}
}

// Scope returns the memento scope.
func (m *MapMemento) Scope() Scope {
	return m.scope
}

// Get implements Memento.
func (m *MapMemento) Get(key string) (any, bool) {
	return m.items.Get(key)
}

// Keys implements Memento.
func (m *MapMemento) Keys() []string {
	keys := m.items.Keys()
	sort.Strings(keys)
	return keys
}

// Update implements Memento.
func (m *MapMemento) Update(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return oops.In("shim").With("scope", string(m.scope)).With("key", key).Wrap(err)
	}
	if key == "" {
		return oops.In("shim").With("scope", string(m.scope)).New("memento key cannot be empty")
	}
	if value == nil {
		if _, ok := m.items.Pop(key); ok {
			m.changes.Fire(key)
		}
		return nil
	}
	m.items.Set(key, value)
	m.changes.Fire(key)
	return nil
}

// OnDidChange fires with the key after every write or removal. Deleting an
// absent key does not fire.
func (m *MapMemento) OnDidChange(fn Listener[string]) Disposable {
	return m.changes.On(fn)
}

// Len returns the number of stored keys.
func (m *MapMemento) Len() int {
	return m.items.Count()
}
