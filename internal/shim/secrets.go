// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import (
	"context"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/samber/oops"
)

// SecretStore holds secret strings by key, such as provider API keys.
type SecretStore interface {
	// Get returns the secret and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Store sets the secret for key.
	Store(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// OnDidChange fires with the key whenever a secret is stored or deleted.
	OnDidChange(fn Listener[string]) Disposable
}

// MemorySecrets keeps secrets in memguard enclaves for the life of the
// process. Values are encrypted at rest in memory and only decrypted while
// being read.
type MemorySecrets struct {
	mu      sync.RWMutex
	items   map[string]*memguard.Enclave
	changes *Emitter[string]
	closed  bool
}

// Compile-time interface check.
var _ SecretStore = (*MemorySecrets)(nil)

// NewMemorySecrets creates an empty secret store.
func NewMemorySecrets() *MemorySecrets {
	return &MemorySecrets{
		items:   make(map[string]*memguard.Enclave),
		changes: NewEmitter[string]("secrets"),
	}
}

// Get implements SecretStore.
func (s *MemorySecrets) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	enclave, ok := s.items[key]
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return "", false, oops.In("shim").With("store", "secrets").New("secret store is closed")
	}
	if !ok {
		return "", false, nil
	}

	buf, err := enclave.Open()
	if err != nil {
		return "", false, oops.In("shim").With("store", "secrets").With("key", key).Wrapf(err, "open secret")
	}
	defer buf.Destroy()
	return string(buf.Bytes()), true, nil
}

// Store implements SecretStore.
func (s *MemorySecrets) Store(_ context.Context, key, value string) error {
	if key == "" {
		return oops.In("shim").With("store", "secrets").New("secret key cannot be empty")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return oops.In("shim").With("store", "secrets").New("secret store is closed")
	}
	// NewEnclave wipes its input, so hand it a private copy.
	s.items[key] = memguard.NewEnclave([]byte(value))
	s.mu.Unlock()

	s.changes.Fire(key)
	return nil
}

// Delete implements SecretStore.
func (s *MemorySecrets) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.items[key]
	delete(s.items, key)
	s.mu.Unlock()

	if existed {
		s.changes.Fire(key)
	}
	return nil
}

// OnDidChange implements SecretStore.
func (s *MemorySecrets) OnDidChange(fn Listener[string]) Disposable {
	return s.changes.On(fn)
}

// Keys returns the stored secret keys. Values are never listed.
func (s *MemorySecrets) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

// Close drops every secret and rejects further use.
func (s *MemorySecrets) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	s.changes.Dispose()
}
