// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import (
	"strings"
	"sync"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// keyDelim separates configuration path segments, e.g. "exthost.apiProvider".
const keyDelim = "."

// Configuration is the configuration reader handed to extensions. Keys are
// dotted paths. Reads are total: a missing key yields the supplied default.
type Configuration struct {
	mu      sync.RWMutex
	k       *koanf.Koanf
	changes *Emitter[string]
}

// NewConfiguration creates an empty configuration.
func NewConfiguration() *Configuration {
	return &Configuration{
		k:       koanf.New(keyDelim),
		changes: NewEmitter[string]("configuration"),
	}
}

// LoadFile merges a YAML file into the configuration.
func (c *Configuration) LoadFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return oops.In("shim").With("path", path).Hint("failed to load configuration file").Wrap(err)
	}
	return nil
}

// LoadFlags merges flags that were explicitly set on fs. Flag names map to
// keys unchanged, so a flag "exthost.model" overrides key "exthost.model".
// String flag values are read as YAML scalars so "5" and "true" keep their
// type.
func (c *Configuration) LoadFlags(fs *pflag.FlagSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := posflag.ProviderWithFlag(fs, keyDelim, c.k, func(f *pflag.Flag) (string, any) {
		val := posflag.FlagVal(fs, f)
		if s, ok := val.(string); ok && f.Value.Type() == "string" {
			val = ParseScalar(s)
		}
		return f.Name, val
	})
	if err := c.k.Load(p, nil); err != nil {
		return oops.In("shim").Hint("failed to load configuration flags").Wrap(err)
	}
	return nil
}

// ParseScalar reads raw as a YAML scalar. Anything that does not parse to
// a scalar, including maps and lists, stays the raw string.
func ParseScalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return raw
	}
	return v
}

// Get returns the value at key and whether it exists.
func (c *Configuration) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.k.Exists(key) {
		return nil, false
	}
	return c.k.Get(key), true
}

// Has reports whether key is set.
func (c *Configuration) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Exists(key)
}

// String returns the string at key, or def when unset.
func (c *Configuration) String(key, def string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.k.Exists(key) {
		return def
	}
	return c.k.String(key)
}

// Bool returns the bool at key, or def when unset.
func (c *Configuration) Bool(key string, def bool) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.k.Exists(key) {
		return def
	}
	return c.k.Bool(key)
}

// Int returns the int at key, or def when unset.
func (c *Configuration) Int(key string, def int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.k.Exists(key) {
		return def
	}
	return c.k.Int(key)
}

// Update sets key to value and notifies change listeners.
func (c *Configuration) Update(key string, value any) error {
	if key == "" {
		return oops.In("shim").New("configuration key cannot be empty")
	}
	c.mu.Lock()
	err := c.k.Set(key, value)
	c.mu.Unlock()
	if err != nil {
		return oops.In("shim").With("key", key).Wrapf(err, "set configuration")
	}
	c.changes.Fire(key)
	return nil
}

// All returns a flattened copy of every key and value.
func (c *Configuration) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.All()
}

// Section returns a view of the keys under name.
func (c *Configuration) Section(name string) *Section {
	return &Section{parent: c, prefix: strings.TrimSuffix(name, keyDelim)}
}

// OnDidChange fires with the changed key after every Update.
func (c *Configuration) OnDidChange(fn Listener[string]) Disposable {
	return c.changes.On(fn)
}

// Section is a Configuration scoped to a key prefix, the equivalent of
// asking the host for the configuration of one extension.
type Section struct {
	parent *Configuration
	prefix string
}

func (s *Section) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + keyDelim + k
}

// Get returns the value at key within the section.
func (s *Section) Get(key string) (any, bool) { return s.parent.Get(s.key(key)) }

// Has reports whether key is set within the section.
func (s *Section) Has(key string) bool { return s.parent.Has(s.key(key)) }

// String returns the string at key within the section, or def.
func (s *Section) String(key, def string) string { return s.parent.String(s.key(key), def) }

// Update sets key within the section.
func (s *Section) Update(key string, value any) error { return s.parent.Update(s.key(key), value) }
