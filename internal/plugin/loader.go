// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/shim"
)

// ErrNoRuntime is returned when no runtime is registered for a manifest type.
var ErrNoRuntime = errors.New("no runtime for extension type")

// Bundle is a manifest together with the directory it was read from.
type Bundle struct {
	Manifest *Manifest
	Dir      string
}

// Path resolves a bundle-relative path.
func (b *Bundle) Path(rel string) string {
	return filepath.Join(b.Dir, filepath.FromSlash(rel))
}

// LoadBundle reads and validates the manifest in dir.
func LoadBundle(dir string) (*Bundle, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(manifestPath) //nolint:gosec // path is built from caller-supplied bundle dir
	if err != nil {
		return nil, oops.In("plugin").
			Code("MANIFEST_NOT_FOUND").
			With("dir", dir).
			Hint("an extension bundle needs an " + ManifestFile).
			Wrap(err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, oops.In("plugin").With("dir", dir).Wrap(err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, oops.In("plugin").With("dir", dir).Wrap(err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &Bundle{Manifest: m, Dir: abs}, nil
}

// Discover returns every valid bundle directly under root, sorted by id.
// Invalid bundles are logged and skipped. A missing root yields no bundles.
func Discover(_ context.Context, root string) ([]*Bundle, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oops.In("plugin").With("root", root).Wrapf(err, "read extensions directory")
	}

	var bundles []*Bundle
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		b, err := LoadBundle(filepath.Join(root, entry.Name()))
		if err != nil {
			slog.Warn("skipping extension bundle", "dir", entry.Name(), "error", err)
			continue
		}
		bundles = append(bundles, b)
	}
	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].Manifest.ID() < bundles[j].Manifest.ID()
	})
	return bundles, nil
}

// Loader turns bundles into extensions using the runtime registered for
// each manifest type.
type Loader struct {
	hostVersion string
	runtimes    map[Type]Runtime
	enforcer    *capability.Enforcer
	config      *shim.Configuration
	logger      *slog.Logger

	mu     sync.RWMutex
	loaded map[string]*Bundle
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRuntime registers the runtime for a manifest type.
func WithRuntime(t Type, rt Runtime) LoaderOption {
	return func(l *Loader) { l.runtimes[t] = rt }
}

// WithEnforcer records each loaded extension's capabilities in e.
func WithEnforcer(e *capability.Enforcer) LoaderOption {
	return func(l *Loader) { l.enforcer = e }
}

// WithConfiguration receives contributed configuration defaults.
func WithConfiguration(c *shim.Configuration) LoaderOption {
	return func(l *Loader) { l.config = c }
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader for a host at hostVersion.
func NewLoader(hostVersion string, opts ...LoaderOption) *Loader {
	l := &Loader{
		hostVersion: hostVersion,
		runtimes:    make(map[Type]Runtime),
		loaded:      make(map[string]*Bundle),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load checks engine compatibility, registers capabilities, applies
// contributed configuration defaults, and hands the bundle to its runtime.
func (l *Loader) Load(ctx context.Context, b *Bundle) (host.Plugin, error) {
	m := b.Manifest
	errb := oops.In("plugin").With("extension", m.ID()).With("type", m.Type)

	if err := m.CheckEngine(l.hostVersion); err != nil {
		return nil, err
	}
	rt, ok := l.runtimes[m.Type]
	if !ok {
		return nil, errb.Code("NO_RUNTIME").Wrap(ErrNoRuntime)
	}
	if l.enforcer != nil {
		if err := l.enforcer.SetGrants(m.ID(), m.Capabilities); err != nil {
			return nil, errb.Wrap(err)
		}
	}
	if err := l.applyDefaults(m); err != nil {
		return nil, errb.Wrap(err)
	}

	p, err := rt.Load(ctx, b)
	if err != nil {
		if l.enforcer != nil {
			l.enforcer.RemoveGrants(m.ID())
		}
		return nil, errb.Code("LOAD_FAILED").Wrapf(err, "load extension")
	}

	l.mu.Lock()
	l.loaded[m.ID()] = b
	l.mu.Unlock()

	l.logger.Info("loaded extension",
		"extension", m.ID(),
		"type", m.Type,
		"version", m.Version)
	return p, nil
}

// LoadDir reads the bundle in dir and loads it.
func (l *Loader) LoadDir(ctx context.Context, dir string) (host.Plugin, *Bundle, error) {
	b, err := LoadBundle(dir)
	if err != nil {
		return nil, nil, err
	}
	p, err := l.Load(ctx, b)
	if err != nil {
		return nil, nil, err
	}
	return p, b, nil
}

// applyDefaults sets contributed keys that are not configured yet.
func (l *Loader) applyDefaults(m *Manifest) error {
	if l.config == nil || m.Contributes == nil {
		return nil
	}
	keys := make([]string, 0, len(m.Contributes.Configuration))
	for k := range m.Contributes.Configuration {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if l.config.Has(k) {
			continue
		}
		if err := l.config.Update(k, m.Contributes.Configuration[k]); err != nil {
			return err
		}
	}
	return nil
}

// Loaded returns the ids of loaded extensions in sorted order.
func (l *Loader) Loaded() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.loaded))
	for id := range l.loaded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every runtime and forgets loaded extensions.
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	ids := make([]string, 0, len(l.loaded))
	for id := range l.loaded {
		ids = append(ids, id)
	}
	l.loaded = make(map[string]*Bundle)
	l.mu.Unlock()

	if l.enforcer != nil {
		for _, id := range ids {
			l.enforcer.RemoveGrants(id)
		}
	}

	var errs []error
	for t, rt := range l.runtimes {
		if err := rt.Close(ctx); err != nil {
			errs = append(errs, oops.In("plugin").With("type", t).Wrapf(err, "close runtime"))
		}
	}
	return errors.Join(errs...)
}
