// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package plugin_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/errutil"
)

type fakeRuntime struct {
	loaded  []string
	loadErr error
	closed  int
}

func (r *fakeRuntime) Load(_ context.Context, b *plugin.Bundle) (host.Plugin, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	r.loaded = append(r.loaded, b.Manifest.ID())
	return host.PluginFunc(func(context.Context, *host.Context) (host.API, error) {
		return host.HandlerFunc(nil), nil
	}), nil
}

func (r *fakeRuntime) Close(context.Context) error {
	r.closed++
	return nil
}

func writeBundle(t *testing.T, root, dir, manifest string) string {
	t.Helper()
	path := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, plugin.ManifestFile), []byte(manifest), 0o600))
	return path
}

const echoManifest = `name: echo
publisher: holomush
version: 1.0.0
type: lua
engine: ">=0.1.0"
capabilities:
  - window.notify
lua:
  entry: main.lua
contributes:
  configuration:
    echo.greeting: hello
    echo.retries: 3
`

func TestLoadBundle(t *testing.T) {
	root := t.TempDir()
	dir := writeBundle(t, root, "echo", echoManifest)

	b, err := plugin.LoadBundle(dir)
	require.NoError(t, err)
	assert.Equal(t, "holomush.echo", b.Manifest.ID())
	assert.Equal(t, filepath.Join(dir, "main.lua"), b.Path("main.lua"))
}

func TestLoadBundle_MissingManifest(t *testing.T) {
	_, err := plugin.LoadBundle(t.TempDir())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MANIFEST_NOT_FOUND")
}

func TestLoadBundle_SchemaViolation(t *testing.T) {
	dir := writeBundle(t, t.TempDir(), "bad", "name: bad\nversion: 1.0.0\ntype: lua\nlua:\n  entry: main.lua\nevents: [x]\n")
	_, err := plugin.LoadBundle(dir)
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeBundle(t, root, "zeta", "name: zeta\nversion: 1.0.0\ntype: binary\nbinary:\n  executable: zeta\n")
	writeBundle(t, root, "echo", echoManifest)
	writeBundle(t, root, "broken", "name: [")
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o600))

	bundles, err := plugin.Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "holomush.echo", bundles[0].Manifest.ID())
	assert.Equal(t, "zeta", bundles[1].Manifest.ID())
}

func TestDiscover_MissingRoot(t *testing.T) {
	bundles, err := plugin.Discover(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	rt := &fakeRuntime{}
	enforcer := capability.NewEnforcer()
	cfg := shim.NewConfiguration()
	require.NoError(t, cfg.Update("echo.greeting", "configured"))

	l := plugin.NewLoader("0.1.0",
		plugin.WithRuntime(plugin.TypeLua, rt),
		plugin.WithEnforcer(enforcer),
		plugin.WithConfiguration(cfg))

	p, b, err := l.LoadDir(ctx, writeBundle(t, t.TempDir(), "echo", echoManifest))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "echo", b.Manifest.Name)

	assert.Equal(t, []string{"holomush.echo"}, rt.loaded)
	assert.Equal(t, []string{"holomush.echo"}, l.Loaded())
	assert.True(t, enforcer.Check("holomush.echo", capability.WindowNotify))
	assert.False(t, enforcer.Check("holomush.echo", capability.SecretsRead))

	// existing keys win over contributed defaults
	assert.Equal(t, "configured", cfg.String("echo.greeting", ""))
	assert.Equal(t, 3, cfg.Int("echo.retries", 0))

	require.NoError(t, l.Close(ctx))
	assert.Equal(t, 1, rt.closed)
	assert.Empty(t, l.Loaded())
	assert.False(t, enforcer.IsRegistered("holomush.echo"))
}

func TestLoader_EngineMismatch(t *testing.T) {
	rt := &fakeRuntime{}
	l := plugin.NewLoader("0.0.1", plugin.WithRuntime(plugin.TypeLua, rt))

	_, _, err := l.LoadDir(context.Background(), writeBundle(t, t.TempDir(), "echo", echoManifest))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ENGINE_MISMATCH")
	assert.Empty(t, rt.loaded)
}

func TestLoader_NoRuntime(t *testing.T) {
	l := plugin.NewLoader("0.1.0")
	_, _, err := l.LoadDir(context.Background(), writeBundle(t, t.TempDir(), "echo", echoManifest))
	require.Error(t, err)
	assert.True(t, errors.Is(err, plugin.ErrNoRuntime))
}

func TestLoader_RuntimeFailureRevokesGrants(t *testing.T) {
	enforcer := capability.NewEnforcer()
	rt := &fakeRuntime{loadErr: errors.New("syntax error")}
	l := plugin.NewLoader("0.1.0",
		plugin.WithRuntime(plugin.TypeLua, rt),
		plugin.WithEnforcer(enforcer))

	_, _, err := l.LoadDir(context.Background(), writeBundle(t, t.TempDir(), "echo", echoManifest))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "LOAD_FAILED")
	assert.False(t, enforcer.IsRegistered("holomush.echo"))
	assert.Empty(t, l.Loaded())
}
