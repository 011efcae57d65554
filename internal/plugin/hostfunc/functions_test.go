// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package hostfunc_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/plugin/hostfunc"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/protocol"
)

// directInvoker runs callbacks on the test goroutine.
type directInvoker struct {
	L *lua.LState

	mu    sync.Mutex
	async int
}

func (d *directInvoker) Call(_ context.Context, fn *lua.LFunction, args ...any) (any, error) {
	lvs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		lv, err := hostfunc.ToLua(d.L, a)
		if err != nil {
			return nil, err
		}
		lvs = append(lvs, lv)
	}
	if err := d.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lvs...); err != nil {
		return nil, err
	}
	ret := d.L.Get(-1)
	d.L.Pop(1)
	return hostfunc.ToGo(ret)
}

func (d *directInvoker) Go(fn *lua.LFunction, args ...any) {
	d.mu.Lock()
	d.async++
	d.mu.Unlock()
	_, _ = d.Call(context.Background(), fn, args...)
}

type fixture struct {
	L       *lua.LState
	pctx    *host.Context
	posted  []protocol.Envelope
	invoker *directInvoker
}

func newFixture(t *testing.T, grants ...string) *fixture {
	t.Helper()
	enforcer := capability.NewEnforcer()
	require.NoError(t, enforcer.SetGrants("test.ext", grants))

	f := &fixture{L: lua.NewState()}
	t.Cleanup(f.L.Close)

	services := shim.New(nil)
	t.Cleanup(services.Close)
	f.pctx = host.NewContext(services, host.NewIdentity("exthost", "test"), func(_ context.Context, env protocol.Envelope) error {
		f.posted = append(f.posted, env)
		return nil
	})
	f.invoker = &directInvoker{L: f.L}

	hostfunc.New(enforcer).Register(f.L, hostfunc.Binding{
		ExtensionID: "test.ext",
		Context:     f.pctx,
		Invoker:     f.invoker,
	})
	return f
}

func (f *fixture) run(t *testing.T, code string) {
	t.Helper()
	require.NoError(t, f.L.DoString(code))
}

func TestNew_PanicsWithoutEnforcer(t *testing.T) {
	assert.Panics(t, func() { hostfunc.New(nil) })
}

func TestRegister_ModuleGlobal(t *testing.T) {
	f := newFixture(t)
	mod, ok := f.L.GetGlobal(hostfunc.ModuleName).(*lua.LTable)
	require.True(t, ok)
	for _, name := range []string{"log", "new_request_id", "post_message", "show_message", "secrets_get", "state_update", "config_get", "commands_execute", "uri_file", "json_encode"} {
		assert.Equal(t, lua.LTFunction, mod.RawGetString(name).Type(), name)
	}
}

func TestLogAndRequestID(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		exthost.log("info", "hello")
		exthost.log("bogus", "falls back to info")
		id1 = exthost.new_request_id()
		id2 = exthost.new_request_id()
	`)
	id1 := f.L.GetGlobal("id1").String()
	assert.Len(t, id1, 26)
	assert.NotEqual(t, id1, f.L.GetGlobal("id2").String())
}

func TestPostMessage(t *testing.T) {
	f := newFixture(t)
	f.run(t, `err = exthost.post_message({type = "state", payload = {state = {count = 2}}})`)

	assert.Equal(t, lua.LNil, f.L.GetGlobal("err"))
	require.Len(t, f.posted, 1)
	assert.Equal(t, protocol.TypeState, f.posted[0].Type)
	assert.JSONEq(t, `{"state":{"count":2}}`, string(f.posted[0].Payload))
}

func TestPostMessage_RequiresType(t *testing.T) {
	f := newFixture(t)
	f.run(t, `err = exthost.post_message({payload = 1})`)
	assert.Contains(t, f.L.GetGlobal("err").String(), "type is required")
	assert.Empty(t, f.posted)
}

func TestCapabilityDenied(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "secrets", code: `exthost.secrets_get("k")`},
		{name: "notify", code: `exthost.show_message("info", "hi")`},
		{name: "state", code: `exthost.state_get("global", "k")`},
		{name: "config", code: `exthost.config_get("k")`},
		{name: "commands", code: `exthost.commands_execute("x")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.L.DoString(tt.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "capability denied")
		})
	}
}

func TestSecrets(t *testing.T) {
	f := newFixture(t, "secrets.*")
	f.run(t, `
		store_err = exthost.secrets_store("token", "s3cret")
		value, get_err = exthost.secrets_get("token")
		exthost.secrets_delete("token")
		gone = exthost.secrets_get("token")
	`)
	assert.Equal(t, lua.LNil, f.L.GetGlobal("store_err"))
	assert.Equal(t, "s3cret", f.L.GetGlobal("value").String())
	assert.Equal(t, lua.LNil, f.L.GetGlobal("get_err"))
	assert.Equal(t, lua.LNil, f.L.GetGlobal("gone"))
}

func TestState_ScopesAndCapabilities(t *testing.T) {
	f := newFixture(t, "state.global.*", "state.workspace.read")
	f.run(t, `
		exthost.state_update("global", "counter", 3)
		exthost.state_update("global", "list", {"a", "b"})
		counter = exthost.state_get("global", "counter")
		keys = exthost.state_keys("global")
		missing = exthost.state_get("workspace", "counter")
	`)
	assert.Equal(t, lua.LNumber(3), f.L.GetGlobal("counter"))
	keys := f.L.GetGlobal("keys").(*lua.LTable)
	assert.Equal(t, "counter", keys.RawGetInt(1).String())
	assert.Equal(t, "list", keys.RawGetInt(2).String())
	assert.Equal(t, lua.LNil, f.L.GetGlobal("missing"))

	v, ok := f.pctx.GlobalState.Get("list")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)

	err := f.L.DoString(`exthost.state_update("workspace", "k", 1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state.workspace.write")

	err = f.L.DoString(`exthost.state_get("machine", "k")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scope must be")
}

func TestConfiguration(t *testing.T) {
	f := newFixture(t, "config.*")
	require.NoError(t, f.pctx.Configuration.Update("echo.greeting", "hi"))
	f.run(t, `
		greeting = exthost.config_get("echo.greeting", "default")
		fallback = exthost.config_get("echo.absent", "default")
		exthost.config_update("echo.count", 7)
	`)
	assert.Equal(t, "hi", f.L.GetGlobal("greeting").String())
	assert.Equal(t, "default", f.L.GetGlobal("fallback").String())
	assert.Equal(t, 7, f.pctx.Configuration.Int("echo.count", 0))
}

func TestOnConfigChange_RunsThroughInvoker(t *testing.T) {
	f := newFixture(t, "config.*")
	f.run(t, `
		changed = nil
		exthost.on_config_change(function(key) changed = key end)
	`)
	assert.Equal(t, 1, f.pctx.SubscriptionCount())

	require.NoError(t, f.pctx.Configuration.Update("echo.mode", "fast"))
	assert.Equal(t, "echo.mode", f.L.GetGlobal("changed").String())
	assert.Equal(t, 1, f.invoker.async)

	f.pctx.DisposeSubscriptions()
	require.NoError(t, f.pctx.Configuration.Update("echo.mode", "slow"))
	assert.Equal(t, 1, f.invoker.async)
}

func TestCommands(t *testing.T) {
	f := newFixture(t, "commands.*")
	f.run(t, `
		reg_err = exthost.commands_register("echo.double", function(n) return n * 2 end)
		dup_err = exthost.commands_register("echo.double", function() end)
		result, exec_err = exthost.commands_execute("echo.double", 21)
		_, missing_err = exthost.commands_execute("echo.nothing")
	`)
	assert.Equal(t, lua.LNil, f.L.GetGlobal("reg_err"))
	assert.Contains(t, f.L.GetGlobal("dup_err").String(), "already registered")
	assert.Equal(t, lua.LNumber(42), f.L.GetGlobal("result"))
	assert.Equal(t, lua.LNil, f.L.GetGlobal("exec_err"))
	assert.Contains(t, f.L.GetGlobal("missing_err").String(), "not found")

	// Go callers reach the Lua handler through the registry
	out, err := f.pctx.Commands.Execute(context.Background(), "echo.double", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), out)

	// deactivation unregisters
	f.pctx.DisposeSubscriptions()
	assert.False(t, f.pctx.Commands.Has("echo.double"))
}

func TestShowMessage(t *testing.T) {
	f := newFixture(t, "window.notify")
	var got []shim.Notification
	f.pctx.Window.OnNotification(func(n shim.Notification) { got = append(got, n) })

	f.run(t, `choice = exthost.show_message("warning", "disk almost full", {"Retry", "Ignore"})`)

	assert.Equal(t, lua.LNil, f.L.GetGlobal("choice"))
	require.Len(t, got, 1)
	assert.Equal(t, shim.SeverityWarning, got[0].Severity)
	assert.Equal(t, []string{"Retry", "Ignore"}, got[0].Items)
}

func TestURIFunctions(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		u = exthost.uri_file("/tmp/work")
		joined = exthost.uri_join(u, "src", "main.go")
		path = exthost.uri_fspath(joined)
		_, not_file = exthost.uri_fspath("https://example.com/x")
	`)
	assert.Equal(t, "file:///tmp/work", f.L.GetGlobal("u").String())
	assert.Equal(t, "file:///tmp/work/src/main.go", f.L.GetGlobal("joined").String())
	assert.Equal(t, "/tmp/work/src/main.go", f.L.GetGlobal("path").String())
	assert.Contains(t, f.L.GetGlobal("not_file").String(), "not a file uri")
}

func TestJSONFunctions(t *testing.T) {
	f := newFixture(t)
	f.run(t, `
		encoded = exthost.json_encode({a = 1, list = {true, "x"}})
		decoded = exthost.json_decode('{"name":"echo","tags":["a","b"]}')
		_, bad = exthost.json_decode("{")
	`)
	assert.JSONEq(t, `{"a":1,"list":[true,"x"]}`, f.L.GetGlobal("encoded").String())
	decoded := f.L.GetGlobal("decoded").(*lua.LTable)
	assert.Equal(t, "echo", decoded.RawGetString("name").String())
	assert.Equal(t, "b", decoded.RawGetString("tags").(*lua.LTable).RawGetInt(2).String())
	assert.Equal(t, "invalid JSON", f.L.GetGlobal("bad").String())
}
