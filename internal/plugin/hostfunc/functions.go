// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package hostfunc exposes host services to Lua extensions as the global
// "exthost" module.
//
// Functions that touch secrets, state, configuration, commands, or the
// notification surface are gated by capability. A denied call raises a Lua
// error; every other failure is returned to Lua as a trailing error string.
package hostfunc

import (
	"context"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/pkg/protocol"
)

// ModuleName is the Lua global the functions are registered under.
const ModuleName = "exthost"

// Invoker calls back into the Lua state that owns a function value.
type Invoker interface {
	// Call runs fn with args and returns its first result. ctx is the
	// context of the calling operation.
	Call(ctx context.Context, fn *lua.LFunction, args ...any) (any, error)
	// Go runs fn with args later, without waiting for it.
	Go(fn *lua.LFunction, args ...any)
}

// Binding is what one extension's functions act on.
type Binding struct {
	ExtensionID string
	Context     *host.Context
	Invoker     Invoker
}

// Functions registers host functions into Lua states.
type Functions struct {
	enforcer *capability.Enforcer
	logger   *slog.Logger
}

// Option configures Functions.
type Option func(*Functions)

// WithLogger sets the logger used by exthost.log.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Functions) { f.logger = logger }
}

// New creates host functions gated by enforcer. Panics if enforcer is nil.
func New(enforcer *capability.Enforcer, opts ...Option) *Functions {
	if enforcer == nil {
		panic("hostfunc.New: enforcer cannot be nil")
	}
	f := &Functions{enforcer: enforcer, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register installs the exthost module into ls for one extension.
func (f *Functions) Register(ls *lua.LState, b Binding) {
	mod := ls.NewTable()
	id := b.ExtensionID

	// ungated
	ls.SetField(mod, "log", ls.NewFunction(f.logFn(b)))
	ls.SetField(mod, "new_request_id", ls.NewFunction(newRequestIDFn))
	ls.SetField(mod, "post_message", ls.NewFunction(postMessageFn(b)))
	ls.SetField(mod, "json_encode", ls.NewFunction(jsonEncodeFn))
	ls.SetField(mod, "json_decode", ls.NewFunction(jsonDecodeFn))
	ls.SetField(mod, "uri_file", ls.NewFunction(uriFileFn))
	ls.SetField(mod, "uri_join", ls.NewFunction(uriJoinFn))
	ls.SetField(mod, "uri_fspath", ls.NewFunction(uriFSPathFn))

	ls.SetField(mod, "show_message", ls.NewFunction(f.wrap(id, capability.WindowNotify, showMessageFn(b))))

	ls.SetField(mod, "secrets_get", ls.NewFunction(f.wrap(id, capability.SecretsRead, secretsGetFn(b))))
	ls.SetField(mod, "secrets_store", ls.NewFunction(f.wrap(id, capability.SecretsWrite, secretsStoreFn(b))))
	ls.SetField(mod, "secrets_delete", ls.NewFunction(f.wrap(id, capability.SecretsWrite, secretsDeleteFn(b))))
	ls.SetField(mod, "on_secret_change", ls.NewFunction(f.wrap(id, capability.SecretsRead, onSecretChangeFn(b))))

	ls.SetField(mod, "state_get", ls.NewFunction(f.stateGetFn(b)))
	ls.SetField(mod, "state_keys", ls.NewFunction(f.stateKeysFn(b)))
	ls.SetField(mod, "state_update", ls.NewFunction(f.stateUpdateFn(b)))

	ls.SetField(mod, "config_get", ls.NewFunction(f.wrap(id, capability.ConfigRead, configGetFn(b))))
	ls.SetField(mod, "config_update", ls.NewFunction(f.wrap(id, capability.ConfigWrite, configUpdateFn(b))))
	ls.SetField(mod, "on_config_change", ls.NewFunction(f.wrap(id, capability.ConfigRead, onConfigChangeFn(b))))

	ls.SetField(mod, "commands_register", ls.NewFunction(f.wrap(id, capability.CommandsRegister, commandsRegisterFn(b))))
	ls.SetField(mod, "commands_execute", ls.NewFunction(f.wrap(id, capability.CommandsExecute, commandsExecuteFn(b))))

	ls.SetGlobal(ModuleName, mod)
}

func (f *Functions) wrap(extension, capName string, fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		if !f.check(L, extension, capName) {
			return 0
		}
		return fn(L)
	}
}

// check raises a Lua error when extension lacks capName.
func (f *Functions) check(L *lua.LState, extension, capName string) bool {
	if f.enforcer.Check(extension, capName) {
		return true
	}
	L.RaiseError("capability denied: %s requires %s", extension, capName)
	return false
}

func (f *Functions) logFn(b Binding) lua.LGFunction {
	logger := f.logger.With("extension", b.ExtensionID)
	return func(L *lua.LState) int {
		level := L.CheckString(1)
		message := L.CheckString(2)

		ctx := contextOf(L)
		switch level {
		case "debug":
			logger.DebugContext(ctx, message)
		case "warn":
			logger.WarnContext(ctx, message)
		case "error":
			logger.ErrorContext(ctx, message)
		default:
			logger.InfoContext(ctx, message)
		}
		return 0
	}
}

func newRequestIDFn(L *lua.LState) int {
	L.Push(lua.LString(protocol.NewID()))
	return 1
}

func postMessageFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		env, err := envelopeFromLua(L.CheckTable(1))
		if err != nil {
			return pushErr(L, err.Error())
		}
		if err := b.Context.PostMessage(contextOf(L), env); err != nil {
			return pushErr(L, err.Error())
		}
		return 0
	}
}
