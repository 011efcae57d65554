// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package hostfunc

import (
	"context"
	"encoding/json"

	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/exthost/internal/plugin/capability"
	"github.com/holomush/exthost/internal/shim"
)

func showMessageFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		severity := shim.ParseSeverity(L.CheckString(1))
		text := L.CheckString(2)
		var items []string
		if tbl, ok := L.Get(3).(*lua.LTable); ok {
			tbl.ForEach(func(_, v lua.LValue) {
				items = append(items, v.String())
			})
		}
		selected, ok := b.Context.Window.ShowMessage(contextOf(L), severity, text, items...)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(selected))
		return 1
	}
}

func secretsGetFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		key := L.CheckString(1)
		value, ok, err := b.Context.Secrets.Get(contextOf(L), key)
		if err != nil {
			return pushError(L, err.Error())
		}
		if !ok {
			return pushSuccess(L, lua.LNil)
		}
		return pushSuccess(L, lua.LString(value))
	}
}

func secretsStoreFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		key := L.CheckString(1)
		value := L.CheckString(2)
		if err := b.Context.Secrets.Store(contextOf(L), key, value); err != nil {
			return pushErr(L, err.Error())
		}
		return 0
	}
}

func secretsDeleteFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		if err := b.Context.Secrets.Delete(contextOf(L), L.CheckString(1)); err != nil {
			return pushErr(L, err.Error())
		}
		return 0
	}
}

// memento resolves a scope argument and checks the matching capability.
func (f *Functions) memento(L *lua.LState, b Binding, write bool) shim.Memento {
	scope := shim.Scope(L.CheckString(1))
	var store shim.Memento
	var read, wr string
	switch scope {
	case shim.ScopeGlobal:
		store, read, wr = b.Context.GlobalState, capability.GlobalStateRead, capability.GlobalStateWrite
	case shim.ScopeWorkspace:
		store, read, wr = b.Context.WorkspaceState, capability.WorkspaceRead, capability.WorkspaceWrite
	default:
		L.ArgError(1, "scope must be 'global' or 'workspace'")
		return nil
	}
	capName := read
	if write {
		capName = wr
	}
	if !f.check(L, b.ExtensionID, capName) {
		return nil
	}
	return store
}

func (f *Functions) stateGetFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		store := f.memento(L, b, false)
		if store == nil {
			return 0
		}
		value, ok := store.Get(L.CheckString(2))
		if !ok {
			return pushSuccess(L, lua.LNil)
		}
		return pushGo(L, value)
	}
}

func (f *Functions) stateKeysFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		store := f.memento(L, b, false)
		if store == nil {
			return 0
		}
		return pushGo(L, store.Keys())
	}
}

func (f *Functions) stateUpdateFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		store := f.memento(L, b, true)
		if store == nil {
			return 0
		}
		key := L.CheckString(2)
		value, err := ToGo(L.Get(3))
		if err != nil {
			return pushErr(L, err.Error())
		}
		if err := store.Update(contextOf(L), key, value); err != nil {
			return pushErr(L, err.Error())
		}
		return 0
	}
}

func configGetFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		key := L.CheckString(1)
		value, ok := b.Context.Configuration.Get(key)
		if !ok {
			L.Push(L.Get(2))
			return 1
		}
		lv, err := ToLua(L, value)
		if err != nil {
			L.Push(L.Get(2))
			return 1
		}
		L.Push(lv)
		return 1
	}
}

func configUpdateFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		key := L.CheckString(1)
		value, err := ToGo(L.Get(2))
		if err != nil {
			return pushErr(L, err.Error())
		}
		if err := b.Context.Configuration.Update(key, value); err != nil {
			return pushErr(L, err.Error())
		}
		return 0
	}
}

// Change listeners run later through the invoker: the change may be fired
// while the extension is still inside the call that caused it.
func onConfigChangeFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		fn := L.CheckFunction(1)
		b.Context.Subscribe(b.Context.Configuration.OnDidChange(func(key string) {
			b.Invoker.Go(fn, key)
		}))
		return 0
	}
}

func onSecretChangeFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		fn := L.CheckFunction(1)
		b.Context.Subscribe(b.Context.Secrets.OnDidChange(func(key string) {
			b.Invoker.Go(fn, key)
		}))
		return 0
	}
}

func commandsRegisterFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)
		fn := L.CheckFunction(2)
		d, err := b.Context.Commands.Register(id, func(ctx context.Context, args ...any) (any, error) {
			return b.Invoker.Call(ctx, fn, args...)
		})
		if err != nil {
			return pushErr(L, err.Error())
		}
		b.Context.Subscribe(d)
		return 0
	}
}

func commandsExecuteFn(b Binding) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)
		args, err := argsToGo(L, 2)
		if err != nil {
			return pushError(L, err.Error())
		}
		result, err := b.Context.Commands.Execute(contextOf(L), id, args...)
		if err != nil {
			return pushError(L, err.Error())
		}
		return pushGo(L, result)
	}
}

func uriFileFn(L *lua.LState) int {
	L.Push(lua.LString(shim.FileURI(L.CheckString(1)).String()))
	return 1
}

func uriJoinFn(L *lua.LState) int {
	base, err := shim.ParseURI(L.CheckString(1))
	if err != nil {
		return pushError(L, err.Error())
	}
	segments := make([]string, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		segments = append(segments, L.CheckString(i))
	}
	return pushSuccess(L, lua.LString(base.JoinPath(segments...).String()))
}

func uriFSPathFn(L *lua.LState) int {
	u, err := shim.ParseURI(L.CheckString(1))
	if err != nil {
		return pushError(L, err.Error())
	}
	if u.Scheme != "file" {
		return pushError(L, "not a file uri: "+u.String())
	}
	return pushSuccess(L, lua.LString(u.FSPath()))
}

func jsonEncodeFn(L *lua.LState) int {
	data, err := ToJSON(L.Get(1))
	if err != nil {
		return pushError(L, err.Error())
	}
	return pushSuccess(L, lua.LString(data))
}

func jsonDecodeFn(L *lua.LState) int {
	s := L.CheckString(1)
	if !json.Valid([]byte(s)) {
		return pushError(L, "invalid JSON")
	}
	return pushGo(L, json.RawMessage(s))
}
