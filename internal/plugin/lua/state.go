// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package lua runs Lua extensions in sandboxed gopher-lua states.
package lua

import (
	"bytes"
	"context"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// library is a Lua standard library the sandbox opens.
type library struct {
	name string
	open lua.LGFunction
}

// sandboxLibraries are opened in every state. os, io, debug, and package
// are never opened.
func sandboxLibraries() []library {
	return []library{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.CoroutineLibName, lua.OpenCoroutine},
	}
}

// blockedGlobals are base functions that reach the filesystem or compile
// arbitrary code.
var blockedGlobals = []string{"dofile", "loadfile", "loadstring", "load", "require", "module"}

// Limits bound the resources of one state.
type Limits struct {
	CallStackSize int
	RegistrySize  int
}

// DefaultLimits are used when a factory is created without limits.
var DefaultLimits = Limits{CallStackSize: 256, RegistrySize: 64 * 1024}

// StateFactory creates sandboxed states.
type StateFactory struct {
	libraries []library
	limits    Limits
}

// NewStateFactory creates a factory with DefaultLimits.
func NewStateFactory() *StateFactory {
	return &StateFactory{libraries: sandboxLibraries(), limits: DefaultLimits}
}

// NewStateFactoryWithLimits creates a factory with custom limits.
func NewStateFactoryWithLimits(limits Limits) *StateFactory {
	return &StateFactory{libraries: sandboxLibraries(), limits: limits}
}

// NewState creates a state with only sandbox libraries loaded. When ctx
// is cancellable, running Lua code aborts once it is done.
func (f *StateFactory) NewState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: f.limits.CallStackSize,
		RegistrySize:  f.limits.RegistrySize,
	})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.In("lua").With("library", lib.name).Wrapf(err, "failed to open library %s", lib.name)
		}
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if ctx != nil && ctx.Done() != nil {
		L.SetContext(ctx)
	}
	return L, nil
}

// Compile parses and compiles src once so it can be loaded into many
// states.
func Compile(name string, src []byte) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(bytes.NewReader(src), name)
	if err != nil {
		return nil, oops.In("lua").Code("LUA_SYNTAX").With("chunk", name).Hint("syntax error").Wrap(err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, oops.In("lua").Code("LUA_SYNTAX").With("chunk", name).Wrapf(err, "compile")
	}
	return proto, nil
}
