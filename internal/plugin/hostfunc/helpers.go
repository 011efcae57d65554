// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package hostfunc note: L is the idiomatic variable name for lua.LState
// in the gopher-lua community.
//nolint:gocritic // captLocal: L is the idiomatic name for lua.LState
package hostfunc

import (
	"context"
	"encoding/json"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/exthost/pkg/protocol"
)

// pushError pushes nil followed by an error string and returns 2. Getters
// use it so Lua sees (value, err).
func pushError(L *lua.LState, errMsg string) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(errMsg))
	return 2
}

// pushSuccess pushes a value followed by nil and returns 2.
func pushSuccess(L *lua.LState, value lua.LValue) int {
	L.Push(value)
	L.Push(lua.LNil)
	return 2
}

// pushErr pushes a lone error string and returns 1. Setters use it and
// return nothing on success.
func pushErr(L *lua.LState, errMsg string) int {
	L.Push(lua.LString(errMsg))
	return 1
}

// pushGo converts v and pushes it as a (value, err) pair.
func pushGo(L *lua.LState, v any) int {
	lv, err := ToLua(L, v)
	if err != nil {
		return pushError(L, err.Error())
	}
	return pushSuccess(L, lv)
}

// contextOf returns the context of the operation that entered Lua.
func contextOf(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// envelopeFromLua reads {type=..., id=..., payload=...} into an envelope.
func envelopeFromLua(t *lua.LTable) (protocol.Envelope, error) {
	msgType, ok := t.RawGetString("type").(lua.LString)
	if !ok || msgType == "" {
		return protocol.Envelope{}, oops.In("hostfunc").New("message type is required")
	}
	env := protocol.Envelope{Type: protocol.MessageType(msgType)}
	if id, ok := t.RawGetString("id").(lua.LString); ok {
		env.ID = string(id)
	}
	if payload := t.RawGetString("payload"); payload != lua.LNil {
		raw, err := ToJSON(payload)
		if err != nil {
			return protocol.Envelope{}, oops.In("hostfunc").With("type", string(msgType)).Wrapf(err, "encode payload")
		}
		env.Payload = raw
	}
	return env, nil
}

// EnvelopeToLua converts an envelope to the table form Lua handlers receive.
func EnvelopeToLua(L *lua.LState, env protocol.Envelope) (*lua.LTable, error) {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(env.Type))
	if env.ID != "" {
		t.RawSetString("id", lua.LString(env.ID))
	}
	if len(env.Payload) > 0 {
		payload, err := ToLua(L, json.RawMessage(env.Payload))
		if err != nil {
			return nil, oops.In("hostfunc").With("type", string(env.Type)).Wrapf(err, "decode payload")
		}
		t.RawSetString("payload", payload)
	}
	return t, nil
}

// argsToGo converts the arguments from index start onward.
func argsToGo(L *lua.LState, start int) ([]any, error) {
	top := L.GetTop()
	if top < start {
		return nil, nil
	}
	args := make([]any, 0, top-start+1)
	for i := start; i <= top; i++ {
		v, err := ToGo(L.Get(i))
		if err != nil {
			return nil, oops.In("hostfunc").With("arg", i).Wrap(err)
		}
		args = append(args, v)
	}
	return args, nil
}
