// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package hostfunc

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// ToGo converts a Lua value to plain Go data: nil, bool, int64, float64,
// string, []any or map[string]any. A table whose keys are exactly 1..n
// becomes a slice; any other table becomes a map with string keys.
// Functions and userdata have no Go form and are rejected, as are tables
// that contain themselves.
func ToGo(lv lua.LValue) (any, error) {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visiting map[*lua.LTable]bool) (any, error) {
	switch v := lv.(type) {
	case nil, *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		if visiting[v] {
			return nil, oops.In("hostfunc").New("cannot convert a table that contains itself")
		}
		visiting[v] = true
		defer delete(visiting, v)
		return tableToGo(v, visiting)
	default:
		return nil, oops.In("hostfunc").With("lua_type", lv.Type().String()).
			Errorf("cannot convert %s to a host value", lv.Type())
	}
}

func tableToGo(t *lua.LTable, visiting map[*lua.LTable]bool) (any, error) {
	if n := arrayLen(t); n > 0 {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			v, err := toGo(t.RawGetInt(i), visiting)
			if err != nil {
				return nil, err
			}
			out[i-1] = v
		}
		return out, nil
	}

	out := make(map[string]any)
	var convErr error
	t.ForEach(func(k, v lua.LValue) {
		if convErr != nil {
			return
		}
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			convErr = oops.In("hostfunc").Errorf("unsupported table key type %s", k.Type())
			return
		}
		gv, err := toGo(v, visiting)
		if err != nil {
			convErr = err
			return
		}
		out[key] = gv
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

// arrayLen returns n when the table's keys are exactly 1..n, else 0.
func arrayLen(t *lua.LTable) int {
	count, maxN := 0, 0
	array := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != math.Trunc(float64(kn)) || kn < 1 {
			array = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})
	if !array || count != maxN {
		return 0
	}
	return maxN
}

// ToLua converts Go data to a Lua value owned by L. Values outside the
// basic set are encoded through JSON first, so structs arrive as tables
// keyed by their JSON field names.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	switch val := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return val, nil
	case bool:
		return lua.LBool(val), nil
	case string:
		return lua.LString(val), nil
	case []byte:
		return lua.LString(val), nil
	case int:
		return lua.LNumber(val), nil
	case int32:
		return lua.LNumber(val), nil
	case int64:
		return lua.LNumber(val), nil
	case uint:
		return lua.LNumber(val), nil
	case uint32:
		return lua.LNumber(val), nil
	case uint64:
		return lua.LNumber(val), nil
	case float32:
		return lua.LNumber(val), nil
	case float64:
		return lua.LNumber(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, oops.In("hostfunc").Wrapf(err, "convert number")
		}
		return lua.LNumber(f), nil
	case json.RawMessage:
		if len(val) == 0 {
			return lua.LNil, nil
		}
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return nil, oops.In("hostfunc").Wrapf(err, "decode JSON value")
		}
		return ToLua(L, decoded)
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, item := range val {
			lv, err := ToLua(L, item)
			if err != nil {
				return nil, err
			}
			t.RawSetInt(i+1, lv)
		}
		return t, nil
	case []string:
		t := L.CreateTable(len(val), 0)
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t, nil
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, item := range val {
			lv, err := ToLua(L, item)
			if err != nil {
				return nil, err
			}
			t.RawSetString(k, lv)
		}
		return t, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, oops.In("hostfunc").Wrapf(err, "encode %T", v)
		}
		return ToLua(L, json.RawMessage(data))
	}
}

// ToJSON converts a Lua value to its JSON encoding.
func ToJSON(lv lua.LValue) (json.RawMessage, error) {
	v, err := ToGo(lv)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, oops.In("hostfunc").Wrapf(err, "encode JSON")
	}
	return data, nil
}
