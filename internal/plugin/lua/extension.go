// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/plugin/hostfunc"
	"github.com/holomush/exthost/pkg/protocol"
)

// Entry points looked up in the chunk and in the API table it returns.
const (
	fnActivate      = "activate"
	fnDeactivate    = "deactivate"
	fnHandleMessage = "handle_message"
	fnGetState      = "get_state"
	fnStartTask     = "start_task"
	fnCancelTask    = "cancel_task"
	fnTerminalOp    = "terminal_operation"
)

// ErrNotActive is returned when a call arrives while no state is running.
var ErrNotActive = errors.New("lua extension is not active")

// ownerKey marks a context as already running inside an extension's state.
type ownerKey struct{}

type owner struct {
	ext   *Extension
	state *lua.LState
}

// Extension is one Lua extension. Each activation runs the compiled entry
// chunk in a fresh state; deactivation closes it. A state is driven by one
// goroutine at a time.
type Extension struct {
	id      string
	proto   *lua.FunctionProto
	factory *StateFactory
	funcs   *hostfunc.Functions
	logger  *slog.Logger

	mu    sync.Mutex
	state *lua.LState

	asyncMu sync.Mutex
	closing bool
	async   sync.WaitGroup
}

// Compile-time interface checks.
var (
	_ host.Plugin      = (*Extension)(nil)
	_ host.Deactivator = (*Extension)(nil)
	_ hostfunc.Invoker = (*Extension)(nil)
)

// NewExtension wraps a compiled entry chunk.
func NewExtension(id string, proto *lua.FunctionProto, factory *StateFactory, funcs *hostfunc.Functions, logger *slog.Logger) *Extension {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extension{
		id:      id,
		proto:   proto,
		factory: factory,
		funcs:   funcs,
		logger:  logger.With("extension", id),
	}
}

// ID returns the extension id.
func (e *Extension) ID() string { return e.id }

// Activate runs the entry chunk and calls its global activate function with
// a table describing the host. activate must return the API table, which
// needs at least handle_message.
func (e *Extension) Activate(ctx context.Context, pctx *host.Context) (host.API, error) {
	L, err := e.factory.NewState(context.Background())
	if err != nil {
		return nil, err
	}
	e.funcs.Register(L, hostfunc.Binding{ExtensionID: e.id, Context: pctx, Invoker: e})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != nil {
		L.Close()
		return nil, oops.In("lua").With("extension", e.id).New("extension already active")
	}

	var api *extensionAPI
	err = e.run(ctx, L, func(ctx context.Context) error {
		L.Push(L.NewFunctionFromProto(e.proto))
		if err := L.PCall(0, 0, nil); err != nil {
			return e.luaError("load", err)
		}
		activate, ok := L.GetGlobal(fnActivate).(*lua.LFunction)
		if !ok {
			return oops.In("lua").With("extension", e.id).Hint("define a global activate(context) function").
				New("entry does not define activate")
		}
		info, err := hostfunc.ToLua(L, contextInfo(e.id, pctx))
		if err != nil {
			return err
		}
		if err := L.CallByParam(lua.P{Fn: activate, NRet: 1, Protect: true}, info); err != nil {
			return e.luaError(fnActivate, err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		tbl, ok := ret.(*lua.LTable)
		if !ok {
			return oops.In("lua").With("extension", e.id).With("returned", ret.Type().String()).
				New("activate must return an API table")
		}
		if _, ok := tbl.RawGetString(fnHandleMessage).(*lua.LFunction); !ok {
			return oops.In("lua").With("extension", e.id).New("API table has no handle_message function")
		}
		api = &extensionAPI{ext: e, table: tbl}
		return nil
	})
	if err != nil {
		L.Close()
		return nil, err
	}
	e.state = L
	e.asyncMu.Lock()
	e.closing = false
	e.asyncMu.Unlock()
	return api, nil
}

// Deactivate calls the optional global deactivate function and closes the
// state. Pending listener callbacks are dropped.
func (e *Extension) Deactivate(ctx context.Context) error {
	e.mu.Lock()
	L := e.state
	if L == nil {
		e.mu.Unlock()
		return nil
	}
	var hookErr error
	if fn, ok := L.GetGlobal(fnDeactivate).(*lua.LFunction); ok {
		hookErr = e.run(ctx, L, func(context.Context) error {
			if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
				return e.luaError(fnDeactivate, err)
			}
			return nil
		})
	}
	e.state = nil
	e.mu.Unlock()

	e.drain()
	L.Close()
	return hookErr
}

// close tears the state down without running deactivate.
func (e *Extension) close() {
	e.mu.Lock()
	L := e.state
	e.state = nil
	e.mu.Unlock()
	if L != nil {
		e.drain()
		L.Close()
	}
}

// drain stops new listener callbacks and waits for running ones.
func (e *Extension) drain() {
	e.asyncMu.Lock()
	e.closing = true
	e.asyncMu.Unlock()
	e.async.Wait()
}

// Call implements hostfunc.Invoker. A call made from inside this
// extension's own state runs directly; any other call takes the lock.
func (e *Extension) Call(ctx context.Context, fn *lua.LFunction, args ...any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// Inside our own state the lock is already held further up the stack.
	if o, ok := ctx.Value(ownerKey{}).(owner); ok && o.ext == e {
		return e.callFunction(o.state, fn, args)
	}
	var out any
	err := e.with(ctx, func(_ context.Context, L *lua.LState) error {
		var err error
		out, err = e.callFunction(L, fn, args)
		return err
	})
	return out, err
}

// Go implements hostfunc.Invoker.
func (e *Extension) Go(fn *lua.LFunction, args ...any) {
	e.asyncMu.Lock()
	if e.closing {
		e.asyncMu.Unlock()
		return
	}
	e.async.Add(1)
	e.asyncMu.Unlock()
	go func() {
		defer e.async.Done()
		_, err := e.Call(context.Background(), fn, args...)
		if err != nil && !errors.Is(err, ErrNotActive) {
			e.logger.Warn("listener callback failed", "error", err)
		}
	}()
}

// with runs fn on the active state under the lock.
func (e *Extension) with(ctx context.Context, fn func(ctx context.Context, L *lua.LState) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	L := e.state
	if L == nil {
		return oops.In("lua").With("extension", e.id).Wrap(ErrNotActive)
	}
	return e.run(ctx, L, func(ctx context.Context) error { return fn(ctx, L) })
}

// run binds ctx to L for the duration of fn. Callers hold e.mu.
func (e *Extension) run(ctx context.Context, L *lua.LState, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ownerKey{}, owner{ext: e, state: L})
	L.SetContext(ctx)
	defer L.RemoveContext()
	return fn(ctx)
}

func (e *Extension) callFunction(L *lua.LState, fn *lua.LFunction, args []any) (any, error) {
	lvs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		lv, err := hostfunc.ToLua(L, a)
		if err != nil {
			return nil, err
		}
		lvs = append(lvs, lv)
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lvs...); err != nil {
		return nil, e.luaError("callback", err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return hostfunc.ToGo(ret)
}

// callAPI calls a function of the API table. ok is false when the table
// does not define name.
func (e *Extension) callAPI(ctx context.Context, table *lua.LTable, name string, args ...any) (out any, ok bool, err error) {
	err = e.with(ctx, func(_ context.Context, L *lua.LState) error {
		fn, isFn := table.RawGetString(name).(*lua.LFunction)
		if !isFn {
			return nil
		}
		ok = true
		lvs := make([]lua.LValue, 0, len(args))
		for _, a := range args {
			var lv lua.LValue
			var convErr error
			if env, isEnv := a.(protocol.Envelope); isEnv {
				lv, convErr = hostfunc.EnvelopeToLua(L, env)
			} else {
				lv, convErr = hostfunc.ToLua(L, a)
			}
			if convErr != nil {
				return convErr
			}
			lvs = append(lvs, lv)
		}
		if callErr := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lvs...); callErr != nil {
			return e.luaError(name, callErr)
		}
		ret := L.Get(-1)
		L.Pop(1)
		var convErr error
		out, convErr = hostfunc.ToGo(ret)
		return convErr
	})
	return out, ok, err
}

// luaError converts a Lua error. error({message = ..., recoverable = true})
// becomes a recoverable error.
func (e *Extension) luaError(op string, err error) error {
	errb := oops.In("lua").With("extension", e.id).With("operation", op)

	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if tbl, ok := apiErr.Object.(*lua.LTable); ok {
			msg := tbl.RawGetString("message")
			if msg == lua.LNil {
				msg = lua.LString("extension error")
			}
			out := errb.New(msg.String())
			if lua.LVAsBool(tbl.RawGetString("recoverable")) {
				return host.MarkRecoverable(out)
			}
			return out
		}
	}
	return errb.Wrap(err)
}

// contextInfo is the table passed to activate.
func contextInfo(id string, pctx *host.Context) map[string]any {
	info := map[string]any{
		"extension_id": id,
		"session_id":   pctx.Identity.SessionID,
		"machine_id":   pctx.Identity.MachineID,
		"app_name":     pctx.Identity.AppName,
		"app_version":  pctx.Identity.AppVersion,
	}
	if !pctx.WorkspaceRoot.IsZero() {
		info["workspace_root"] = pctx.WorkspaceRoot.String()
	}
	if !pctx.ExtensionRoot.IsZero() {
		info["extension_root"] = pctx.ExtensionRoot.String()
	}
	return info
}

// extensionAPI adapts the Lua API table to host.API and its optional
// interfaces. Functions the table lacks report host.ErrNotImplemented.
type extensionAPI struct {
	ext   *Extension
	table *lua.LTable
}

var (
	_ host.StateProvider   = (*extensionAPI)(nil)
	_ host.TaskRunner      = (*extensionAPI)(nil)
	_ host.TerminalHandler = (*extensionAPI)(nil)
	_ host.Serializer      = (*extensionAPI)(nil)
)

func (a *extensionAPI) notImplemented(name string) error {
	return oops.In("lua").With("extension", a.ext.id).With("function", name).Wrap(host.ErrNotImplemented)
}

// SerializesMessages implements host.Serializer. One Lua state runs one
// handler at a time.
func (a *extensionAPI) SerializesMessages() bool { return true }

// HandleWebviewMessage implements host.API.
func (a *extensionAPI) HandleWebviewMessage(ctx context.Context, env protocol.Envelope) error {
	_, _, err := a.ext.callAPI(ctx, a.table, fnHandleMessage, env)
	return err
}

// State implements host.StateProvider.
func (a *extensionAPI) State(ctx context.Context) (json.RawMessage, error) {
	out, ok, err := a.ext.callAPI(ctx, a.table, fnGetState)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, a.notImplemented(fnGetState)
	}
	if out == nil {
		return nil, nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, oops.In("lua").With("extension", a.ext.id).Wrapf(err, "encode state")
	}
	return data, nil
}

// StartTask implements host.TaskRunner.
func (a *extensionAPI) StartTask(ctx context.Context, text string, images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	out, ok, err := a.ext.callAPI(ctx, a.table, fnStartTask, text, images)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", a.notImplemented(fnStartTask)
	}
	id, _ := out.(string)
	return id, nil
}

// CancelTask implements host.TaskRunner.
func (a *extensionAPI) CancelTask(ctx context.Context, taskID string) error {
	_, ok, err := a.ext.callAPI(ctx, a.table, fnCancelTask, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return a.notImplemented(fnCancelTask)
	}
	return nil
}

// HandleTerminalOperation implements host.TerminalHandler.
func (a *extensionAPI) HandleTerminalOperation(ctx context.Context, op string, args json.RawMessage) error {
	_, ok, err := a.ext.callAPI(ctx, a.table, fnTerminalOp, op, args)
	if err != nil {
		return err
	}
	if !ok {
		return a.notImplemented(fnTerminalOp)
	}
	return nil
}
