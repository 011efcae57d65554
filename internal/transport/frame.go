// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package transport exposes an extension service to a terminal client as
// a stream of JSON frames, over stdio lines or WebSocket messages.
//
// Clients send requests:
//
//	{"id":"1","op":"send","message":{"type":"newTask","payload":{"text":"hi"}}}
//
// and receive results and service events:
//
//	{"event":"result","id":"1"}
//	{"event":"stateChange","data":{...}}
package transport

import (
	"encoding/json"
	"errors"

	"github.com/holomush/exthost/internal/service"
	"github.com/holomush/exthost/pkg/errutil"
	"github.com/holomush/exthost/pkg/protocol"
)

// Op names a client request.
type Op string

// Client operations.
const (
	OpInitialize Op = "initialize"
	OpSend       Op = "send"
	OpRequest    Op = "request"
	OpRespond    Op = "respond"
	OpComplete   Op = "complete"
	OpState      Op = "state"
	OpHealth     Op = "health"
	OpExecute    Op = "execute"
	OpStartTask  Op = "startTask"
	OpCancelTask Op = "cancelTask"
	OpTerminal   Op = "terminal"
	OpDispose    Op = "dispose"
)

// EventResult is the frame event answering a request.
const EventResult = "result"

// ErrMalformed marks an inbound frame that could not be decoded. The
// session reports it and keeps reading.
var ErrMalformed = errors.New("malformed request")

// Request is one inbound frame. Which fields matter depends on Op.
type Request struct {
	ID        string             `json:"id,omitempty"`
	Op        Op                 `json:"op"`
	Message   *protocol.Envelope `json:"message,omitempty"`
	Prompt    string             `json:"prompt,omitempty"`
	TimeoutMS int64              `json:"timeoutMs,omitempty"`
	RequestID string             `json:"requestId,omitempty"`
	Result    json.RawMessage    `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Command   string             `json:"command,omitempty"`
	Args      json.RawMessage    `json:"args,omitempty"`
	Text      string             `json:"text,omitempty"`
	Images    []string           `json:"images,omitempty"`
	TaskID    string             `json:"taskId,omitempty"`
	Operation string             `json:"operation,omitempty"`
}

// Frame is one outbound frame.
type Frame struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// FaultData describes an extension fault in "error" and "warning" frames.
type FaultData struct {
	Context     string `json:"context"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// resultFrame answers request id with data or err.
func resultFrame(id string, data any, err error) Frame {
	f := Frame{Event: EventResult, ID: id}
	if err != nil {
		f.Error = err.Error()
		f.Code = errutil.Code(err)
		return f
	}
	f.Data = data
	return f
}

// eventFrame renders a service event.
func eventFrame(ev service.Event) Frame {
	f := Frame{Event: string(ev.Type)}
	switch ev.Type {
	case service.EventStateChange:
		f.Data = ev.State
	case service.EventMessage:
		f.Data = ev.Message
	case service.EventError, service.EventWarning:
		if ev.Fault != nil {
			f.Data = FaultData{
				Context:     ev.Fault.Context,
				Message:     ev.Fault.Err.Error(),
				Recoverable: ev.Fault.Recoverable,
			}
		}
	case service.EventNotification:
		f.Data = ev.Notification
	}
	return f
}
