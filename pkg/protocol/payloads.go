// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package protocol

import "encoding/json"

// Payload is implemented by every typed message payload. The set is closed:
// only types in this package satisfy it.
type Payload interface {
	Kind() MessageType
	payload()
}

// payloadTypes maps each known discriminator to a constructor for its payload.
var payloadTypes = map[MessageType]func() Payload{
	TypeState:                   func() Payload { return &StatePayload{} },
	TypeWebviewDidLaunch:        func() Payload { return &WebviewDidLaunchPayload{} },
	TypeNewTask:                 func() Payload { return &NewTaskPayload{} },
	TypeCancelTask:              func() Payload { return &CancelTaskPayload{} },
	TypeAskResponse:             func() Payload { return &AskResponsePayload{} },
	TypeSingleCompletionRequest: func() Payload { return &CompletionRequestPayload{} },
	TypeSingleCompletionResult:  func() Payload { return &CompletionResultPayload{} },
	TypeNotification:            func() Payload { return &NotificationPayload{} },
	TypeInvoke:                  func() Payload { return &InvokePayload{} },
	TypeResponse:                func() Payload { return &ResponsePayload{} },
}

// StatePayload is a state snapshot pushed by the extension. The snapshot
// itself is opaque to the host.
type StatePayload struct {
	State json.RawMessage `json:"state"`
}

// WebviewDidLaunchPayload announces that a front end attached.
type WebviewDidLaunchPayload struct {
	Client string `json:"client,omitempty"`
}

// NewTaskPayload starts a unit of work in the extension.
type NewTaskPayload struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// CancelTaskPayload cancels the current unit of work.
type CancelTaskPayload struct {
	TaskID string `json:"taskId,omitempty"`
}

// AskResponsePayload answers a question the extension asked the user.
type AskResponsePayload struct {
	Response string `json:"askResponse"`
	Text     string `json:"text,omitempty"`
}

// CompletionRequestPayload asks the extension for a single completion.
// RequestID is an application-level correlation id, independent of the
// envelope ID used by the bridge.
type CompletionRequestPayload struct {
	RequestID string `json:"requestId"`
	Prompt    string `json:"prompt"`
}

// CompletionResultPayload answers a CompletionRequestPayload. Exactly one of
// Text or Error is meaningful, selected by Success.
type CompletionResultPayload struct {
	RequestID string `json:"requestId"`
	Success   bool   `json:"success"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NotificationPayload is a user-facing notification raised by the extension.
type NotificationPayload struct {
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Items    []string `json:"items,omitempty"`
}

// InvokePayload asks the front end to perform a named action.
type InvokePayload struct {
	Invoke string          `json:"invoke"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// ResponsePayload answers a correlated request.
type ResponsePayload struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Raw is the payload of a kind this package does not know.
type Raw json.RawMessage

func (*StatePayload) Kind() MessageType             { return TypeState }
func (*WebviewDidLaunchPayload) Kind() MessageType  { return TypeWebviewDidLaunch }
func (*NewTaskPayload) Kind() MessageType           { return TypeNewTask }
func (*CancelTaskPayload) Kind() MessageType        { return TypeCancelTask }
func (*AskResponsePayload) Kind() MessageType       { return TypeAskResponse }
func (*CompletionRequestPayload) Kind() MessageType { return TypeSingleCompletionRequest }
func (*CompletionResultPayload) Kind() MessageType  { return TypeSingleCompletionResult }
func (*NotificationPayload) Kind() MessageType      { return TypeNotification }
func (*InvokePayload) Kind() MessageType            { return TypeInvoke }
func (*ResponsePayload) Kind() MessageType          { return TypeResponse }
func (Raw) Kind() MessageType                       { return "" }

func (*StatePayload) payload()             {}
func (*WebviewDidLaunchPayload) payload()  {}
func (*NewTaskPayload) payload()           {}
func (*CancelTaskPayload) payload()        {}
func (*AskResponsePayload) payload()       {}
func (*CompletionRequestPayload) payload() {}
func (*CompletionResultPayload) payload()  {}
func (*NotificationPayload) payload()      {}
func (*InvokePayload) payload()            {}
func (*ResponsePayload) payload()          {}
func (Raw) payload()                       {}
