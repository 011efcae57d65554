// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package protocol defines the message envelope exchanged between a terminal
// client and a hosted extension. The shape mirrors what the extension's
// graphical webview sends and receives, so extensions run unmodified.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/samber/oops"
)

// MessageType is the envelope discriminator.
type MessageType string

// Message kinds the host and bridge recognize. Any other kind is carried
// through with its raw payload.
const (
	TypeState                   MessageType = "state"
	TypeWebviewDidLaunch        MessageType = "webviewDidLaunch"
	TypeNewTask                 MessageType = "newTask"
	TypeCancelTask              MessageType = "cancelTask"
	TypeAskResponse             MessageType = "askResponse"
	TypeSingleCompletionRequest MessageType = "singleCompletionRequest"
	TypeSingleCompletionResult  MessageType = "singleCompletionResult"
	TypeNotification            MessageType = "notification"
	TypeInvoke                  MessageType = "invoke"
	TypeResponse                MessageType = "response"
)

// Envelope is a single message on the wire. An empty ID marks a
// notification; a non-empty ID marks a request that expects exactly one
// response carrying the same ID.
type Envelope struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// IsRequest reports whether the envelope expects a response.
func (e Envelope) IsRequest() bool {
	return e.ID != ""
}

// Size returns the payload size in bytes.
func (e Envelope) Size() int {
	return len(e.Payload)
}

// New builds an envelope, marshaling payload as JSON. A nil payload yields
// an envelope without a payload field.
func New(t MessageType, payload any) (Envelope, error) {
	env := Envelope{Type: t}
	if payload == nil {
		return env, nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		env.Payload = raw
		return env, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, oops.In("protocol").With("type", string(t)).Wrapf(err, "marshal payload")
	}
	env.Payload = data
	return env, nil
}

// MustNew is New for payloads that cannot fail to marshal.
func MustNew(t MessageType, payload any) Envelope {
	env, err := New(t, payload)
	if err != nil {
		panic(fmt.Sprintf("protocol.MustNew(%s): %v", t, err))
	}
	return env
}

// Decode parses the envelope payload into the typed payload registered for
// its kind. Unknown kinds decode to Raw.
func (e Envelope) Decode() (Payload, error) {
	factory, ok := payloadTypes[e.Type]
	if !ok {
		return Raw(e.Payload), nil
	}
	p := factory()
	if len(e.Payload) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(e.Payload, p); err != nil {
		return nil, oops.In("protocol").
			Code("PROTOCOL_BAD_PAYLOAD").
			With("type", string(e.Type)).
			Wrapf(err, "decode payload")
	}
	return p, nil
}

// Known reports whether t has a registered payload type.
func Known(t MessageType) bool {
	_, ok := payloadTypes[t]
	return ok
}
