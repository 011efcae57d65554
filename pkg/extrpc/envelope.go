// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package extrpc holds the helpers shared by both ends of the binary
// extension protocol: envelope conversion to the generated
// exthost.extension.v1 messages and the status codes that carry extension
// faults across the wire.
package extrpc

import (
	"encoding/json"

	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
	"github.com/holomush/exthost/pkg/protocol"
)

// ToProto converts a webview envelope to its wire form. The payload is
// carried as raw JSON bytes.
func ToProto(env protocol.Envelope) *extensionv1.Envelope {
	return &extensionv1.Envelope{
		Type:    string(env.Type),
		Id:      env.ID,
		Payload: env.Payload,
	}
}

// FromProto converts a wire envelope back. A nil envelope yields the zero
// value.
func FromProto(env *extensionv1.Envelope) protocol.Envelope {
	out := protocol.Envelope{
		Type: protocol.MessageType(env.GetType()),
		ID:   env.GetId(),
	}
	if p := env.GetPayload(); len(p) > 0 {
		out.Payload = json.RawMessage(p)
	}
	return out
}

// NewMessage wraps env for HandleMessage and PostMessage.
func NewMessage(env protocol.Envelope) *extensionv1.Message {
	return &extensionv1.Message{Envelope: ToProto(env)}
}
