// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host

import "github.com/holomush/exthost/pkg/protocol"

// EventKind discriminates host events.
type EventKind int

// Host event kinds.
const (
	// EventActivated carries the API returned by activation.
	EventActivated EventKind = iota + 1
	// EventMessage carries an envelope the extension posted to its webview.
	EventMessage
	// EventFault carries a classified plugin fault.
	EventFault
	// EventDeactivated fires after the teardown hook ran.
	EventDeactivated
	// EventDisposed fires once when the host is disposed.
	EventDisposed
)

func (k EventKind) String() string {
	switch k {
	case EventActivated:
		return "activated"
	case EventMessage:
		return "message"
	case EventFault:
		return "fault"
	case EventDeactivated:
		return "deactivated"
	case EventDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Event is published on Host.Events.
type Event struct {
	Kind    EventKind
	API     API
	Message protocol.Envelope
	Fault   *Fault
}
