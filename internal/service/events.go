// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service

import (
	"encoding/json"

	"github.com/holomush/exthost/internal/host"
	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/protocol"
)

// EventType names an outward service event.
type EventType string

// Service events.
const (
	EventReady        EventType = "ready"
	EventStateChange  EventType = "stateChange"
	EventMessage      EventType = "message"
	EventError        EventType = "error"
	EventWarning      EventType = "warning"
	EventDisposed     EventType = "disposed"
	EventNotification EventType = "notification"
)

// EventTypes lists every event the service emits.
var EventTypes = []EventType{
	EventReady,
	EventStateChange,
	EventMessage,
	EventError,
	EventWarning,
	EventDisposed,
	EventNotification,
}

// Event is delivered to service listeners. Which field is set depends on Type.
type Event struct {
	Type         EventType
	API          host.API
	State        json.RawMessage
	Message      protocol.Envelope
	Fault        *host.Fault
	Notification *shim.Notification
}

// eventBus keeps one emitter per event type.
type eventBus struct {
	emitters map[EventType]*shim.Emitter[Event]
}

func newEventBus() *eventBus {
	b := &eventBus{emitters: make(map[EventType]*shim.Emitter[Event], len(EventTypes))}
	for _, t := range EventTypes {
		b.emitters[t] = shim.NewEmitter[Event](string(t))
	}
	return b
}

func (b *eventBus) on(t EventType, fn shim.Listener[Event]) shim.Disposable {
	e, ok := b.emitters[t]
	if !ok {
		return shim.DisposableFunc(nil)
	}
	return e.On(fn)
}

func (b *eventBus) fire(ev Event) {
	if e, ok := b.emitters[ev.Type]; ok {
		e.Fire(ev)
	}
}

func (b *eventBus) count(t EventType) int {
	if e, ok := b.emitters[t]; ok {
		return e.ListenerCount()
	}
	return 0
}

// clearExcept removes every listener except those for keep.
func (b *eventBus) clearExcept(keep EventType) {
	for t, e := range b.emitters {
		if t != keep {
			e.Clear()
		}
	}
}

// clear removes the listeners for t.
func (b *eventBus) clear(t EventType) {
	if e, ok := b.emitters[t]; ok {
		e.Clear()
	}
}
