// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service

import (
	"time"

	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/host"
)

// Health is a point-in-time report of the service.
type Health struct {
	Phase            string            `json:"phase"`
	Initialized      bool              `json:"initialized"`
	Ready            bool              `json:"ready"`
	Disposed         bool              `json:"disposed"`
	PendingRequests  int               `json:"pendingRequests"`
	DroppedResponses int64             `json:"droppedResponses"`
	Listeners        map[string]int    `json:"listeners"`
	FaultCount       int               `json:"faultCount"`
	LastFault        string            `json:"lastFault,omitempty"`
	ActivatedAt      *time.Time        `json:"activatedAt,omitempty"`
	Commands         []string          `json:"commands,omitempty"`
	Identity         map[string]string `json:"identity,omitempty"`
}

// GetExtensionHealth reports the current state of the service.
func (s *Service) GetExtensionHealth() Health {
	s.mu.Lock()
	h := Health{
		Initialized: s.initialized,
		Ready:       s.ready,
		Disposed:    s.disposed,
		FaultCount:  s.faultCount,
	}
	if s.lastFault != nil {
		h.LastFault = s.lastFault.Error()
	}
	s.mu.Unlock()

	h.Phase = s.host.Phase().String()
	h.PendingRequests = s.bridge.Pending()
	h.DroppedResponses = s.bridge.DroppedResponses()
	h.Listeners = make(map[string]int, len(EventTypes))
	for _, t := range EventTypes {
		h.Listeners[string(t)] = s.events.count(t)
	}
	if at := s.host.ActivatedAt(); !at.IsZero() {
		h.ActivatedAt = &at
	}
	if !h.Disposed {
		h.Commands = s.host.Services().Commands.List()
	}
	if pctx := s.host.Context(); pctx != nil {
		h.Identity = map[string]string{
			"sessionId":  pctx.Identity.SessionID,
			"appName":    pctx.Identity.AppName,
			"appVersion": pctx.Identity.AppVersion,
		}
	}
	return h
}

// Live returns an error once the service is disposed.
func (s *Service) Live() error {
	if s.isDisposed() {
		return oops.In("service").Code(CodeDisposed).Wrap(ErrDisposed)
	}
	return nil
}

// Ready returns nil when the extension is activated.
func (s *Service) Ready() error {
	if err := s.Live(); err != nil {
		return err
	}
	if phase := s.host.Phase(); phase != host.PhaseActivated {
		return preconditionError(CodeNotActivated, ErrNotActivated, phase, "ready")
	}
	return nil
}
