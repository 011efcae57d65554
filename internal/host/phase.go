// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host

// Phase is the lifecycle phase of a hosted extension.
type Phase int32

// Lifecycle phases.
//
// Legal transitions: Inactive -> Activating -> Activated -> Deactivated.
// A failed activation returns to Inactive, and a Deactivated extension may
// be activated again. Disposed is reachable from every phase, once.
const (
	PhaseInactive Phase = iota
	PhaseActivating
	PhaseActivated
	PhaseDeactivated
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseActivating:
		return "activating"
	case PhaseActivated:
		return "activated"
	case PhaseDeactivated:
		return "deactivated"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
