// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package plugin discovers extension bundles on disk and turns them into
// activatable extensions through a per-type runtime.
package plugin

import (
	"context"

	"github.com/holomush/exthost/internal/host"
)

// Runtime loads bundles of one manifest type.
type Runtime interface {
	// Load prepares the bundle and returns the extension to activate.
	Load(ctx context.Context, bundle *Bundle) (host.Plugin, error)

	// Close releases everything the runtime loaded.
	Close(ctx context.Context) error
}
