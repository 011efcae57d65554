// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package host

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/exthost/internal/shim"
	"github.com/holomush/exthost/pkg/protocol"
)

// APIVersion is the version of the extension API this host implements.
// Manifests constrain it with their engine field.
const APIVersion = "0.1.0"

// Identity describes the running host to the extension. It is built once
// and passed in explicitly; nothing reads it from process-global state.
type Identity struct {
	SessionID  string `json:"sessionId"`
	MachineID  string `json:"machineId"`
	AppName    string `json:"appName"`
	AppVersion string `json:"appVersion"`
}

// NewIdentity creates an identity with a fresh session id. The machine id
// is a stable hash of the hostname.
func NewIdentity(appName, appVersion string) Identity {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	sum := sha256.Sum256([]byte(hostname))
	return Identity{
		SessionID:  ulid.Make().String(),
		MachineID:  hex.EncodeToString(sum[:16]),
		AppName:    appName,
		AppVersion: appVersion,
	}
}

// Context is handed to Plugin.Activate. It is created once per Host.
type Context struct {
	*shim.Services

	Identity      Identity
	WorkspaceRoot shim.URI
	ExtensionRoot shim.URI
	Logger        *slog.Logger

	post PostFunc

	mu            sync.Mutex
	subscriptions []shim.Disposable
}

// PostFunc delivers an envelope the extension posted.
type PostFunc func(ctx context.Context, env protocol.Envelope) error

// NewContext builds a standalone Context. Runtimes use it to exercise an
// extension without a Host.
func NewContext(services *shim.Services, identity Identity, post PostFunc) *Context {
	if services == nil {
		services = shim.New(nil)
	}
	return &Context{
		Services: services,
		Identity: identity,
		Logger:   slog.Default(),
		post:     post,
	}
}

// Subscribe adds disposables released when the extension deactivates.
func (c *Context) Subscribe(d ...shim.Disposable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range d {
		if item != nil {
			c.subscriptions = append(c.subscriptions, item)
		}
	}
}

// SubscriptionCount returns the number of pending subscriptions.
func (c *Context) SubscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscriptions)
}

// PostMessage sends env toward the extension's webview, which in a headless
// host is the message stream observed by the client.
func (c *Context) PostMessage(ctx context.Context, env protocol.Envelope) error {
	if c.post == nil {
		return nil
	}
	return c.post(ctx, env)
}

// DisposeSubscriptions releases every subscription and returns the
// panics it recovered.
func (c *Context) DisposeSubscriptions() []error {
	return c.disposeSubscriptions()
}

// disposeSubscriptions releases subscriptions newest first. A panicking
// disposable is reported and does not stop the rest.
func (c *Context) disposeSubscriptions() (errs []error) {
	c.mu.Lock()
	subs := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, oops.In("host").Errorf("subscription dispose panicked: %v", r))
				}
			}()
			subs[i].Dispose()
		}()
	}
	return errs
}
