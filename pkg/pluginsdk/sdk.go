// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package pluginsdk is the SDK for binary exthost extensions.
//
// A binary extension is a separate process started by the host through
// HashiCorp go-plugin. The host calls the extension over gRPC, and the
// extension calls host services back over the go-plugin broker.
//
// Example usage:
//
//	type Echo struct{ host *pluginsdk.Host }
//
//	func (e *Echo) Activate(ctx context.Context, host *pluginsdk.Host, _ pluginsdk.ActivateInfo) error {
//		e.host = host
//		return nil
//	}
//
//	func (e *Echo) HandleMessage(ctx context.Context, env protocol.Envelope) error {
//		return e.host.PostMessage(ctx, env)
//	}
//
//	func main() {
//		pluginsdk.Serve(&Echo{})
//	}
package pluginsdk

import (
	"context"
	"encoding/json"
	"errors"

	hashiplug "github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"

	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
	"github.com/holomush/exthost/pkg/protocol"
)

// PluginName is the go-plugin name the extension is dispensed under.
const PluginName = "extension"

// HandshakeConfig is shared by the host and every extension.
var HandshakeConfig = hashiplug.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "EXTHOST_EXTENSION",
	MagicCookieValue: "exthost-v1",
}

// ActivateInfo describes the host to the extension.
type ActivateInfo struct {
	ExtensionID   string
	SessionID     string
	MachineID     string
	AppName       string
	AppVersion    string
	WorkspaceRoot string
	ExtensionRoot string
}

// Extension is implemented by every binary extension.
type Extension interface {
	Activate(ctx context.Context, host *Host, info ActivateInfo) error
	HandleMessage(ctx context.Context, env protocol.Envelope) error
}

// Deactivator is implemented by extensions with teardown work.
type Deactivator interface {
	Deactivate(ctx context.Context) error
}

// StateProvider is implemented by extensions that report live state.
type StateProvider interface {
	State(ctx context.Context) (json.RawMessage, error)
}

// TaskRunner is implemented by extensions that start and cancel tasks.
type TaskRunner interface {
	StartTask(ctx context.Context, text string, images []string) (string, error)
	CancelTask(ctx context.Context, taskID string) error
}

// TerminalHandler is implemented by extensions that act on terminals.
type TerminalHandler interface {
	HandleTerminalOperation(ctx context.Context, op string, args json.RawMessage) error
}

// recoverableError marks an error the host may retry past.
type recoverableError struct{ err error }

func (e recoverableError) Error() string { return e.err.Error() }
func (e recoverableError) Unwrap() error { return e.err }

// Recoverable marks err as recoverable. The host reports it as a
// recoverable fault instead of a fatal one.
func Recoverable(err error) error {
	if err == nil {
		return nil
	}
	return recoverableError{err: err}
}

// Serve runs ext as a go-plugin server. It blocks until the host exits.
// Panics if ext is nil.
func Serve(ext Extension) {
	if ext == nil {
		panic("pluginsdk: extension cannot be nil")
	}
	hashiplug.Serve(&hashiplug.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]hashiplug.Plugin{
			PluginName: &GRPCPlugin{Impl: ext},
		},
		GRPCServer: hashiplug.DefaultGRPCServer,
	})
}

// Dispensed is what the host receives from go-plugin's Dispense.
type Dispensed struct {
	Client extensionv1.ExtensionClient
	Broker *hashiplug.GRPCBroker
}

// GRPCPlugin is the go-plugin glue. The host uses it with a nil Impl.
type GRPCPlugin struct {
	hashiplug.NetRPCUnsupportedPlugin
	Impl Extension
}

// GRPCServer registers the extension service (extension process side).
func (p *GRPCPlugin) GRPCServer(broker *hashiplug.GRPCBroker, s *grpc.Server) error {
	if p.Impl == nil {
		return errors.New("pluginsdk: extension is nil")
	}
	extensionv1.RegisterExtensionServer(s, NewServer(p.Impl, BrokerDialer(broker)))
	return nil
}

// GRPCClient returns the extension client (host side).
func (p *GRPCPlugin) GRPCClient(_ context.Context, broker *hashiplug.GRPCBroker, c *grpc.ClientConn) (any, error) {
	return &Dispensed{Client: extensionv1.NewExtensionClient(c), Broker: broker}, nil
}
