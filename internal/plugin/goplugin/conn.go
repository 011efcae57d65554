// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package goplugin runs binary extensions as separate processes using
// HashiCorp's go-plugin over gRPC.
package goplugin

import (
	"context"
	"os/exec"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/samber/oops"
	"google.golang.org/grpc"

	"github.com/holomush/exthost/pkg/pluginsdk"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
)

// HandshakeConfig is imported from pluginsdk so the host and extensions
// cannot drift apart.
var HandshakeConfig = pluginsdk.HandshakeConfig

// PluginMap is the set of plugins the host can dispense.
var PluginMap = map[string]hashiplug.Plugin{
	pluginsdk.PluginName: &pluginsdk.GRPCPlugin{},
}

// Conn is a live connection to one extension process.
type Conn interface {
	// Extension returns the client for the extension service.
	Extension() extensionv1.ExtensionClient
	// ServeHost serves the host service to the extension and returns the
	// id the extension dials it by.
	ServeHost(register func(*grpc.Server)) uint32
	// Close terminates the extension process.
	Close()
}

// Dialer starts extension processes.
type Dialer interface {
	Dial(ctx context.Context, execPath string) (Conn, error)
}

// ProcessDialer starts real extension processes.
type ProcessDialer struct{}

// Dial implements Dialer.
func (ProcessDialer) Dial(ctx context.Context, execPath string) (Conn, error) {
	client := hashiplug.NewClient(&hashiplug.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap,
		Cmd:              exec.CommandContext(ctx, execPath), // #nosec G204 -- execPath resolved from a validated manifest
		AllowedProtocols: []hashiplug.Protocol{hashiplug.ProtocolGRPC},
	})
	errb := oops.In("goplugin").With("path", execPath)

	rpc, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, errb.Hint("failed to start extension process").Wrap(err)
	}
	raw, err := rpc.Dispense(pluginsdk.PluginName)
	if err != nil {
		client.Kill()
		return nil, errb.Hint("failed to dispense extension").Wrap(err)
	}
	d, ok := raw.(*pluginsdk.Dispensed)
	if !ok {
		client.Kill()
		return nil, errb.Errorf("unexpected dispensed type %T", raw)
	}
	return &processConn{client: client, dispensed: d}, nil
}

type processConn struct {
	client    *hashiplug.Client
	dispensed *pluginsdk.Dispensed
}

func (c *processConn) Extension() extensionv1.ExtensionClient { return c.dispensed.Client }

func (c *processConn) ServeHost(register func(*grpc.Server)) uint32 {
	broker := c.dispensed.Broker
	id := broker.NextId()
	go broker.AcceptAndServe(id, func(opts []grpc.ServerOption) *grpc.Server {
		s := grpc.NewServer(opts...)
		register(s)
		return s
	})
	return id
}

func (c *processConn) Close() { c.client.Kill() }
