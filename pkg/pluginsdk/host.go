// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package pluginsdk

import (
	"context"
	"encoding/json"

	"github.com/holomush/exthost/pkg/extrpc"
	extensionv1 "github.com/holomush/exthost/pkg/proto/exthost/extension/v1"
	"github.com/holomush/exthost/pkg/protocol"
)

// Host is the extension's handle on host services. Calls that need a
// capability the manifest does not grant fail with a PermissionDenied
// status.
type Host struct {
	client extensionv1.HostClient
}

// PostMessage sends env to the client, the way a webview extension posts
// to its webview.
func (h *Host) PostMessage(ctx context.Context, env protocol.Envelope) error {
	_, err := h.client.PostMessage(ctx, extrpc.NewMessage(env))
	return err
}

// ShowMessage notifies the user. severity is "info", "warning" or "error".
func (h *Host) ShowMessage(ctx context.Context, severity, text string, items ...string) error {
	_, err := h.client.ShowMessage(ctx, &extensionv1.ShowMessageRequest{Severity: severity, Text: text, Items: items})
	return err
}

// Secret returns a stored secret.
func (h *Host) Secret(ctx context.Context, key string) (string, bool, error) {
	v, err := h.client.GetSecret(ctx, &extensionv1.KeyRequest{Key: key})
	if err != nil {
		return "", false, err
	}
	return v.GetValue(), v.GetFound(), nil
}

// StoreSecret stores a secret.
func (h *Host) StoreSecret(ctx context.Context, key, value string) error {
	_, err := h.client.StoreSecret(ctx, &extensionv1.SecretValue{Key: key, Value: value})
	return err
}

// DeleteSecret deletes a secret.
func (h *Host) DeleteSecret(ctx context.Context, key string) error {
	_, err := h.client.DeleteSecret(ctx, &extensionv1.KeyRequest{Key: key})
	return err
}

// State decodes the value stored under key in scope ("global" or
// "workspace") into out.
func (h *Host) State(ctx context.Context, scope, key string, out any) (bool, error) {
	v, err := h.client.GetState(ctx, &extensionv1.StateKeyRequest{Scope: scope, Key: key})
	if err != nil {
		return false, err
	}
	return decodeValue(v, out)
}

// UpdateState stores value under key in scope. A nil value deletes the key.
func (h *Host) UpdateState(ctx context.Context, scope, key string, value any) error {
	req := &extensionv1.StateUpdateRequest{Scope: scope, Key: key}
	if value != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		req.Value = data
	}
	_, err := h.client.UpdateState(ctx, req)
	return err
}

// Config decodes the configuration value at key into out.
func (h *Host) Config(ctx context.Context, key string, out any) (bool, error) {
	v, err := h.client.GetConfig(ctx, &extensionv1.KeyRequest{Key: key})
	if err != nil {
		return false, err
	}
	return decodeValue(v, out)
}

// ExecuteCommand runs a host command and decodes its result into out,
// which may be nil.
func (h *Host) ExecuteCommand(ctx context.Context, id string, out any, args ...any) error {
	req := &extensionv1.CommandRequest{Id: id}
	for _, a := range args {
		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		req.Args = append(req.Args, data)
	}
	v, err := h.client.ExecuteCommand(ctx, req)
	if err != nil {
		return err
	}
	_, err = decodeValue(v, out)
	return err
}

func decodeValue(v *extensionv1.Value, out any) (bool, error) {
	if !v.GetFound() {
		return false, nil
	}
	if out == nil || len(v.GetValue()) == 0 {
		return true, nil
	}
	return true, json.Unmarshal(v.GetValue(), out)
}
