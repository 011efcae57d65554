// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/exthost/internal/transport"
)

// stdioClient drives a run command through pipes.
type stdioClient struct {
	t   *testing.T
	in  *io.PipeWriter
	dec *json.Decoder
}

func (c *stdioClient) send(format string, args ...any) {
	c.t.Helper()
	_, err := fmt.Fprintf(c.in, format+"\n", args...)
	require.NoError(c.t, err)
}

// result reads frames until the result for id, collecting events on the way.
func (c *stdioClient) result(id string) (transport.Frame, []string) {
	c.t.Helper()
	var events []string
	for {
		var f transport.Frame
		require.NoError(c.t, c.dec.Decode(&f))
		if f.Event == transport.EventResult && f.ID == id {
			return f, events
		}
		events = append(events, f.Event)
	}
}

func TestRunCommand_ServesStdio(t *testing.T) {
	isolate(t)
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	cmd := NewRootCmd()
	cmd.SetIn(inR)
	cmd.SetOut(outW)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"run", echoBundle})

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute()
		_ = outW.Close()
	}()

	c := &stdioClient{t: t, in: inW, dec: json.NewDecoder(outR)}

	c.send(`{"id":"1","op":"initialize"}`)
	f, events := c.result("1")
	assert.Empty(t, f.Error)
	assert.Contains(t, events, "ready")

	c.send(`{"id":"2","op":"complete","prompt":"hi"}`)
	f, _ = c.result("2")
	assert.Equal(t, "echo: hi", f.Data)

	c.send(`{"id":"3","op":"execute","command":"echo.count","args":[]}`)
	f, _ = c.result("3")
	assert.Empty(t, f.Error)

	c.send(`{"id":"4","op":"dispose"}`)
	f, _ = c.result("4")
	assert.Empty(t, f.Error)
	go func() { _, _ = io.Copy(io.Discard, outR) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not exit after dispose")
	}
	_ = inW.Close()
}

func TestRunCommand_EndsOnEOF(t *testing.T) {
	_, _, err := executeRoot(t, "run", echoBundle)
	require.NoError(t, err)
}

func TestRunCommand_RequiresBundle(t *testing.T) {
	_, _, err := executeRoot(t, "run")
	require.Error(t, err)
}
