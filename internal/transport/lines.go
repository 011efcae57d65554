// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"sync"
)

// MaxFrameBytes bounds one inbound frame.
const MaxFrameBytes = 4 << 20

// LineCodec reads and writes one JSON document per line, the framing used
// over stdin and stdout.
type LineCodec struct {
	scanner *bufio.Scanner
	closer  io.Closer

	mu  sync.Mutex
	enc *json.Encoder
}

// NewLineCodec creates a codec reading r and writing w. Close closes r
// when it is an io.Closer.
func NewLineCodec(r io.Reader, w io.Writer) *LineCodec {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxFrameBytes)
	c := &LineCodec{scanner: scanner, enc: json.NewEncoder(w)}
	if closer, ok := r.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

// Read implements Codec. Blank lines are skipped.
func (c *LineCodec) Read(req *Request) error {
	for c.scanner.Scan() {
		line := c.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, req); err != nil {
			return errors.Join(ErrMalformed, err)
		}
		return nil
	}
	if err := c.scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

// Write implements Codec.
func (c *LineCodec) Write(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(f)
}

// Close implements Codec.
func (c *LineCodec) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
