// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// Ping period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketCodec carries frames as WebSocket text messages.
type WebSocketCodec struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// NewWebSocketCodec wraps conn.
func NewWebSocketCodec(conn *websocket.Conn) *WebSocketCodec {
	conn.SetReadLimit(MaxFrameBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &WebSocketCodec{conn: conn}
}

// Read implements Codec. A normal close reads as io.EOF.
func (c *WebSocketCodec) Read(req *Request) error {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return io.EOF
		}
		return err
	}
	if err := json.Unmarshal(data, req); err != nil {
		return errors.Join(ErrMalformed, err)
	}
	return nil
}

// Write implements Codec.
func (c *WebSocketCodec) Write(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(f)
}

// Ping sends a keepalive ping.
func (c *WebSocketCodec) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close sends a close frame and closes the connection. Safe to call more
// than once.
func (c *WebSocketCodec) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return c.conn.Close()
}

// WebSocketHandler serves one session per WebSocket connection. All
// sessions share the service; a client leaving does not dispose it.
type WebSocketHandler struct {
	svc      Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// HandlerOption configures a WebSocketHandler.
type HandlerOption func(*WebSocketHandler)

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *WebSocketHandler) { h.logger = l }
}

// WithOriginCheck replaces the same-origin check.
func WithOriginCheck(fn func(r *http.Request) bool) HandlerOption {
	return func(h *WebSocketHandler) { h.upgrader.CheckOrigin = fn }
}

// NewWebSocketHandler creates a handler for svc.
func NewWebSocketHandler(svc Service, opts ...HandlerOption) *WebSocketHandler {
	h := &WebSocketHandler{
		svc:    svc,
		logger: slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	codec := NewWebSocketCodec(conn)
	logger := h.logger.With("remote", r.RemoteAddr)
	logger.Info("client connected")

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := codec.Ping(); err != nil {
					return
				}
			}
		}
	}()

	err = NewSession(h.svc, codec, WithLogger(logger)).Run(r.Context())
	close(done)
	_ = codec.Close()
	if err != nil {
		logger.Warn("session ended with error", "error", err)
		return
	}
	logger.Info("client disconnected")
}
