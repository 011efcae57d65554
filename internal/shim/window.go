// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package shim

import (
	"context"
	"log/slog"
)

// Severity is the level of a user-facing notification.
type Severity string

// Notification severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity maps a severity name to a Severity. Unknown names are info.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityWarning, "warn":
		return SeverityWarning
	case SeverityError:
		return SeverityError
	default:
		return SeverityInfo
	}
}

// Notification is a message an extension asked to show the user.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Items    []string `json:"items,omitempty"`
}

// Window is the notification surface.
type Window interface {
	// ShowMessage shows text to the user. A headless host cannot collect a
	// choice, so the selected item is always "" and ok is false.
	ShowMessage(ctx context.Context, severity Severity, text string, items ...string) (selected string, ok bool)
	// OnNotification fires for every message shown.
	OnNotification(fn Listener[Notification]) Disposable
}

// LogWindow writes notifications to a logger and republishes them as events.
type LogWindow struct {
	logger *slog.Logger
	events *Emitter[Notification]
}

// Compile-time interface check.
var _ Window = (*LogWindow)(nil)

// NewLogWindow creates a window backed by logger. A nil logger uses slog.Default().
func NewLogWindow(logger *slog.Logger) *LogWindow {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogWindow{
		logger: logger,
		events: NewEmitter[Notification]("window"),
	}
}

// ShowMessage implements Window.
func (w *LogWindow) ShowMessage(ctx context.Context, severity Severity, text string, items ...string) (string, bool) {
	level := slog.LevelInfo
	switch severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	w.logger.Log(ctx, level, "extension notification", "message", text, "items", items)

	w.events.Fire(Notification{Severity: severity, Message: text, Items: items})
	return "", false
}

// OnNotification implements Window.
func (w *LogWindow) OnNotification(fn Listener[Notification]) Disposable {
	return w.events.On(fn)
}

// Dispose drops all notification listeners.
func (w *LogWindow) Dispose() {
	w.events.Dispose()
}
