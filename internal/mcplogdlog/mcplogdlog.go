// Package mcplogdlog mirrors log records to a local mcplogd daemon. The
// forwarding is compiled in only for dev builds; release builds get the wrapped
// handler back unchanged.
package mcplogdlog

import (
	"context"
	"log/slog"
	"time"
)

const appName = "projectimport"

type entry struct {
	App       string         `json:"app"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewHandler wraps next so that every record it handles is also sent to the
// daemon.
func NewHandler(next slog.Handler) slog.Handler {
	if !enabled {
		return next
	}
	return &handler{next: next}
}

type handler struct {
	next   slog.Handler
	attrs  []slog.Attr
	groups []string
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	send(newEntry(r, h.attrs, h.groups))
	return h.next.Handle(ctx, r)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scoped := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	scoped = append(scoped, h.attrs...)
	for _, a := range attrs {
		scoped = append(scoped, prefixed(h.groups, a))
	}
	return &handler{next: h.next.WithAttrs(attrs), attrs: scoped, groups: h.groups}
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(append([]string(nil), h.groups...), name)
	return &handler{next: h.next.WithGroup(name), attrs: h.attrs, groups: groups}
}

func newEntry(r slog.Record, attrs []slog.Attr, groups []string) entry {
	metadata := make(map[string]any, len(attrs)+r.NumAttrs())
	for _, a := range attrs {
		metadata[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		a = prefixed(groups, a)
		metadata[a.Key] = a.Value.Resolve().Any()
		return true
	})
	if len(metadata) == 0 {
		metadata = nil
	}

	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return entry{
		App:       appName,
		Level:     levelName(r.Level),
		Message:   r.Message,
		Timestamp: timestamp.UTC().Format(time.RFC3339Nano),
		Metadata:  metadata,
	}
}

func prefixed(groups []string, a slog.Attr) slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		a.Key = groups[i] + "." + a.Key
	}
	return a
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
