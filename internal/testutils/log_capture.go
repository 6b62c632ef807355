package testutils

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is one captured log record: level, message and every attribute,
// including those added with Logger.With.
type LogEntry map[string]any

type logStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogCapture is an in-memory slog.Handler for asserting on log output.
type LogCapture struct {
	store *logStore
	attrs []slog.Attr
}

// NewLogCapture returns a handler and a logger writing to it.
func NewLogCapture() (*LogCapture, *slog.Logger) {
	h := &LogCapture{store: &logStore{}}
	return h, slog.New(h)
}

func (h *LogCapture) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *LogCapture) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		"level":   r.Level.String(),
		"message": r.Message,
	}
	for _, a := range h.attrs {
		entry[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.entries = append(h.store.entries, entry)
	h.store.mu.Unlock()
	return nil
}

func (h *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &LogCapture{store: h.store, attrs: combined}
}

// WithGroup ignores groups; attributes stay flat.
func (h *LogCapture) WithGroup(_ string) slog.Handler {
	return h
}

// Entries returns a copy of every captured entry.
func (h *LogCapture) Entries() []LogEntry {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := make([]LogEntry, len(h.store.entries))
	copy(out, h.store.entries)
	return out
}

// Find returns the captured entries with the given level and message.
func (h *LogCapture) Find(level slog.Level, message string) []LogEntry {
	var out []LogEntry
	for _, e := range h.Entries() {
		if e["level"] == level.String() && e["message"] == message {
			out = append(out, e)
		}
	}
	return out
}
