package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// TaskIDKey is the attribute key rendered as the "[TID=...]" prefix.
const TaskIDKey = "tid"

// WallTimeKey is the attribute key for wall-clock times logged around a
// request. It must differ from slog.TimeKey, which JSON records already carry.
const WallTimeKey = "wall_time"

// unknownTaskID is printed when no task id has been bound to the logger.
const unknownTaskID = "-"

var taskCounter atomic.Uint64

// NextTaskID returns a new task identifier. Identifiers start at 1 and are
// unique within the process.
func NextTaskID() uint64 {
	return taskCounter.Add(1)
}

// ConsoleHandler is an slog.Handler that writes one human-readable line per
// record:
//
//	[TID=<id>] [<LEVEL>] <message> key=value key=value
//
// The record's own timestamp is not printed; callers log wall-clock times
// explicitly where they matter. Values containing spaces or quotes are quoted.
type ConsoleHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	level slog.Leveler

	// taskID is the value bound with the TaskIDKey attribute.
	taskID string

	// attrs are preformatted attributes added via WithAttrs.
	attrs []slog.Attr

	// groups are the open group names added via WithGroup.
	groups []string
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
// A nil opts logs at Info level.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &ConsoleHandler{
		out:    w,
		mu:     &sync.Mutex{},
		level:  level,
		taskID: unknownTaskID,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record and writes it as a single line.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	taskID := h.taskID
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && a.Key == TaskIDKey {
			taskID = a.Value.Resolve().String()
			return true
		}
		attrs = append(attrs, h.qualify(a))
		return true
	})

	fmt.Fprintf(&sb, "[TID=%s] [%s] %s", taskID, r.Level.String(), r.Message)
	for _, a := range attrs {
		writeAttr(&sb, "", a)
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs returns a handler that prints the given attributes on every line.
// A top-level TaskIDKey attribute becomes the line prefix instead.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, a := range attrs {
		if len(h.groups) == 0 && a.Key == TaskIDKey {
			clone.taskID = a.Value.Resolve().String()
			continue
		}
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return clone
}

// WithGroup returns a handler that prefixes subsequent keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		out:    h.out,
		mu:     h.mu,
		level:  h.level,
		taskID: h.taskID,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// qualify prefixes the attribute key with the currently open groups.
func (h *ConsoleHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	a.Key = strings.Join(h.groups, ".") + "." + a.Key
	return a
}

// writeAttr appends " key=value", flattening groups with dotted keys.
func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if prefix != "" {
		key = prefix
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(sb, key, ga)
		}
		return
	}

	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(formatValue(a.Value))
}

// formatValue renders a value, quoting strings that would break key=value parsing.
func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		s = v.Duration().String()
	default:
		s = v.String()
	}

	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
