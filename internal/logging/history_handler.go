package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// LogCallback receives each record after it lands in the history buffer.
type LogCallback func(entry LogEntry)

// historyHandler stores records in the registry's ring buffer.
type historyHandler struct {
	reg    *registry
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newHistoryHandler(reg *registry, level slog.Leveler) *historyHandler {
	return &historyHandler{reg: reg, level: level}
}

func (h *historyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *historyHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp:  r.Time,
		Level:      levelName(r.Level),
		Module:     "main",
		Message:    r.Message,
		Attributes: make(map[string]any),
	}
	collect := func(a slog.Attr) bool {
		if a.Key == "module" && len(h.groups) == 0 {
			entry.Module = a.Value.String()
			return true
		}
		flatten(entry.Attributes, h.groups, a)
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)
	if len(entry.Attributes) == 0 {
		entry.Attributes = nil
	}

	entry = h.reg.history.Write(entry)
	if fn := h.reg.callback(); fn != nil {
		fn(entry)
	}
	return nil
}

func (h *historyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *historyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// flatten writes a into dst, joining group names with dots.
func flatten(dst map[string]any, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		sub := append(append([]string(nil), groups...), a.Key)
		for _, ga := range v.Group() {
			flatten(dst, sub, ga)
		}
	case slog.KindTime:
		dst[key] = v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		dst[key] = v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			dst[key] = err.Error()
		} else if s, ok := v.Any().(fmt.Stringer); ok {
			dst[key] = s.String()
		} else {
			dst[key] = v.Any()
		}
	default:
		dst[key] = v.Any()
	}
}

// FormatLogLine renders an entry as a single text line, attributes sorted by key.
func FormatLogLine(entry LogEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-5s [%s] %s",
		entry.Timestamp.Format(time.RFC3339Nano), strings.ToUpper(entry.Level), entry.Module, entry.Message)

	keys := make([]string, 0, len(entry.Attributes))
	for k := range entry.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Attributes[k])
	}
	return sb.String()
}
