package logging

import (
	"context"
	"log/slog"
)

// CapturingHandler wraps an slog.Handler to capture log records while passing them through.
type CapturingHandler struct {
	underlying slog.Handler
	collector  *LogCollector
	min        slog.Level
	attrs      map[string]interface{}
	prefix     string
}

// NewCapturingHandler creates a CapturingHandler that stores records at or above min
// in collector and passes every record on to underlying.
func NewCapturingHandler(underlying slog.Handler, collector *LogCollector, min slog.Level) *CapturingHandler {
	return &CapturingHandler{
		underlying: underlying,
		collector:  collector,
		min:        min,
	}
}

// Enabled reports whether either the collector or the underlying handler wants level.
func (h *CapturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min || h.underlying.Enabled(ctx, level)
}

// Handle captures the record and then passes it to the underlying handler.
func (h *CapturingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.min {
		entry := LogEntry{
			Time:       r.Time,
			Level:      r.Level.String(),
			Message:    r.Message,
			Attributes: make(map[string]interface{}, r.NumAttrs()+len(h.attrs)),
			level:      r.Level,
		}
		for k, v := range h.attrs {
			entry.Attributes[k] = v
		}
		r.Attrs(func(a slog.Attr) bool {
			entry.Attributes[h.prefix+a.Key] = resolveValue(a.Value)
			return true
		})
		h.collector.AddLog(entry)
	}

	if !h.underlying.Enabled(ctx, r.Level) {
		return nil
	}
	return h.underlying.Handle(ctx, r)
}

// WithAttrs returns a CapturingHandler that also records attrs. It must not return the
// underlying handler or capture stops at the first With call.
func (h *CapturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make(map[string]interface{}, len(h.attrs)+len(attrs))
	for k, v := range h.attrs {
		merged[k] = v
	}
	for _, a := range attrs {
		merged[h.prefix+a.Key] = resolveValue(a.Value)
	}

	return &CapturingHandler{
		underlying: h.underlying.WithAttrs(attrs),
		collector:  h.collector,
		min:        h.min,
		attrs:      merged,
		prefix:     h.prefix,
	}
}

// WithGroup returns a CapturingHandler whose later attribute keys are qualified with
// name, as in "group.key".
func (h *CapturingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &CapturingHandler{
		underlying: h.underlying.WithGroup(name),
		collector:  h.collector,
		min:        h.min,
		attrs:      h.attrs,
		prefix:     h.prefix + name + ".",
	}
}

// resolveValue converts a slog.Value to a JSON-serializable value.
func resolveValue(v slog.Value) interface{} {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time()
	case slog.KindAny:
		// errors do not marshal to anything useful
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	case slog.KindGroup:
		attrs := v.Group()
		group := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			group[attr.Key] = resolveValue(attr.Value)
		}
		return group
	default:
		return v.Any()
	}
}
