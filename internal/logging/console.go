package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

// consoleHandler writes one human-readable line per record:
//
//	2026-01-02 15:04:05 WARN Build · hero.psd · layer "Logo": msg key=value
//
// The component, source, and layer attributes are folded into the subject
// instead of being printed as pairs.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool

	subject subject
	group   string // dotted prefix for attrs added after WithGroup
	attrs   []byte // preformatted " key=value" pairs from WithAttrs
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	sub := h.subject
	var pairs []byte
	r.Attrs(func(a slog.Attr) bool {
		pairs = appendAttr(pairs, &sub, h.group, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	buf := make([]byte, 0, 128+len(h.attrs)+len(pairs))
	buf = ts.Local().AppendFormat(buf, consoleTimeLayout)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	if s := sub.String(); s != "" {
		buf = append(buf, s...)
		buf = append(buf, ": "...)
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		buf = append(buf, msg...)
	} else {
		buf = append(buf, "(no message)"...)
	}
	if h.addSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf = fmt.Appendf(buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	buf = append(buf, h.attrs...)
	buf = append(buf, pairs...)
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = appendAttr(clone.attrs, &clone.subject, clone.group, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

type subject struct {
	component string
	source    string
	layer     string
}

// capture records top-level subject attributes. The most recent value wins
// so nested component loggers read as the innermost component.
func (s *subject) capture(key string, v slog.Value) bool {
	var dst *string
	switch key {
	case FieldComponent:
		dst = &s.component
	case FieldSource:
		dst = &s.source
	case FieldLayer:
		dst = &s.layer
	default:
		return false
	}
	if text := strings.TrimSpace(valueText(v)); text != "" {
		*dst = text
	}
	return true
}

func (s subject) String() string {
	parts := make([]string, 0, 3)
	if s.component != "" {
		parts = append(parts, strings.ToUpper(s.component[:1])+strings.ToLower(s.component[1:]))
	}
	if s.source != "" {
		parts = append(parts, s.source)
	}
	if s.layer != "" {
		parts = append(parts, "layer "+strconv.Quote(s.layer))
	}
	return strings.Join(parts, " · ")
}

func appendAttr(dst []byte, sub *subject, group string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			dst = appendAttr(dst, sub, prefix, member)
		}
		return dst
	}
	if group == "" && sub.capture(a.Key, a.Value) {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, group...)
	dst = append(dst, a.Key...)
	dst = append(dst, '=')
	return append(dst, quoteIfNeeded(valueText(a.Value))...)
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().Local().Format(consoleTimeLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
