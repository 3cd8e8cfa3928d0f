package logging

import (
	"context"
	"log/slog"
	"regexp"
	"slices"

	"github.com/m-mizutani/masq"
)

var (
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)
)

// DefaultRedactOptions returns the masq options applied to every logger:
// the LMS auth headers and their config names, plus common secret names.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("wstoken"),
		masq.WithFieldName("apitoken"),
		masq.WithFieldName("ws_token"),
		masq.WithFieldName("api_token"),
		masq.WithFieldName("WSToken"),
		masq.WithFieldName("APIToken"),
		masq.WithFieldName("password"),
		masq.WithFieldName("token"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),

		masq.WithFieldPrefix("secret"),

		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
	}
}

// NewReplaceAttr creates a slog ReplaceAttr function that redacts secrets.
// opts extend DefaultRedactOptions.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}

// RedactingHandler applies a ReplaceAttr function in front of a handler that
// has no ReplaceAttr hook of its own, such as the charm pretty logger.
type RedactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

// NewRedactingHandler wraps next. A nil replace uses NewReplaceAttr().
func NewRedactingHandler(next slog.Handler, replace func(groups []string, a slog.Attr) slog.Attr) *RedactingHandler {
	if replace == nil {
		replace = NewReplaceAttr()
	}

	return &RedactingHandler{next: next, replace: replace}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &RedactingHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		next:    h.next.WithGroup(name),
		replace: h.replace,
		groups:  append(slices.Clone(h.groups), name),
	}
}
