package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/andyballingall/prettier-hook/internal/fsh"
)

// LogEnvVar names the file that receives a JSON debug log. Unset means console only.
const LogEnvVar = "PRETTIER_HOOK_LOG_FILE"

// setupLogger configures a logger that writes clean, human-readable logs to the
// console and, when LogEnvVar is set, structured logs to a file.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, env fsh.EnvProvider) (*slog.Logger, io.Closer, error) {
	console := newConsoleHandler(stderr, logLevel)

	logPath := env.Get(LogEnvVar)
	if logPath == "" {
		return slog.New(console), nil, nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
	})

	multi := &multiHandler{
		handlers: []slog.Handler{fileHandler, console},
	}

	return slog.New(multi), f, nil
}

// multiHandler fans records out to several handlers. A failing handler does not stop
// the others from receiving the record.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(m.handlers, func(h slog.Handler) bool {
		return h.Enabled(ctx, level)
	})
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *multiHandler) derive(f func(slog.Handler) slog.Handler) *multiHandler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = f(h)
	}
	return &multiHandler{handlers: handlers}
}

// consoleHandler writes one plain line per record. Attributes other than errors are
// only shown at debug level, where the component attribute becomes a prefix.
type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
	mu    *sync.Mutex
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar) *consoleHandler {
	return &consoleHandler{w: w, level: level, mu: &sync.Mutex{}}
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	debug := c.level.Level() <= slog.LevelDebug
	var b strings.Builder

	switch {
	case record.Level >= slog.LevelError:
		b.WriteString("Error: ")
	case record.Level >= slog.LevelWarn:
		b.WriteString("Warning: ")
	}

	var rest []slog.Attr
	for _, a := range c.attrs {
		if a.Key == "component" {
			if debug {
				fmt.Fprintf(&b, "[%s] ", a.Value)
			}
			continue
		}
		rest = append(rest, a)
	}
	b.WriteString(record.Message)

	record.Attrs(func(a slog.Attr) bool {
		rest = append(rest, a)
		return true
	})
	for _, a := range rest {
		switch {
		case a.Key == "error" || a.Key == "err":
			fmt.Fprintf(&b, ": %v", a.Value)
		case debug:
			fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		}
	}
	b.WriteByte('\n')

	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     c.w,
		level: c.level,
		attrs: append(slices.Clip(c.attrs), attrs...),
		mu:    c.mu,
	}
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	// Groups are flattened on the console
	return c
}
