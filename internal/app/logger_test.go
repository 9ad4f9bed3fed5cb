package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("console only without env var", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		stderr := &bytes.Buffer{}
		logger, closer, err := setupLogger(stderr, logLevel, &mockEnvProvider{})
		require.NoError(t, err)
		assert.Nil(t, closer)
		require.NotNil(t, logger)

		logger.Info("console message", "key", "value")
		assert.Equal(t, "console message\n", stderr.String())
		_, isMulti := logger.Handler().(*multiHandler)
		assert.False(t, isMulti)
	})

	t.Run("success with file", func(t *testing.T) {
		t.Parallel()
		logFile := filepath.Join(t.TempDir(), "hook.log")
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelInfo)
		stderr := &bytes.Buffer{}

		logger, closer, err := setupLogger(stderr, logLevel, &mockEnvProvider{values: map[string]string{
			LogEnvVar: logFile,
		}})
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()

		logger.Info("test message", "key", "value")
		logger.Debug("debug only in file")

		// Check console output
		assert.Contains(t, stderr.String(), "test message")
		assert.NotContains(t, stderr.String(), "key=value") // Info doesn't show attrs by default
		assert.NotContains(t, stderr.String(), "debug only in file")

		// Check file output
		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"test message"`)
		assert.Contains(t, string(data), `"key":"value"`)
		assert.Contains(t, string(data), `"msg":"debug only in file"`)
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		t.Parallel()
		logFile := filepath.Join(t.TempDir(), "hook.log")
		require.NoError(t, os.WriteFile(logFile, []byte("earlier\n"), 0o600))
		env := &mockEnvProvider{values: map[string]string{LogEnvVar: logFile}}

		logger, closer, err := setupLogger(&bytes.Buffer{}, &slog.LevelVar{}, env)
		require.NoError(t, err)
		logger.Info("later")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "earlier\n"))
		assert.Contains(t, string(data), "later")
	})

	t.Run("fallback on file error", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		stderr := &bytes.Buffer{}

		// Point to a non-existent directory that cannot be created
		logger, closer, err := setupLogger(stderr, logLevel, &mockEnvProvider{values: map[string]string{
			LogEnvVar: "/non/existent/path/unwritable.log",
		}})
		require.Error(t, err)
		assert.Nil(t, closer)
		assert.NotNil(t, logger)

		logger.Info("fallback message")
		assert.Contains(t, stderr.String(), "fallback message")
	})
}

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	t.Run("levels", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		buf := &bytes.Buffer{}
		handler := newConsoleHandler(buf, logLevel)

		tests := []struct {
			level slog.Level
			msg   string
			want  string
		}{
			{slog.LevelDebug, "d", "d\n"},
			{slog.LevelInfo, "i", "i\n"},
			{slog.LevelWarn, "w", "Warning: w\n"},
			{slog.LevelError, "e", "Error: e\n"},
		}
		for _, tt := range tests {
			buf.Reset()
			logLevel.Set(slog.LevelDebug) // Enable all
			err := handler.Handle(context.Background(), slog.Record{Level: tt.level, Message: tt.msg})
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		}
	})

	t.Run("Enabled", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelWarn)
		handler := newConsoleHandler(&bytes.Buffer{}, logLevel)
		assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
	})

	t.Run("errors are always shown", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		handler := newConsoleHandler(buf, &slog.LevelVar{})

		rec := slog.NewRecord(time.Now(), slog.LevelError, "Formatting failed", 0)
		rec.AddAttrs(slog.String("path", "package.json"), slog.Any("error", errors.New("Prettier not found.")))
		require.NoError(t, handler.Handle(context.Background(), rec))
		assert.Equal(t, "Error: Formatting failed: Prettier not found.\n", buf.String())
	})

	t.Run("attributes at debug", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelDebug)
		h := newConsoleHandler(buf, logLevel).WithAttrs([]slog.Attr{slog.String("component", "hook")})

		rec := slog.NewRecord(time.Now(), slog.LevelDebug, "running formatter", 0)
		rec.AddAttrs(slog.String("cwd", "/repo"))
		require.NoError(t, h.Handle(context.Background(), rec))
		assert.Equal(t, "[hook] running formatter cwd=/repo\n", buf.String())
	})

	t.Run("component hidden at info", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		h := newConsoleHandler(buf, &slog.LevelVar{}).WithAttrs([]slog.Attr{slog.String("component", "watcher")})

		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "Watching for changes", 0)
		rec.AddAttrs(slog.String("dir", "/repo"))
		require.NoError(t, h.Handle(context.Background(), rec))
		assert.Equal(t, "Watching for changes\n", buf.String())
	})

	t.Run("WithAttrs does not share backing arrays", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelDebug)
		base := newConsoleHandler(buf, logLevel).WithAttrs([]slog.Attr{slog.Int("a", 1)})
		h1 := base.WithAttrs([]slog.Attr{slog.Int("b", 2)})
		h2 := base.WithAttrs([]slog.Attr{slog.Int("c", 3)})

		require.NoError(t, h1.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "m", 0)))
		assert.Equal(t, "m a=1 b=2\n", buf.String())
		buf.Reset()
		require.NoError(t, h2.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "m", 0)))
		assert.Equal(t, "m a=1 c=3\n", buf.String())
	})

	t.Run("WithGroup", func(t *testing.T) {
		t.Parallel()
		h := newConsoleHandler(&bytes.Buffer{}, &slog.LevelVar{})
		assert.Equal(t, h, h.WithGroup("somegroup"))
	})
}

type errHandler struct{}

func (e *errHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (e *errHandler) Handle(context.Context, slog.Record) error { return errors.New("handler error") }
func (e *errHandler) WithAttrs(_ []slog.Attr) slog.Handler      { return e }
func (e *errHandler) WithGroup(_ string) slog.Handler           { return e }

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	t.Run("Enabled", func(t *testing.T) {
		t.Parallel()
		h1 := newConsoleHandler(&bytes.Buffer{}, &slog.LevelVar{})
		h2 := newConsoleHandler(&bytes.Buffer{}, &slog.LevelVar{})
		multi := &multiHandler{handlers: []slog.Handler{h1, h2}}

		assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

		// False case: none enabled
		h1.level.Set(slog.LevelError)
		h2.level.Set(slog.LevelError)
		assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("failing handler does not block the others", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		multi := &multiHandler{handlers: []slog.Handler{&errHandler{}, newConsoleHandler(buf, &slog.LevelVar{})}}

		err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still shown", 0))
		require.EqualError(t, err, "handler error")
		assert.Equal(t, "still shown\n", buf.String())
	})

	t.Run("WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelDebug)
		multi := &multiHandler{handlers: []slog.Handler{newConsoleHandler(buf, logLevel)}}

		m3 := multi.WithAttrs([]slog.Attr{slog.String("v", "1")})
		require.IsType(t, &multiHandler{}, m3)
		require.NoError(t, m3.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)))
		assert.Equal(t, "msg v=1\n", buf.String())

		m4 := m3.WithGroup("g")
		assert.IsType(t, &multiHandler{}, m4)
	})
}
