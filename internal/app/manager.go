package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/andyballingall/prettier-hook/internal/hook"
	"github.com/andyballingall/prettier-hook/internal/report"
	"github.com/andyballingall/prettier-hook/internal/watch"
)

// Manager defines the operations exposed by the CLI.
type Manager interface {
	PostInstall(ctx context.Context) error
	ListBinaries(ctx context.Context, format report.Format, useColour bool) error
	Watch(ctx context.Context, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) PostInstall(ctx context.Context) error {
	return l.check().PostInstall(ctx)
}

func (l *LazyManager) ListBinaries(ctx context.Context, format report.Format, useColour bool) error {
	return l.check().ListBinaries(ctx, format, useColour)
}

func (l *LazyManager) Watch(ctx context.Context, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager runs the hook for a fixed working directory.
type CLIManager struct {
	logger    *slog.Logger
	formatter *hook.Formatter
	env       hook.Env
}

func NewCLIManager(l *slog.Logger, f *hook.Formatter, env hook.Env) *CLIManager {
	return &CLIManager{
		logger:    l,
		formatter: f,
		env:       env,
	}
}

func (m *CLIManager) PostInstall(ctx context.Context) error {
	m.logger.Debug("running post-install hook", "cwd", m.env.Cwd)
	return m.formatter.Run(ctx, m.env)
}

// ListBinaries writes the binaries accessible from the working directory.
func (m *CLIManager) ListBinaries(ctx context.Context, format report.Format, useColour bool) error {
	m.logger.Debug("listing binaries", "cwd", m.env.Cwd, "format", format, "useColour", useColour)

	reporter, err := report.New(format, useColour)
	if err != nil {
		return err
	}

	res, err := m.formatter.Resolve(ctx, m.env.Cwd)
	if err != nil {
		return err
	}

	return reporter.Write(writerOrDiscard(m.env.Stdout), res.Locator, res.Binaries)
}

// Watch reruns the hook whenever package.json or .yarnrc.yml in the working directory
// changes. A failed run is logged and watching continues. If you want to know when the
// watcher is ready, pass a non-nil readyChan.
func (m *CLIManager) Watch(ctx context.Context, readyChan chan<- struct{}) error {
	m.logger.Debug("watching", "cwd", m.env.Cwd)

	watcher := watch.NewWatcher(m.logger)

	callback := func(event watch.Event) {
		m.logger.Info("Change detected:", "path", event.Path)
		if err := m.formatter.Run(ctx, m.env); err != nil {
			m.logger.Error("Formatting failed", "error", err)
			return
		}
		m.logger.Info("Formatted package.json and .yarnrc.yml")
	}

	if readyChan != nil {
		go func() {
			select {
			case <-watcher.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	err := watcher.Watch(ctx, m.env.Cwd, callback)
	if errors.Is(err, context.Canceled) {
		m.logger.Info("Interrupted by user")
		return nil
	}
	return err
}

// writerOrDiscard guards against a nil writer in hook.Env.
func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
