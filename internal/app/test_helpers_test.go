package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/prettier-hook/internal/executor"
	"github.com/andyballingall/prettier-hook/internal/project"
	"github.com/andyballingall/prettier-hook/internal/report"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) PostInstall(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockManager) ListBinaries(ctx context.Context, format report.Format, useColour bool) error {
	args := m.Called(ctx, format, useColour)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, readyChan chan<- struct{}) error {
	args := m.Called(ctx, readyChan)
	return args.Error(0)
}

type mockEnvProvider struct {
	values map[string]string
}

func (m *mockEnvProvider) Get(key string) string {
	return m.values[key]
}

func (m *mockEnvProvider) Environ() []string {
	env := make([]string, 0, len(m.values))
	for k, v := range m.values {
		env = append(env, k+"="+v)
	}
	return env
}

// execCall records one ExecutePackageAccessibleBinary invocation.
type execCall struct {
	Locator project.Locator
	Name    string
	Args    []string
	Cwd     string
}

// recordingExecutor is a hook.BinaryExecutor that records calls and returns a fixed code.
type recordingExecutor struct {
	mu    sync.Mutex
	calls []execCall
	code  int
	err   error
	ran   chan struct{}
}

func newRecordingExecutor(code int, err error) *recordingExecutor {
	return &recordingExecutor{code: code, err: err, ran: make(chan struct{}, 16)}
}

func (e *recordingExecutor) ExecutePackageAccessibleBinary(
	_ context.Context, loc project.Locator, name string, args []string, opts executor.Options,
) (int, error) {
	e.mu.Lock()
	e.calls = append(e.calls, execCall{Locator: loc, Name: name, Args: args, Cwd: opts.Cwd})
	e.mu.Unlock()
	select {
	case e.ran <- struct{}{}:
	default:
	}
	return e.code, e.err
}

func (e *recordingExecutor) Calls() []execCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]execCall(nil), e.calls...)
}

// writeProject lays out a node-modules project under dir. With prettier set, the root
// workspace depends on an installed prettier package.
func writeProject(t *testing.T, dir string, prettier bool) {
	t.Helper()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	write("yarn.lock", "")
	write(".yarnrc.yml", "nodeLinker: node-modules\n")
	if !prettier {
		write("package.json", `{"name": "my-app", "dependencies": {"left-pad": "^1.3.0"}}`)
		write("node_modules/left-pad/package.json", `{"name": "left-pad", "version": "1.3.0"}`)
		return
	}
	write("package.json", `{"name": "my-app", "devDependencies": {"prettier": "^3.0.0"}}`)
	write("node_modules/prettier/package.json",
		`{"name": "prettier", "version": "3.3.3", "bin": {"prettier": "bin/prettier.cjs"}}`)
	write("node_modules/prettier/bin/prettier.cjs", "")
}

// canonicalTempDir returns a temp dir with symlinks resolved, matching what the CLI captures.
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}
