// Package executor runs binaries exposed by a project's dependencies.
package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/andyballingall/prettier-hook/internal/binaries"
	"github.com/andyballingall/prettier-hook/internal/fsh"
	"github.com/andyballingall/prettier-hook/internal/project"
)

const (
	PnPRuntimeFile = ".pnp.cjs"
	PnPLoaderFile  = ".pnp.loader.mjs"

	nodeOptionsEnvVar = "NODE_OPTIONS"
)

// Options configures a single binary execution.
type Options struct {
	Cwd      string
	Binaries binaries.Table
	Project  *project.Project
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// Executor runs a binary from an accessible binaries table.
type Executor interface {
	// ExecutePackageAccessibleBinary runs the binary called name with args and returns
	// its exit code. An error means the process could not be started.
	ExecutePackageAccessibleBinary(
		ctx context.Context, loc project.Locator, name string, args []string, opts Options,
	) (int, error)
}

// Ensure the interface is satisfied.
var _ Executor = (*NodeExecutor)(nil)

// NodeExecutor runs binary scripts with the node interpreter.
type NodeExecutor struct {
	nodePath string
	env      fsh.EnvProvider
	logger   *slog.Logger
	lookPath func(file string) (string, error)
}

// NewNodeExecutor creates a NodeExecutor. An empty nodePath means "node" on PATH.
func NewNodeExecutor(nodePath string, env fsh.EnvProvider, logger *slog.Logger) *NodeExecutor {
	return &NodeExecutor{
		nodePath: nodePath,
		env:      env,
		logger:   logger.With("component", "executor"),
		lookPath: exec.LookPath,
	}
}

func (e *NodeExecutor) ExecutePackageAccessibleBinary(
	ctx context.Context, loc project.Locator, name string, args []string, opts Options,
) (int, error) {
	desc, ok := opts.Binaries[name]
	if !ok {
		return 0, &BinaryNotInTableError{Name: name, Locator: loc.String()}
	}

	node, err := e.node()
	if err != nil {
		return 0, err
	}

	//nolint:gosec // the script path comes from an installed package manifest
	cmd := exec.CommandContext(ctx, node, append([]string{desc.Path}, args...)...)
	cmd.Dir = opts.Cwd
	cmd.Env = e.environ(opts.Project)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	e.logger.Debug("executing binary", "name", name, "package", desc.Package, "path", desc.Path,
		"args", args, "cwd", opts.Cwd, "locator", loc.String())

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

func (e *NodeExecutor) node() (string, error) {
	if e.nodePath != "" {
		return e.nodePath, nil
	}
	path, err := e.lookPath("node")
	if err != nil {
		return "", &NodeNotFoundError{Wrapped: err}
	}
	return path, nil
}

// environ returns the process environment, adding the Plug'n'Play runtime to
// NODE_OPTIONS when the project has one.
func (e *NodeExecutor) environ(p *project.Project) []string {
	env := e.env.Environ()
	if p == nil {
		return env
	}

	var extra []string
	if runtime := filepath.Join(p.Cwd, PnPRuntimeFile); fsh.FileExists(runtime) {
		extra = append(extra, "--require "+quoteNodeOption(runtime))
	}
	if loader := filepath.Join(p.Cwd, PnPLoaderFile); fsh.FileExists(loader) {
		extra = append(extra, "--experimental-loader "+quoteNodeOption(loader))
	}
	if len(extra) == 0 {
		return env
	}

	return withNodeOptions(env, strings.Join(extra, " "))
}

// withNodeOptions appends opts to NODE_OPTIONS, keeping any value already present.
func withNodeOptions(env []string, opts string) []string {
	prefix := nodeOptionsEnvVar + "="
	out := make([]string, 0, len(env)+1)
	var current string
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			current = strings.TrimPrefix(kv, prefix)
			continue
		}
		out = append(out, kv)
	}
	if current != "" {
		opts = current + " " + opts
	}
	return append(out, prefix+opts)
}

func quoteNodeOption(path string) string {
	if !strings.ContainsAny(path, " \t\"") {
		return path
	}
	return `"` + strings.ReplaceAll(path, `"`, `\"`) + `"`
}
