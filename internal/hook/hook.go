// Package hook implements the post-install formatter hook: it resolves the project
// owning the working directory, finds the prettier binary among the project's
// accessible binaries and runs it over package.json and .yarnrc.yml.
package hook

import (
	"context"
	"io"
	"log/slog"

	"github.com/andyballingall/prettier-hook/internal/binaries"
	"github.com/andyballingall/prettier-hook/internal/config"
	"github.com/andyballingall/prettier-hook/internal/executor"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// BinaryName is the accessible binary the hook runs.
const BinaryName = "prettier"

var formatterArgs = []string{"--log-level", "error", "-w", "package.json", ".yarnrc.yml"}

// Args returns the argument vector passed to the formatter.
func Args() []string {
	return append([]string(nil), formatterArgs...)
}

// ProjectResolver discovers the configuration and project identity for a directory.
type ProjectResolver interface {
	FindConfiguration(cwd string) (*config.Configuration, error)
	FindProject(cfg *config.Configuration, cwd string) (*project.Project, project.Locator, error)
}

// BinaryResolver lists the binaries a workspace can run.
type BinaryResolver interface {
	GetPackageAccessibleBinaries(ctx context.Context, loc project.Locator, p *project.Project) (binaries.Table, error)
}

// BinaryExecutor runs an accessible binary and reports its exit code.
type BinaryExecutor interface {
	ExecutePackageAccessibleBinary(
		ctx context.Context, loc project.Locator, name string, args []string, opts executor.Options,
	) (int, error)
}

// Env is the ambient process state the hook reads.
type Env struct {
	Cwd    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Resolution is the outcome of resolving a working directory to its binaries.
type Resolution struct {
	Configuration *config.Configuration
	Project       *project.Project
	Locator       project.Locator
	Binaries      binaries.Table
}

// Formatter is the post-install hook. It holds no state between runs.
type Formatter struct {
	projects ProjectResolver
	binaries BinaryResolver
	executor BinaryExecutor
	logger   *slog.Logger
}

// NewFormatter creates a Formatter from its collaborators.
func NewFormatter(pr ProjectResolver, br BinaryResolver, be BinaryExecutor, logger *slog.Logger) *Formatter {
	return &Formatter{
		projects: pr,
		binaries: br,
		executor: be,
		logger:   logger.With("component", "hook"),
	}
}

// Resolve finds the configuration, project, locator and accessible binaries for cwd.
// Errors from the collaborators are returned unchanged.
func (f *Formatter) Resolve(ctx context.Context, cwd string) (*Resolution, error) {
	cfg, err := f.projects.FindConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	if len(cfg.Unrecognized) > 0 {
		f.logger.Debug("unrecognized configuration settings", "keys", cfg.Unrecognized)
	}

	p, loc, err := f.projects.FindProject(cfg, cwd)
	if err != nil {
		return nil, err
	}

	bins, err := f.binaries.GetPackageAccessibleBinaries(ctx, loc, p)
	if err != nil {
		return nil, err
	}

	return &Resolution{Configuration: cfg, Project: p, Locator: loc, Binaries: bins}, nil
}

// Run formats package.json and .yarnrc.yml with the project's prettier binary.
// It fails with BinaryNotFoundError when prettier is not accessible and with
// NonZeroExitError when it exits with a non-zero code.
func (f *Formatter) Run(ctx context.Context, env Env) error {
	res, err := f.Resolve(ctx, env.Cwd)
	if err != nil {
		return err
	}

	if _, ok := res.Binaries[BinaryName]; !ok {
		return &BinaryNotFoundError{Name: BinaryName}
	}

	f.logger.Debug("running formatter", "locator", res.Locator.String(), "cwd", env.Cwd)

	code, err := f.executor.ExecutePackageAccessibleBinary(ctx, res.Locator, BinaryName, Args(), executor.Options{
		Cwd:      env.Cwd,
		Binaries: res.Binaries,
		Project:  res.Project,
		Stdin:    env.Stdin,
		Stdout:   env.Stdout,
		Stderr:   env.Stderr,
	})
	if err != nil {
		return &LaunchError{Wrapped: err}
	}
	if code != 0 {
		return &NonZeroExitError{Code: code}
	}
	return nil
}
