package binaries

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/andyballingall/prettier-hook/internal/fsh"
	"github.com/andyballingall/prettier-hook/internal/manifest"
	"github.com/andyballingall/prettier-hook/internal/project"
)

const (
	NodeModulesDir = "node_modules"

	defaultConcurrency = 8
)

// Ensure the interface is satisfied.
var _ Resolver = (*NodeModulesResolver)(nil)

// NodeModulesResolver reads binaries from the manifests of a workspace's direct
// dependencies as installed under node_modules.
type NodeModulesResolver struct {
	logger      *slog.Logger
	concurrency int
}

// NewNodeModulesResolver creates a NodeModulesResolver.
func NewNodeModulesResolver(logger *slog.Logger) *NodeModulesResolver {
	return &NodeModulesResolver{
		logger:      logger.With("component", "node-modules-resolver"),
		concurrency: defaultConcurrency,
	}
}

// GetPackageAccessibleBinaries reads the bin entries of the direct dependencies of
// the workspace identified by loc.
func (r *NodeModulesResolver) GetPackageAccessibleBinaries(
	ctx context.Context, loc project.Locator, p *project.Project,
) (Table, error) {
	ws, err := p.WorkspaceByLocator(loc)
	if err != nil {
		return nil, err
	}

	deps := ws.Manifest.AllDependencies()
	found := make([]*manifest.Manifest, len(deps))
	dirs := make([]string, len(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, dep := range deps {
		i, dep := i, dep
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dir, ok := findPackageDir(p.Cwd, ws.Cwd, dep.Name)
			if !ok {
				if !dep.Optional {
					r.logger.Debug("dependency not installed", "package", dep.Name, "workspace", loc.String())
				}
				return nil
			}
			m, err := manifest.Read(dir)
			if err != nil {
				return err
			}
			found[i], dirs[i] = m, dir
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// deps is sorted, so a later dependency deterministically overrides an earlier one.
	table := make(Table)
	for i, m := range found {
		if m == nil {
			continue
		}
		for name, rel := range m.Bin {
			table[name] = Descriptor{
				Name:    name,
				Package: deps[i].Name,
				Path:    filepath.Join(dirs[i], filepath.FromSlash(rel)),
			}
		}
	}

	r.logger.Debug("resolved accessible binaries", "workspace", loc.String(), "count", len(table))
	return table, nil
}

// findPackageDir looks for node_modules/<name> from the workspace directory up to the
// project root, following the hoisting layout.
func findPackageDir(projectCwd, workspaceCwd, name string) (string, bool) {
	for _, dir := range fsh.Ancestors(workspaceCwd) {
		if !fsh.IsWithin(projectCwd, dir) {
			break
		}
		candidate := filepath.Join(dir, NodeModulesDir, filepath.FromSlash(name))
		if fsh.DirExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
