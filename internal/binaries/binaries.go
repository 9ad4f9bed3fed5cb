// Package binaries resolves the executables a workspace can run through its dependencies.
package binaries

import (
	"context"
	"sort"

	"github.com/andyballingall/prettier-hook/internal/config"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// Descriptor is a binary exposed by an installed package.
type Descriptor struct {
	Name string
	// Package is the name of the dependency that declares the binary.
	Package string
	// Path is the absolute path of the script to run.
	Path string
}

// Table maps binary names to their descriptors.
type Table map[string]Descriptor

// Names returns the binary names in ascending order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver computes the binaries accessible to a workspace.
type Resolver interface {
	GetPackageAccessibleBinaries(ctx context.Context, loc project.Locator, p *project.Project) (Table, error)
}

// Ensure the interface is satisfied.
var _ Resolver = (*LinkerResolver)(nil)

// LinkerResolver picks a Resolver based on the project's node linker.
type LinkerResolver struct {
	NodeModules Resolver
	PnP         Resolver
}

// NewLinkerResolver creates a LinkerResolver.
func NewLinkerResolver(nodeModules, pnp Resolver) *LinkerResolver {
	return &LinkerResolver{NodeModules: nodeModules, PnP: pnp}
}

func (r *LinkerResolver) GetPackageAccessibleBinaries(
	ctx context.Context, loc project.Locator, p *project.Project,
) (Table, error) {
	linker := p.Configuration.NodeLinker
	switch {
	case linker.UsesNodeModules():
		return r.NodeModules.GetPackageAccessibleBinaries(ctx, loc, p)
	case linker == config.LinkerPnP:
		return r.PnP.GetPackageAccessibleBinaries(ctx, loc, p)
	default:
		return nil, &UnsupportedLinkerError{Linker: linker}
	}
}
