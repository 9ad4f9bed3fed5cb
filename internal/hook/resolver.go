package hook

import (
	"github.com/andyballingall/prettier-hook/internal/config"
	"github.com/andyballingall/prettier-hook/internal/fsh"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// Ensure the interface is satisfied.
var _ ProjectResolver = (*YarnProjectResolver)(nil)

// YarnProjectResolver resolves projects from .yarnrc.yml files and package.json manifests.
type YarnProjectResolver struct {
	plugins config.PluginConfig
	env     fsh.EnvProvider
}

// NewYarnProjectResolver creates a YarnProjectResolver.
func NewYarnProjectResolver(plugins config.PluginConfig, env fsh.EnvProvider) *YarnProjectResolver {
	return &YarnProjectResolver{plugins: plugins, env: env}
}

func (r *YarnProjectResolver) FindConfiguration(cwd string) (*config.Configuration, error) {
	return config.Find(cwd, r.plugins, r.env)
}

func (r *YarnProjectResolver) FindProject(
	cfg *config.Configuration, cwd string,
) (*project.Project, project.Locator, error) {
	return project.Find(cfg, cwd)
}
