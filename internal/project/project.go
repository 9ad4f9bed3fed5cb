// Package project resolves the project and workspace that own a working directory.
package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/andyballingall/prettier-hook/internal/config"
	"github.com/andyballingall/prettier-hook/internal/fsh"
	"github.com/andyballingall/prettier-hook/internal/manifest"
)

// WorkspaceProtocol is the reference protocol of workspace locators.
const WorkspaceProtocol = "workspace:"

// Locator identifies a workspace within a project.
type Locator struct {
	Ident     string
	Reference string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s@%s", l.Ident, l.Reference)
}

// Workspace is a directory of the project with its own manifest.
type Workspace struct {
	Cwd         string
	RelativeCwd string
	Manifest    *manifest.Manifest
	Locator     Locator
}

// Project is the set of workspaces rooted at the configuration's project directory.
type Project struct {
	Cwd           string
	Configuration *config.Configuration
	TopLevel      *Workspace
	// Workspaces are sorted by RelativeCwd; the top-level workspace is first.
	Workspaces []*Workspace
}

// Find loads the project rooted at cfg.ProjectCwd and returns the locator of the
// workspace that owns cwd.
func Find(cfg *config.Configuration, cwd string) (*Project, Locator, error) {
	p, err := load(cfg)
	if err != nil {
		return nil, Locator{}, err
	}

	ws := p.WorkspaceByCwd(filepath.Clean(cwd))
	if ws == nil {
		return nil, Locator{}, &WorkspaceNotFoundError{Cwd: cwd, ProjectCwd: p.Cwd}
	}
	return p, ws.Locator, nil
}

func load(cfg *config.Configuration) (*Project, error) {
	root := cfg.ProjectCwd

	top, err := newWorkspace(root, root)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Cwd:           root,
		Configuration: cfg,
		TopLevel:      top,
		Workspaces:    []*Workspace{top},
	}

	dirs, err := expandPatterns(root, top.Manifest.Workspaces)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		ws, err := newWorkspace(root, dir)
		if err != nil {
			return nil, err
		}
		p.Workspaces = append(p.Workspaces, ws)
	}

	return p, nil
}

func newWorkspace(root, dir string) (*Workspace, error) {
	m, err := manifest.Read(dir)
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	ident := m.Name
	if ident == "" {
		ident = anonymousIdent(root, dir)
	}

	return &Workspace{
		Cwd:         dir,
		RelativeCwd: rel,
		Manifest:    m,
		Locator:     Locator{Ident: ident, Reference: WorkspaceProtocol + rel},
	}, nil
}

func anonymousIdent(root, dir string) string {
	if dir == root {
		return "root-workspace"
	}
	return filepath.Base(dir) + "-workspace"
}

// expandPatterns returns the sorted, de-duplicated directories matched by the
// workspace glob patterns that contain a manifest. Patterns starting with "!" exclude
// the directories they match, and nothing under node_modules is ever a workspace.
// The root itself is never included.
func expandPatterns(root string, patterns []string) ([]string, error) {
	var includes, excludes []string
	for _, pattern := range patterns {
		negated := strings.HasPrefix(pattern, "!")
		clean := path.Clean(strings.TrimPrefix(pattern, "!"))
		if !doublestar.ValidatePattern(clean) {
			return nil, &InvalidWorkspacePatternError{Pattern: pattern, Wrapped: doublestar.ErrBadPattern}
		}
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			continue
		}
		if negated {
			excludes = append(excludes, clean)
		} else {
			includes = append(includes, clean)
		}
	}

	fsys := os.DirFS(root)
	seen := map[string]bool{".": true}
	var dirs []string

	for _, pattern := range includes {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, &InvalidWorkspacePatternError{Pattern: pattern, Wrapped: err}
		}
		for _, rel := range matches {
			if seen[rel] || inNodeModules(rel) || excluded(excludes, rel) {
				continue
			}
			seen[rel] = true
			dir := filepath.Join(root, filepath.FromSlash(rel))
			if !fsh.FileExists(filepath.Join(dir, manifest.Filename)) {
				continue
			}
			dirs = append(dirs, dir)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

func inNodeModules(rel string) bool {
	return slices.Contains(strings.Split(rel, "/"), "node_modules")
}

func excluded(excludes []string, rel string) bool {
	for _, pattern := range excludes {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// WorkspaceByCwd returns the deepest workspace whose directory contains cwd.
func (p *Project) WorkspaceByCwd(cwd string) *Workspace {
	var best *Workspace
	for _, ws := range p.Workspaces {
		if !fsh.IsWithin(ws.Cwd, cwd) {
			continue
		}
		if best == nil || len(ws.Cwd) > len(best.Cwd) {
			best = ws
		}
	}
	return best
}

// WorkspaceByLocator returns the workspace identified by loc.
func (p *Project) WorkspaceByLocator(loc Locator) (*Workspace, error) {
	for _, ws := range p.Workspaces {
		if ws.Locator == loc {
			return ws, nil
		}
	}
	return nil, &UnknownLocatorError{Locator: loc}
}
