package binaries

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/prettier-hook/internal/config"
	"github.com/andyballingall/prettier-hook/internal/manifest"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// setupInstalledProject lays out a hoisted node_modules tree for a two workspace project.
func setupInstalledProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "package.json"), `{
		"name": "repo",
		"workspaces": ["packages/*"],
		"devDependencies": {"prettier": "^3.0.0", "@acme/tool": "1.0.0", "typescript": "^5.0.0"},
		"optionalDependencies": {"fsevents": "^2.0.0"}
	}`)
	writeJSON(t, filepath.Join(root, "node_modules", "prettier", "package.json"),
		`{"name": "prettier", "bin": "./bin/prettier.cjs"}`)
	writeJSON(t, filepath.Join(root, "node_modules", "@acme", "tool", "package.json"),
		`{"name": "@acme/tool", "bin": {"acme": "cli.js", "acme-dev": "dev/cli.js"}}`)
	writeJSON(t, filepath.Join(root, "node_modules", "lodash", "package.json"),
		`{"name": "lodash"}`)

	app := filepath.Join(root, "packages", "app")
	writeJSON(t, filepath.Join(app, "package.json"), `{
		"name": "app",
		"dependencies": {"lodash": "^4.0.0", "eslint": "^9.0.0"}
	}`)
	// eslint is installed in the workspace's own node_modules rather than hoisted.
	writeJSON(t, filepath.Join(app, "node_modules", "eslint", "package.json"),
		`{"name": "eslint", "bin": {"eslint": "bin/eslint.js"}}`)
	return root
}

func TestNodeModulesResolver_GetPackageAccessibleBinaries(t *testing.T) {
	t.Parallel()

	t.Run("top-level workspace", func(t *testing.T) {
		t.Parallel()
		root := setupInstalledProject(t)
		p, loc := loadProject(t, root, root, config.LinkerNodeModules)

		table, err := NewNodeModulesResolver(discardLogger()).GetPackageAccessibleBinaries(context.Background(), loc, p)
		require.NoError(t, err)
		assert.Equal(t, Table{
			"prettier": {
				Name:    "prettier",
				Package: "prettier",
				Path:    filepath.Join(root, "node_modules", "prettier", "bin", "prettier.cjs"),
			},
			"acme": {
				Name:    "acme",
				Package: "@acme/tool",
				Path:    filepath.Join(root, "node_modules", "@acme", "tool", "cli.js"),
			},
			"acme-dev": {
				Name:    "acme-dev",
				Package: "@acme/tool",
				Path:    filepath.Join(root, "node_modules", "@acme", "tool", "dev", "cli.js"),
			},
		}, table, "typescript and fsevents are not installed and must be skipped")
	})

	t.Run("nested workspace sees its own and hoisted dependencies only", func(t *testing.T) {
		t.Parallel()
		root := setupInstalledProject(t)
		app := filepath.Join(root, "packages", "app")
		p, loc := loadProject(t, root, app, config.LinkerNodeModules)

		table, err := NewNodeModulesResolver(discardLogger()).GetPackageAccessibleBinaries(context.Background(), loc, p)
		require.NoError(t, err)
		assert.Equal(t, []string{"eslint"}, table.Names(), "prettier is a root dependency, not an app dependency")
		assert.Equal(t, filepath.Join(app, "node_modules", "eslint", "bin", "eslint.js"), table["eslint"].Path)
	})

	t.Run("later dependency wins a name collision", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeJSON(t, filepath.Join(root, "package.json"),
			`{"dependencies": {"prettier": "^3", "zz-prettier-fork": "^1"}}`)
		writeJSON(t, filepath.Join(root, "node_modules", "prettier", "package.json"),
			`{"name": "prettier", "bin": "bin/prettier.cjs"}`)
		writeJSON(t, filepath.Join(root, "node_modules", "zz-prettier-fork", "package.json"),
			`{"name": "zz-prettier-fork", "bin": {"prettier": "fork.js"}}`)
		p, loc := loadProject(t, root, root, config.LinkerNodeModules)

		r := NewNodeModulesResolver(discardLogger())
		r.concurrency = 1
		table, err := r.GetPackageAccessibleBinaries(context.Background(), loc, p)
		require.NoError(t, err)
		assert.Equal(t, "zz-prettier-fork", table["prettier"].Package)
	})

	t.Run("pnpm symlinked layout", func(t *testing.T) {
		t.Parallel()
		root, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		writeJSON(t, filepath.Join(root, "package.json"), `{"devDependencies": {"prettier": "^3"}}`)
		store := filepath.Join(root, "node_modules", ".pnpm", "prettier@3.3.3", "node_modules", "prettier")
		writeJSON(t, filepath.Join(store, "package.json"), `{"name": "prettier", "bin": "bin/prettier.cjs"}`)
		require.NoError(t, os.MkdirAll(filepath.Join(store, "bin"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(store, "bin", "prettier.cjs"), nil, 0o755))
		require.NoError(t, os.Symlink(store, filepath.Join(root, "node_modules", "prettier")))
		p, loc := loadProject(t, root, root, config.LinkerPnpm)

		pnp := &stubResolver{}
		r := NewLinkerResolver(NewNodeModulesResolver(discardLogger()), pnp)
		table, err := r.GetPackageAccessibleBinaries(context.Background(), loc, p)
		require.NoError(t, err)
		assert.Zero(t, pnp.calls)

		require.Contains(t, table, "prettier")
		bin := table["prettier"].Path
		assert.Equal(t, filepath.Join(root, "node_modules", "prettier", "bin", "prettier.cjs"), bin)
		assert.FileExists(t, bin)
		resolved, err := filepath.EvalSymlinks(bin)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(store, "bin", "prettier.cjs"), resolved)
	})

	t.Run("invalid dependency manifest", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeJSON(t, filepath.Join(root, "package.json"), `{"dependencies": {"broken": "1"}}`)
		writeJSON(t, filepath.Join(root, "node_modules", "broken", "package.json"), `{"bin": 1}`)
		p, loc := loadProject(t, root, root, config.LinkerNodeModules)

		_, err := NewNodeModulesResolver(discardLogger()).GetPackageAccessibleBinaries(context.Background(), loc, p)
		var target *manifest.InvalidManifestError
		require.ErrorAs(t, err, &target)
	})

	t.Run("unknown locator", func(t *testing.T) {
		t.Parallel()
		root := setupInstalledProject(t)
		p, _ := loadProject(t, root, root, config.LinkerNodeModules)

		_, err := NewNodeModulesResolver(discardLogger()).GetPackageAccessibleBinaries(
			context.Background(), project.Locator{Ident: "ghost", Reference: "workspace:ghost"}, p)
		var target *project.UnknownLocatorError
		require.ErrorAs(t, err, &target)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		root := setupInstalledProject(t)
		p, loc := loadProject(t, root, root, config.LinkerNodeModules)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewNodeModulesResolver(discardLogger()).GetPackageAccessibleBinaries(ctx, loc, p)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		t.Parallel()
		root := setupInstalledProject(t)
		p, loc := loadProject(t, root, root, config.LinkerNodeModules)
		r := NewNodeModulesResolver(discardLogger())

		first, err := r.GetPackageAccessibleBinaries(context.Background(), loc, p)
		require.NoError(t, err)
		second, err := r.GetPackageAccessibleBinaries(context.Background(), loc, p)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestFindPackageDir(t *testing.T) {
	t.Parallel()
	parent := t.TempDir()
	root := filepath.Join(parent, "repo")
	ws := filepath.Join(root, "packages", "app")
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "node_modules", "local"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "hoisted"), 0o755))
	// Installed above the project root, must not be seen.
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "node_modules", "outside"), 0o755))

	dir, ok := findPackageDir(root, ws, "local")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(ws, "node_modules", "local"), dir)

	dir, ok = findPackageDir(root, ws, "hoisted")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "node_modules", "hoisted"), dir)

	_, ok = findPackageDir(root, ws, "outside")
	assert.False(t, ok)
}
