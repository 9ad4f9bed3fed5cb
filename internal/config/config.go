package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/prettier-hook/internal/fsh"
)

const (
	RcFilename              = ".yarnrc.yml"
	ManifestFilename        = "package.json"
	DefaultLockfileFilename = "yarn.lock"

	NodeLinkerEnvVar       = "YARN_NODE_LINKER"
	LockfileFilenameEnvVar = "YARN_LOCKFILE_FILENAME"
)

// NodeLinker identifies how installed packages are laid out on disk.
type NodeLinker string

const (
	LinkerPnP         NodeLinker = "pnp"
	LinkerNodeModules NodeLinker = "node-modules"
	LinkerPnpm        NodeLinker = "pnpm"
)

var supportedLinkers = []NodeLinker{LinkerPnP, LinkerNodeModules, LinkerPnpm}

func supportedLinkerNames() []string {
	names := make([]string, len(supportedLinkers))
	for i, l := range supportedLinkers {
		names[i] = string(l)
	}
	return names
}

// UsesNodeModules reports whether the linker materialises a node_modules tree.
func (l NodeLinker) UsesNodeModules() bool {
	return l == LinkerNodeModules || l == LinkerPnpm
}

// coreSettings are the rc keys understood without a plugin declaring them.
var coreSettings = []string{
	"nodeLinker",
	"lockfileFilename",
	"yarnPath",
	"plugins",
	"cacheFolder",
	"globalFolder",
	"installStatePath",
	"virtualFolder",
	"compressionLevel",
	"checksumBehavior",
	"cacheMigrationMode",
	"enableGlobalCache",
	"enableMirror",
	"enableTelemetry",
	"enableScripts",
	"enableColors",
	"enableHyperlinks",
	"enableInlineBuilds",
	"enableProgressBars",
	"enableNetwork",
	"enableOfflineMode",
	"enableStrictSsl",
	"enableTransparentWorkspaces",
	"enableImmutableCache",
	"enableImmutableInstalls",
	"enableConstraintsChecks",
	"enableMessageNames",
	"defaultLanguageName",
	"defaultProtocol",
	"defaultSemverRangePrefix",
	"preferInteractive",
	"preferReuse",
	"preferTruncatedLines",
	"supportedArchitectures",
	"packageExtensions",
	"logFilters",
	"httpProxy",
	"httpsProxy",
	"httpTimeout",
	"httpRetry",
	"networkConcurrency",
	"networkSettings",
	"caFilePath",
	"httpsCaFilePath",
	"httpsCertFilePath",
	"httpsKeyFilePath",
	"unsafeHttpWhitelist",
	"injectEnvironmentFiles",
	"initScope",
	"initFields",
	"npmRegistryServer",
	"npmPublishRegistry",
	"npmAuditRegistry",
	"npmScopes",
	"npmRegistries",
	"npmAuthToken",
	"npmAuthIdent",
	"npmAlwaysAuth",
	"npmPublishAccess",
	"changesetBaseRefs",
	"changesetIgnorePatterns",
	"pnpMode",
	"pnpShebang",
	"pnpIgnorePatterns",
	"pnpEnableEsmLoader",
	"pnpEnableInlining",
	"pnpFallbackMode",
	"pnpUnpluggedFolder",
	"nmHoistingLimits",
	"nmMode",
	"nmSelfReferences",
	"winLinkType",
	"immutablePatterns",
	"telemetryInterval",
	"telemetryUserId",
}

// PluginConfig lists the rc settings declared by the plugins loaded alongside the hook.
type PluginConfig struct {
	Settings []string
}

// RcFile is a single .yarnrc.yml that contributed to a Configuration.
type RcFile struct {
	Path     string
	Settings map[string]any
}

// Configuration is the merged result of every rc file between the starting directory
// and the filesystem root, plus the project root those files belong to.
type Configuration struct {
	StartingCwd      string
	ProjectCwd       string
	NodeLinker       NodeLinker
	LockfileFilename string
	// Settings holds every recognised key, closest rc file first.
	Settings map[string]any
	// RcFiles are ordered closest first.
	RcFiles []RcFile
	// Unrecognized lists keys that neither the core nor a plugin declared.
	Unrecognized []string
}

// Find discovers the configuration for startingCwd: it reads every .yarnrc.yml from
// startingCwd up to the filesystem root and locates the project root.
// A ConfigurationNotFoundError is returned when no project root exists.
func Find(startingCwd string, plugins PluginConfig, env fsh.EnvProvider) (*Configuration, error) {
	dirs := fsh.Ancestors(startingCwd)

	cfg := &Configuration{
		StartingCwd: filepath.Clean(startingCwd),
		Settings:    make(map[string]any),
	}

	for _, dir := range dirs {
		rc, err := readRcFile(filepath.Join(dir, RcFilename))
		if err != nil {
			return nil, err
		}
		if rc != nil {
			cfg.RcFiles = append(cfg.RcFiles, *rc)
		}
	}

	if err := cfg.merge(plugins, env); err != nil {
		return nil, err
	}

	projectCwd, ok := findProjectCwd(dirs, cfg.LockfileFilename)
	if !ok {
		return nil, &ConfigurationNotFoundError{
			StartingCwd: cfg.StartingCwd,
			Lockfile:    cfg.LockfileFilename,
		}
	}
	cfg.ProjectCwd = projectCwd

	return cfg, nil
}

// merge folds the rc files into Settings and resolves the typed core settings.
// Environment variables take precedence over every rc file.
func (c *Configuration) merge(plugins PluginConfig, env fsh.EnvProvider) error {
	unrecognized := make(map[string]bool)
	sources := make(map[string]string)

	for _, rc := range c.RcFiles {
		for key, val := range rc.Settings {
			if !slices.Contains(coreSettings, key) && !slices.Contains(plugins.Settings, key) {
				unrecognized[key] = true
				continue
			}
			if _, seen := c.Settings[key]; seen {
				continue
			}
			c.Settings[key] = val
			sources[key] = rc.Path
		}
	}

	for key := range unrecognized {
		c.Unrecognized = append(c.Unrecognized, key)
	}
	sort.Strings(c.Unrecognized)

	linker, err := stringSetting(c.Settings, sources, "nodeLinker", string(LinkerPnP))
	if err != nil {
		return err
	}
	linkerSource := sources["nodeLinker"]
	if v := env.Get(NodeLinkerEnvVar); v != "" {
		linker, linkerSource = v, NodeLinkerEnvVar
	}
	if !slices.Contains(supportedLinkers, NodeLinker(linker)) {
		return &UnknownNodeLinkerError{Value: linker, Source: linkerSource}
	}
	c.NodeLinker = NodeLinker(linker)

	lockfile, err := stringSetting(c.Settings, sources, "lockfileFilename", DefaultLockfileFilename)
	if err != nil {
		return err
	}
	if v := env.Get(LockfileFilenameEnvVar); v != "" {
		lockfile = v
	}
	c.LockfileFilename = lockfile

	return nil
}

func stringSetting(settings map[string]any, sources map[string]string, key, def string) (string, error) {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &InvalidSettingError{Key: key, Source: sources[key], Want: "string"}
	}
	return s, nil
}

// findProjectCwd returns the closest directory holding the lockfile. Without a lockfile
// the top-most directory holding a manifest is used.
func findProjectCwd(dirs []string, lockfile string) (string, bool) {
	var candidate string
	for _, dir := range dirs {
		if fsh.FileExists(filepath.Join(dir, lockfile)) {
			return dir, true
		}
		if fsh.FileExists(filepath.Join(dir, ManifestFilename)) {
			candidate = dir
		}
	}
	return candidate, candidate != ""
}

// readRcFile returns nil, nil when path does not exist.
func readRcFile(path string) (*RcFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	settings := make(map[string]any)
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	return &RcFile{Path: path, Settings: settings}, nil
}
