// Package manifest reads the subset of package.json the hook depends on.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"
)

const Filename = "package.json"

// Manifest is a parsed package.json.
type Manifest struct {
	Path    string
	Name    string
	Version string
	// Bin maps binary names to paths relative to the package directory.
	Bin                  map[string]string
	Dependencies         map[string]string
	DevDependencies      map[string]string
	OptionalDependencies map[string]string
	PeerDependencies     map[string]string
	Workspaces           []string
}

// Dependency is one entry from any of the dependency maps of a manifest.
type Dependency struct {
	Name     string
	Range    string
	Optional bool
}

// Read parses the package.json found in dir.
func Read(dir string) (*Manifest, error) {
	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &MissingManifestError{Dir: dir}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse validates data against the manifest schema and extracts its fields.
// path is only used for error reporting and Manifest.Path.
func Parse(path string, data []byte) (*Manifest, error) {
	if err := validate(data); err != nil {
		return nil, &InvalidManifestError{Path: path, Wrapped: err}
	}

	m := &Manifest{
		Path:                 path,
		Name:                 gjson.GetBytes(data, "name").String(),
		Version:              gjson.GetBytes(data, "version").String(),
		Dependencies:         stringMap(gjson.GetBytes(data, "dependencies")),
		DevDependencies:      stringMap(gjson.GetBytes(data, "devDependencies")),
		OptionalDependencies: stringMap(gjson.GetBytes(data, "optionalDependencies")),
		PeerDependencies:     stringMap(gjson.GetBytes(data, "peerDependencies")),
	}

	bin := gjson.GetBytes(data, "bin")
	switch {
	case bin.Type == gjson.String:
		if m.Name != "" {
			m.Bin = map[string]string{UnscopedName(m.Name): bin.String()}
		}
	case bin.IsObject():
		m.Bin = stringMap(bin)
	}

	ws := gjson.GetBytes(data, "workspaces")
	if ws.IsObject() {
		ws = ws.Get("packages")
	}
	for _, p := range ws.Array() {
		m.Workspaces = append(m.Workspaces, p.String())
	}

	return m, nil
}

func validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("manifest schema failed to compile: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}

func stringMap(r gjson.Result) map[string]string {
	if !r.IsObject() {
		return nil
	}
	m := make(map[string]string)
	r.ForEach(func(k, v gjson.Result) bool {
		m[k.String()] = v.String()
		return true
	})
	return m
}

// AllDependencies merges every dependency map, sorted by name. A package listed as
// optional or peer anywhere is reported as optional.
func (m *Manifest) AllDependencies() []Dependency {
	byName := make(map[string]Dependency)
	add := func(deps map[string]string, optional bool) {
		for name, rng := range deps {
			d, seen := byName[name]
			if !seen {
				d = Dependency{Name: name, Range: rng}
			}
			d.Optional = d.Optional || optional
			byName[name] = d
		}
	}
	add(m.Dependencies, false)
	add(m.DevDependencies, false)
	add(m.OptionalDependencies, true)
	add(m.PeerDependencies, true)

	deps := make([]Dependency, 0, len(byName))
	for _, d := range byName {
		deps = append(deps, d)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps
}

// UnscopedName strips the "@scope/" prefix from a package name.
func UnscopedName(name string) string {
	if strings.HasPrefix(name, "@") {
		if _, rest, ok := strings.Cut(name, "/"); ok {
			return rest
		}
	}
	return name
}
