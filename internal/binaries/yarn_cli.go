package binaries

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/andyballingall/prettier-hook/internal/project"
)

const DefaultYarnCommand = "yarn"

// Ensure the interface is satisfied.
var _ Resolver = (*YarnCLIResolver)(nil)

// YarnCLIResolver asks the yarn CLI for the binaries of a workspace. It is used for
// Plug'n'Play installs, where there is no node_modules tree to read.
type YarnCLIResolver struct {
	command string
}

// NewYarnCLIResolver creates a YarnCLIResolver. An empty command means "yarn" on PATH.
func NewYarnCLIResolver(command string) *YarnCLIResolver {
	if command == "" {
		command = DefaultYarnCommand
	}
	return &YarnCLIResolver{command: command}
}

func (r *YarnCLIResolver) GetPackageAccessibleBinaries(
	ctx context.Context, loc project.Locator, p *project.Project,
) (Table, error) {
	ws, err := p.WorkspaceByLocator(loc)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, r.command, "bin", "--json")
	cmd.Dir = ws.Cwd
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &YarnBinError{Dir: ws.Cwd, Output: strings.TrimSpace(stderr.String()), Wrapped: err}
	}

	return parseBinLines(stdout.Bytes())
}

// parseBinLines reads one JSON object per line: {"name": ..., "source": ..., "path": ...}.
func parseBinLines(out []byte) (Table, error) {
	table := make(Table)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, &MalformedBinLineError{Line: line}
		}
		fields := gjson.GetMany(line, "name", "source", "path")
		name, path := fields[0].String(), fields[2].String()
		if name == "" || path == "" {
			return nil, &MalformedBinLineError{Line: line}
		}
		table[name] = Descriptor{Name: name, Package: fields[1].String(), Path: path}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
