package report

import (
	"encoding/json"
	"io"

	"github.com/andyballingall/prettier-hook/internal/binaries"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// JSONReporter writes the table as indented JSON.
type JSONReporter struct{}

type jsonBinary struct {
	Name    string `json:"name"`
	Package string `json:"package"`
	Path    string `json:"path"`
}

type jsonOutput struct {
	Locator  string       `json:"locator"`
	Binaries []jsonBinary `json:"binaries"`
}

func (jr *JSONReporter) Write(w io.Writer, loc project.Locator, table binaries.Table) error {
	out := jsonOutput{
		Locator:  loc.String(),
		Binaries: make([]jsonBinary, 0, len(table)),
	}
	for _, name := range table.Names() {
		d := table[name]
		out.Binaries = append(out.Binaries, jsonBinary{Name: name, Package: d.Package, Path: d.Path})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
