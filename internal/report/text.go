package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/andyballingall/prettier-hook/internal/binaries"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// TextReporter writes the table as aligned plain text.
type TextReporter struct {
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colGreen     = "\033[32m"
	colGrey      = "\033[90m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, loc project.Locator, table binaries.Table) error {
	names := table.Names()
	divider := strings.Repeat("-", 40)

	if _, err := fmt.Fprintf(w, "%s\n%s %s\n%s\n",
		divider, tr.cs(colBoldWhite, "Binaries accessible to"), loc, divider); err != nil {
		return err
	}

	if len(names) == 0 {
		_, err := fmt.Fprintln(w, tr.cs(colGrey, "(none)"))
		return err
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	for _, name := range names {
		d := table[name]
		// Pad before colouring so escape codes do not skew the alignment.
		padded := fmt.Sprintf("%-*s", width, name)
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n",
			tr.cs(colGreen, padded), d.Package, tr.cs(colGrey, d.Path)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s\n%d binaries\n", divider, len(names))
	return err
}
