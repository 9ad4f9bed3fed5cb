// Package report renders the binaries accessible to a workspace.
package report

import (
	"fmt"
	"io"

	"github.com/andyballingall/prettier-hook/internal/binaries"
	"github.com/andyballingall/prettier-hook/internal/project"
)

// Reporter writes a binaries table for a workspace.
type Reporter interface {
	Write(w io.Writer, loc project.Locator, table binaries.Table) error
}

// Format selects a Reporter.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// UnknownFormatError is returned when a format has no reporter.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown report format %q: must be one of %q or %q", e.Format, FormatText, FormatJSON)
}

// New returns the Reporter for the given format.
func New(f Format, useColour bool) (Reporter, error) {
	switch f {
	case FormatText, "":
		return &TextReporter{UseColour: useColour}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	default:
		return nil, &UnknownFormatError{Format: string(f)}
	}
}
