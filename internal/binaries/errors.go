package binaries

import (
	"fmt"

	"github.com/andyballingall/prettier-hook/internal/config"
)

type UnsupportedLinkerError struct {
	Linker config.NodeLinker
}

func (e *UnsupportedLinkerError) Error() string {
	return fmt.Sprintf("cannot list binaries for node linker '%s'", e.Linker)
}

type YarnBinError struct {
	Dir     string
	Output  string
	Wrapped error
}

func (e *YarnBinError) Error() string {
	return fmt.Sprintf("yarn bin failed in %s: %v (output: %s)", e.Dir, e.Wrapped, e.Output)
}

func (e *YarnBinError) Unwrap() error {
	return e.Wrapped
}

type MalformedBinLineError struct {
	Line string
}

func (e *MalformedBinLineError) Error() string {
	return fmt.Sprintf("yarn bin produced an unexpected line: %s", e.Line)
}
