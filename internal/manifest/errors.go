package manifest

import (
	"fmt"
)

type MissingManifestError struct {
	Dir string
}

func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("%s missing in: %s", Filename, e.Dir)
}

type InvalidManifestError struct {
	Path    string
	Wrapped error
}

func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("%s is not a valid manifest: %v", e.Path, e.Wrapped)
}

func (e *InvalidManifestError) Unwrap() error {
	return e.Wrapped
}
