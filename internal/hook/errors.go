package hook

import (
	"fmt"
)

// BinaryNotFoundError is returned when the formatter is not among the accessible binaries.
type BinaryNotFoundError struct {
	Name string
}

func (e *BinaryNotFoundError) Error() string {
	return "Prettier not found."
}

// NonZeroExitError is returned when the formatter exits with a non-zero code.
type NonZeroExitError struct {
	Code int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("Prettier returned non-zero: %d.", e.Code)
}

// LaunchError is returned when the formatter process could not be started.
type LaunchError struct {
	Wrapped error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch Prettier: %v", e.Wrapped)
}

func (e *LaunchError) Unwrap() error {
	return e.Wrapped
}
