package executor

import (
	"fmt"
)

type BinaryNotInTableError struct {
	Name    string
	Locator string
}

func (e *BinaryNotInTableError) Error() string {
	return fmt.Sprintf("binary %s is not accessible from %s", e.Name, e.Locator)
}

type NodeNotFoundError struct {
	Wrapped error
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node executable not found: %v", e.Wrapped)
}

func (e *NodeNotFoundError) Unwrap() error {
	return e.Wrapped
}
