package project

import (
	"fmt"
)

type WorkspaceNotFoundError struct {
	Cwd        string
	ProjectCwd string
}

func (e *WorkspaceNotFoundError) Error() string {
	return fmt.Sprintf(
		"the directory %s doesn't seem to be part of the project declared in %s",
		e.Cwd, e.ProjectCwd,
	)
}

type UnknownLocatorError struct {
	Locator Locator
}

func (e *UnknownLocatorError) Error() string {
	return fmt.Sprintf("no workspace matches locator %s", e.Locator)
}

type InvalidWorkspacePatternError struct {
	Pattern string
	Wrapped error
}

func (e *InvalidWorkspacePatternError) Error() string {
	return fmt.Sprintf("invalid workspace pattern '%s': %v", e.Pattern, e.Wrapped)
}

func (e *InvalidWorkspacePatternError) Unwrap() error {
	return e.Wrapped
}
