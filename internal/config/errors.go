package config

import (
	"fmt"
	"strings"
)

// ConfigurationNotFoundError is returned when no project root can be located
// from the starting directory.
type ConfigurationNotFoundError struct {
	StartingCwd string
	// Lockfile is the effective lockfile name that was searched for.
	Lockfile string
}

func (e *ConfigurationNotFoundError) Error() string {
	lockfile := e.Lockfile
	if lockfile == "" {
		lockfile = DefaultLockfileFilename
	}
	return fmt.Sprintf(
		"no project found from %s: no %s or %s in this directory or any of its parents",
		e.StartingCwd, lockfile, ManifestFilename,
	)
}

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type UnknownNodeLinkerError struct {
	Value  string
	Source string
}

func (e *UnknownNodeLinkerError) Error() string {
	return fmt.Sprintf(
		"%s sets nodeLinker to '%s'. Supported linkers are: %s",
		e.Source, e.Value, strings.Join(supportedLinkerNames(), ", "),
	)
}

type InvalidSettingError struct {
	Key    string
	Source string
	Want   string
}

func (e *InvalidSettingError) Error() string {
	return fmt.Sprintf("%s property %s must be a %s", e.Source, e.Key, e.Want)
}
