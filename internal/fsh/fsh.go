// Package fsh wraps the ambient filesystem and environment state the hook reads,
// so callers can substitute it in tests.
package fsh

// defaultResolver is used by the package-level helpers.
var defaultResolver = NewPathResolver()

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
// This is a convenience function that uses the default StandardPathResolver.
func CanonicalPath(path string) (string, error) {
	return defaultResolver.CanonicalPath(path)
}

// Getwd returns the canonical working directory of the process.
func Getwd() (string, error) {
	return defaultResolver.Getwd()
}
