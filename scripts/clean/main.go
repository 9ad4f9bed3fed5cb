// Package main provides a script to clean up build and test artefacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	remove("dir", []string{"bin"}, os.RemoveAll)
	matches := []string{}
	for _, pattern := range []string{"*.log", "coverage*", "*.out", "*.test", "*.coverprofile"} {
		m, err := filepath.Glob(pattern)
		if err != nil {
			_, _ = fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		matches = append(matches, m...)
	}
	remove("file", matches, os.Remove)
}

func remove(kind string, paths []string, rm func(string) error) {
	for _, path := range paths {
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			continue
		}
		if err := rm(path); err != nil {
			_, _ = fmt.Printf("❌ Failed to remove %s %s: %v\n", kind, path, err)
		} else {
			_, _ = fmt.Printf("✅ Removed %s %s\n", kind, path)
		}
	}
}
