// Package main builds the prettier-hook binary into bin/.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/prettier-hook/internal/app.Version"

func main() {
	ctx := context.Background()

	binaryName := "prettier-hook"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	versionOut, _ := exec.CommandContext(ctx, "go", "run", "./scripts/version").Output()
	version := strings.TrimSpace(string(versionOut))
	if version == "" {
		version = "dev"
	}

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s %s...\n", binaryName, version)

	cmd := exec.CommandContext(ctx, "go", "build",
		"-trimpath",
		"-ldflags", fmt.Sprintf("-s -w -X %s=%s", versionVar, version),
		"-o", outputPath,
		"./cmd/prettier-hook",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}
