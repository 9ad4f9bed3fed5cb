// Package main prints the version derived from the nearest git tag, or "dev".
package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

func main() {
	out, err := exec.CommandContext(context.Background(), "git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		fmt.Print("dev")
		return
	}
	fmt.Print(strings.TrimPrefix(strings.TrimSpace(string(out)), "v"))
}
