package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andyballingall/prettier-hook/internal/fsh"
)

func Run(ctx context.Context, args []string, streams IO, envProvider fsh.EnvProvider) error {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelInfo)

	// Local lazy instance ensures t.Parallel() safety
	lazy := &LazyManager{}

	if envProvider == nil {
		envProvider = fsh.NewEnvProvider()
	}

	rootCmd := NewRootCmd(lazy, logLevel, streams, envProvider)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetOut(streams.Stdout)
	rootCmd.SetErr(streams.Stderr)
	rootCmd.SetIn(streams.Stdin)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr for script tests and CLI users (SilenceErrors is set)
		fmt.Fprintf(streams.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}
