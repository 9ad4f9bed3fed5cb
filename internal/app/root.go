package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andyballingall/prettier-hook/internal/binaries"
	"github.com/andyballingall/prettier-hook/internal/config"
	"github.com/andyballingall/prettier-hook/internal/executor"
	"github.com/andyballingall/prettier-hook/internal/fsh"
	"github.com/andyballingall/prettier-hook/internal/hook"
)

// Version is the current version of prettier-hook, set at build time.
var Version = "dev"

var LongDescription = `
prettier-hook runs after a Yarn install and formats the project's package.json and
.yarnrc.yml with the prettier binary the project itself depends on. It never installs
prettier: if the project cannot run it, the hook fails with "Prettier not found.".
`

// IO holds the process streams handed to the commands and the formatter.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, streams IO, env fsh.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	var logCloser io.Closer
	cwd := pathValue("")
	nodePath := pathValue("")

	rootCmd := &cobra.Command{
		Use:           "prettier-hook",
		Short:         "Format package.json and .yarnrc.yml after install",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}

			// Skip initialization for help and completion commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			// 1. Setup Logging
			logger, closer, err := setupLogger(streams.Stderr, ll, env)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			logCloser = closer

			// 2. Capture the working directory
			dir, err := resolveCwd(string(cwd))
			if err != nil {
				return fmt.Errorf("cannot determine working directory: %w", err)
			}

			// 3. Build Dependencies
			bins := binaries.NewLinkerResolver(
				binaries.NewNodeModulesResolver(logger),
				binaries.NewYarnCLIResolver(""),
			)
			formatter := hook.NewFormatter(
				hook.NewYarnProjectResolver(config.PluginConfig{}, env),
				bins,
				executor.NewNodeExecutor(string(nodePath), env, logger),
				logger,
			)

			// 4. Hydrate the Lazy Wrapper
			lazy.SetInner(NewCLIManager(logger, formatter, hook.Env{
				Cwd:    dir,
				Stdin:  streams.Stdin,
				Stdout: streams.Stdout,
				Stderr: streams.Stderr,
			}))

			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&cwd, "cwd", "C", "Run as if started in this directory")
	rootCmd.PersistentFlags().Var(&nodePath, "node", "Node interpreter used to run prettier (default: node on PATH)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewPostInstallCmd(lazy))
	rootCmd.AddCommand(NewBinsCmd(lazy))
	rootCmd.AddCommand(NewWatchCmd(lazy))

	return rootCmd
}

// resolveCwd returns the absolute, symlink-free form of dir, or of the process
// working directory when dir is empty.
func resolveCwd(dir string) (string, error) {
	if dir == "" {
		return fsh.Getwd()
	}
	return fsh.CanonicalPath(dir)
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
