package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/firegistry/cmd/firegistry/cmd/importer"
	"github.com/agentstation/firegistry/internal/appcontext"
	"github.com/agentstation/firegistry/pkg/errors"
)

// Execute parses args and runs the import. Errors are returned unprinted;
// see HandleError.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root command: the import command with the
// global flags attached.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := importer.NewCommand(a)
	rootCmd.Version = a.build.Version
	rootCmd.PersistentPreRunE = a.setupCommand
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.ConfigFile, "config", "", "config file (default is $HOME/.firegistry.yaml or ./.firegistry.yaml)")
	flags.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "verbose output: field changes and debug logs")
	flags.BoolVarP(&a.flags.Quiet, "quiet", "q", false, "minimal logging (shortcut for --log-level=warn)")
	flags.BoolVar(&a.flags.NoColor, "no-color", false, "disable colored log output")
	flags.StringVarP(&a.flags.Format, "format", "o", "", "report format: text, table, json, yaml")
	flags.StringVar(&a.flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate(versionLine(a.build))

	return rootCmd
}

// setupCommand is called before the command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	if a.flags.ConfigFile != "" {
		config, err := LoadConfig(a.flags.ConfigFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(a.flags)

	if !a.customLogger {
		logger := NewLogger(a.config)
		a.logger = &logger
	}
	return nil
}

// versionLine renders --version output. The template has no fields left
// for cobra to expand.
func versionLine(build appcontext.BuildInfo) string {
	line := "firegistry " + build.Version
	if build.Commit != "" && build.Commit != "unknown" {
		line += " (commit " + build.Commit
		if build.Date != "" && build.Date != "unknown" {
			line += ", built " + build.Date
		}
		if build.BuiltBy != "" && build.BuiltBy != "unknown" {
			line += " by " + build.BuiltBy
		}
		line += ")"
	}
	return line + "\n"
}

// HandleError prints err and returns the process exit code. Usage errors
// go to stdout as a bare message; everything else goes to stderr.
func HandleError(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.IsUsage(err) {
		fmt.Fprintln(stdout, err.Error())
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// ExitOnError prints err with HandleError on the process streams and exits
// with status 1. It returns when err is nil.
func ExitOnError(err error) {
	if code := HandleError(err, os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}
