// newsbuilder - NEWS file generation from per-ticket news fragments
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/newsbuilder

// Package cli implements the newsbuilder command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/newsbuilder/internal/config"
	clierrors "github.com/ariel-frischer/newsbuilder/internal/errors"
	"github.com/ariel-frischer/newsbuilder/internal/logging"
	"github.com/ariel-frischer/newsbuilder/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "newsbuilder <repositoryPath> <version>",
	Short: "Build NEWS files from news fragments",
	Long: `newsbuilder collects the <ticket>.<type> news fragments in every project's
topfiles directory, prepends a release entry to the project NEWS file and to the
repository NEWS file, and removes the consumed fragments with the VCS tool.

Fragment types: feature, bugfix, doc, removal, misc.`,
	Example: `  # Release every project under the current checkout
  newsbuilder . 16.7.0

  # List the projects that would be released
  newsbuilder projects .

  # Show what a release entry would look like
  newsbuilder preview twisted/topfiles --header "Twisted Core 16.7.0 (2026-10-19)"`,
	Version:       version.String(),
	Args:          usageArgs(cobra.ExactArgs(2)),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.PersistentFlags().String("config", "", "Project config file (default: .newsbuilder/config.yml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log release steps to stderr")
}

// usageError marks a malformed command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra positional-argument validator so its failures are
// reported as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// Execute runs the root command with os.Args and returns the error, if any,
// after printing it to stderr.
func Execute() error {
	if code := run(os.Args[1:], os.Stdout, os.Stderr); code != ExitSuccess {
		return fmt.Errorf("exit status %d", code)
	}
	return nil
}

// run executes the command line args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	printError(stderr, err)
	return ExitFailure
}

func printError(w io.Writer, err error) {
	var uerr *usageError
	if errors.As(err, &uerr) || isCobraUsageError(err) {
		fmt.Fprint(w, clierrors.FormatUsageError(err))
		return
	}
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Runtime)
	}
	clierrors.FprintError(w, cliErr, useColors(w))
}

// isCobraUsageError reports errors cobra raises itself before RunE, such as
// unknown subcommands and missing required flags.
func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command ") || strings.HasPrefix(msg, "required flag(s) ")
}

// useColors reports whether w is a terminal.
func useColors(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// loadConfig loads the configuration named by --config.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.ConfigInvalid(err)
	}
	return cfg, nil
}

// newLogger builds the logger selected by --verbose.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(verbose)
}
