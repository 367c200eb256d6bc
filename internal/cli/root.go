// Package cli implements the cambi command tree with cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ShogunPanda/cambi/internal/build"
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// Command group IDs
const (
	GroupVersioning = "versioning"
	GroupPublishing = "publishing"
	GroupSettings   = "settings"
)

var rootCmd = &cobra.Command{
	Use:   "cambi",
	Short: "Semantic versioning, changelog and GitHub release automation",
	Long: `cambi infers semantic version bumps from conventional commits, keeps
CHANGELOG.md up to date and reconciles GitHub releases with your git tags.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CAMBI_*, GH_RELEASE_TOKEN for the token)
  3. Project config (./cambi.yml)
  4. User config (<user config dir>/cambi.yml)
  5. Built-in defaults`,
	Example: `  # Print the current version and the pending bump
  cambi version
  cambi semver

  # Bump the version file, commit and tag it
  cambi update --commit --tag

  # Prepend the next section to CHANGELOG.md
  cambi changelog

  # Preview what would change on GitHub
  cambi release --dry-run`,
	Version:       build.Summary(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupVersioning, Title: "Versioning Commands:"},
		&cobra.Group{ID: GroupPublishing, Title: "Publishing Commands:"},
		&cobra.Group{ID: GroupSettings, Title: "Settings Commands:"},
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (replaces user and project cambi.yml)")
	rootCmd.PersistentFlags().StringP("tag-pattern", "p", "", "Regular expression selecting release tags")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print progress information")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debug information")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// noArgs rejects positional arguments.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	}
	return nil
}

// optionalTarget accepts at most one positional target.
func optionalTarget(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	}
	return nil
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command and prints any error to stderr.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		clierrors.FprintError(rootCmd.ErrOrStderr(), err)
	}
	return err
}
