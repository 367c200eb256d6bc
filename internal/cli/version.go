package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShogunPanda/cambi/internal/version"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Print the current version",
	Long: `Print the version of the newest release tag matching the tag pattern.
Prints 0.0.0 when no release tag exists.`,
	Example: `  cambi version
  cambi version --from-tag v1.2.0`,
	Args: noArgs,
	RunE: runVersion,
}

var semverCmd = &cobra.Command{
	Use:     "semver",
	Aliases: []string{"s"},
	Short:   "Print the bump implied by commits since the last release",
	Long: `Classify the commits since the newest release tag (or --from-tag) and print
the resulting bump: none, patch, minor or major.`,
	Example: `  cambi semver
  cambi semver --from-tag v1.2.0`,
	Args: noArgs,
	RunE: runSemver,
}

func init() {
	versionCmd.GroupID = GroupVersioning
	semverCmd.GroupID = GroupVersioning

	versionCmd.Flags().StringP("from-tag", "f", "", "Use this tag instead of the newest release tag")
	semverCmd.Flags().StringP("from-tag", "f", "", "Count commits since this tag instead of the newest release tag")

	rootCmd.AddCommand(versionCmd, semverCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	fromTag, _ := cmd.Flags().GetString("from-tag")

	// An explicit tag needs no history.
	if fromTag != "" {
		v, err := version.FromTag(fromTag)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
		return err
	}

	s, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	snap, err := s.snapshot(cmd.Context())
	if err != nil {
		return err
	}

	_, v, _, err := baseline(snap, "")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
	return err
}

func runSemver(cmd *cobra.Command, _ []string) error {
	fromTag, _ := cmd.Flags().GetString("from-tag")

	s, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	snap, err := s.snapshot(cmd.Context())
	if err != nil {
		return err
	}

	tag, _, _, err := baseline(snap, fromTag)
	if err != nil {
		return err
	}
	bump := s.inferBump(snap.Since(tag.Name))
	s.log.Info("inferred bump", "since", tag.Name, "bump", bump.String())

	_, err = fmt.Fprintln(cmd.OutOrStdout(), bump)
	return err
}
