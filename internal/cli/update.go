package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/version"
	"github.com/ShogunPanda/cambi/internal/versionfile"
)

const defaultUpdateMessage = "chore: Updated version."

var updateCmd = &cobra.Command{
	Use:     "update [major|minor|patch|VERSION]",
	Aliases: []string{"u"},
	Short:   "Update the version in the project manifest",
	Long: `Resolve the next version and write it to the detected version file.

The version file is the first of: Cargo.toml, package.json, pyproject.toml,
*.gemspec, mix.exs, pubspec.yaml, Package.swift, version, VERSION.

Without a target the bump is inferred from commits since the newest release
tag. The baseline is --from-tag, then the newest release tag, then the value
currently stored in the version file.`,
	Example: `  # Apply the inferred bump
  cambi update

  # Force a minor bump, commit the file and tag the commit
  cambi update minor --commit --tag

  # Set an exact version
  cambi update 2.0.0`,
	Args: optionalTarget,
	RunE: runUpdate,
}

func init() {
	updateCmd.GroupID = GroupVersioning

	updateCmd.Flags().StringP("from-tag", "f", "", "Count commits since this tag instead of the newest release tag")
	updateCmd.Flags().BoolP("commit", "o", false, "Commit the updated version file")
	updateCmd.Flags().StringP("commit-message", "m", defaultUpdateMessage, "Commit message used with --commit")
	updateCmd.Flags().BoolP("tag", "t", false, "Tag the version commit (requires --commit)")
	updateCmd.Flags().BoolP("dry-run", "d", false, "Print the new version without writing anything")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	fromTag, _ := cmd.Flags().GetString("from-tag")
	commit, _ := cmd.Flags().GetBool("commit")
	message, _ := cmd.Flags().GetString("commit-message")
	tag, _ := cmd.Flags().GetBool("tag")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if commit && dryRun {
		return clierrors.ConflictingFlags("dry-run", "commit")
	}
	if tag && !commit {
		return clierrors.New(clierrors.KindConflictingFlags, "--tag requires --commit").WithContext("flag", "tag")
	}

	target, err := version.ParseTarget(firstArg(args))
	if err != nil {
		return err
	}

	s, err := newSession(cmd, nil)
	if err != nil {
		return err
	}

	file, err := versionfile.Detect(s.dir)
	if errors.Is(err, versionfile.ErrNotFound) {
		return clierrors.WrapWithMessage(err, clierrors.Prerequisite, "no version file found",
			"Create a VERSION file containing the current version, e.g. 0.1.0",
		)
	}
	if err != nil {
		return err
	}

	snap, err := s.snapshot(cmd.Context())
	if err != nil {
		return err
	}
	base, baseVersion, hasBase, err := baseline(snap, fromTag)
	if err != nil {
		return err
	}

	var previous *version.Version
	switch {
	case hasBase:
		previous = &baseVersion
	case target.Literal == nil:
		current, err := file.Current()
		if err != nil {
			return err
		}
		previous = &current
	}

	res, err := version.Resolve(previous, target, s.inferBump(snap.Since(base.Name)))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.NothingToRelease() {
		_, err := fmt.Fprintf(out, "No releasable changes since %s, %s not updated.\n", res.Previous, file.Path())
		return err
	}

	if dryRun {
		_, err := fmt.Fprintf(out, "Would update %s to %s.\n", file.Path(), res.Next)
		return err
	}

	if err := file.Write(res.Next); err != nil {
		return err
	}
	s.log.Info("updated version file", "path", file.Path(), "version", res.Next.String())

	if commit {
		hash, err := s.repo.CommitFiles([]string{file.Path()}, message)
		if err != nil {
			return err
		}
		s.log.Info("committed version file", "commit", hash)

		if tag {
			name, err := version.TagName(res.Next, s.cfg.TagRegexp())
			if err != nil {
				return err
			}
			if err := s.repo.CreateTag(name); err != nil {
				return err
			}
			s.log.Info("created tag", "tag", name)
		}
	}

	_, err = fmt.Fprintf(out, "Updated version to %s.\n", res.Next)
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
