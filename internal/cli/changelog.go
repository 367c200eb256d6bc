package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShogunPanda/cambi/internal/changelog"
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/history"
	"github.com/ShogunPanda/cambi/internal/version"
)

const defaultChangelogMessage = "chore: Updated CHANGELOG.md."

var changelogCmd = &cobra.Command{
	Use:     "changelog [major|minor|patch|VERSION]",
	Aliases: []string{"c"},
	Short:   "Update the changelog file",
	Long: `Add a section for the next version to the changelog, or rebuild the whole
file from git history.

Incremental mode renders the commits since the newest release tag and places
the section above every existing one. A section for the same version is
replaced in place. Rebuild mode regenerates one section per release tag,
plus a section for unreleased commits, discarding manual edits.

With --commit the changelog is committed only when it is the sole changed
file in the working tree.`,
	Example: `  # Add the next section
  cambi changelog

  # Regenerate the whole file and commit it
  cambi changelog --rebuild --commit

  # Preview without writing
  cambi changelog --dry-run`,
	Args: optionalTarget,
	RunE: runChangelog,
}

func init() {
	changelogCmd.GroupID = GroupVersioning

	changelogCmd.Flags().BoolP("rebuild", "r", false, "Regenerate the whole changelog from git history")
	changelogCmd.Flags().BoolP("commit", "o", false, "Commit the changelog when it is the only changed file")
	changelogCmd.Flags().StringP("commit-message", "m", defaultChangelogMessage, "Commit message used with --commit")
	changelogCmd.Flags().BoolP("dry-run", "d", false, "Print the resulting changelog without writing it")

	rootCmd.AddCommand(changelogCmd)
}

func runChangelog(cmd *cobra.Command, args []string) error {
	rebuild, _ := cmd.Flags().GetBool("rebuild")
	commit, _ := cmd.Flags().GetBool("commit")
	message, _ := cmd.Flags().GetString("commit-message")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if rebuild && len(args) > 0 {
		return clierrors.New(clierrors.KindConflictingFlags, "--rebuild cannot be combined with an explicit target").
			WithContext("flag", "rebuild")
	}
	if commit && dryRun {
		return clierrors.ConflictingFlags("dry-run", "commit")
	}

	target, err := version.ParseTarget(firstArg(args))
	if err != nil {
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

	path := s.path(s.cfg.ChangelogPath)
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	var content string
	if rebuild {
		content, err = s.rebuildChangelog(snap)
		if err != nil {
			return err
		}
	} else {
		var skip bool
		content, skip, err = s.incrementalChangelog(snap, string(existing), target)
		if err != nil {
			return err
		}
		if skip {
			_, err := fmt.Fprintf(out, "No releasable commits found, %s not updated.\n", s.cfg.ChangelogPath)
			return err
		}
	}

	if dryRun {
		_, err := fmt.Fprint(out, content)
		return err
	}
	if content == string(existing) {
		_, err := fmt.Fprintf(out, "%s is up to date.\n", s.cfg.ChangelogPath)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.log.Info("updated changelog", "path", path, "rebuild", rebuild)

	if commit {
		if err := s.commitChangelog(path, message); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "Updated %s.\n", s.cfg.ChangelogPath)
	return err
}

// incrementalChangelog inserts the section for the next version into
// existing. skip is true when there is nothing to release.
func (s *session) incrementalChangelog(snap *history.Snapshot, existing string, target version.Target) (content string, skip bool, err error) {
	tag, base, hasBase, err := baseline(snap, "")
	if err != nil {
		return "", false, err
	}
	var previous *version.Version
	if hasBase {
		previous = &base
	}

	commits := snap.Since(tag.Name)
	res, err := version.Resolve(previous, target, s.inferBump(commits))
	if err != nil {
		return "", false, err
	}
	if res.NothingToRelease() {
		return "", true, nil
	}

	section := s.builder().Section(res.Next, commits, s.now())
	content, warnings := s.renderer().Incremental(existing, section)
	s.warn(warnings)
	return content, false, nil
}

// rebuildChangelog renders one section per release tag, plus the pending
// section for commits after the newest tag. Without release tags there is
// no baseline to number sections from.
func (s *session) rebuildChangelog(snap *history.Snapshot) (string, error) {
	latest, ok := snap.LatestTag()
	if !ok {
		return "", clierrors.MissingBaseline()
	}

	b := s.builder()
	tagged, err := b.TagSections(snap)
	if err != nil {
		return "", err
	}

	sections := make([]changelog.Section, 0, len(tagged)+1)
	for _, ts := range tagged {
		sections = append(sections, ts.Section)
	}

	pending := snap.PendingBucket()
	if bump := s.inferBump(pending.Commits); bump != version.BumpNone {
		v, err := version.FromTag(latest.Name)
		if err != nil {
			return "", err
		}
		sections = append(sections, b.Section(v.Bump(bump), pending.Commits, s.now()))
	}

	return s.renderer().Rebuild(sections), nil
}

// commitChangelog commits path only when it is the sole changed file.
func (s *session) commitChangelog(path, message string) error {
	changed, err := s.repo.ChangedFiles()
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(s.repo.Root(), path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	if !slices.Equal(changed, []string{filepath.ToSlash(rel)}) {
		s.log.Warn("skipping auto-commit, other files have changes", "files", strings.Join(changed, ", "))
		return nil
	}

	hash, err := s.repo.CommitFiles([]string{path}, message)
	if err != nil {
		return err
	}
	s.log.Info("committed changelog", "commit", hash)
	return nil
}
