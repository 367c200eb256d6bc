package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/github"
	"github.com/ShogunPanda/cambi/internal/history"
	"github.com/ShogunPanda/cambi/internal/progress"
	"github.com/ShogunPanda/cambi/internal/release"
	"github.com/ShogunPanda/cambi/internal/versionfile"
)

var releaseCmd = &cobra.Command{
	Use:     "release [VERSION]",
	Aliases: []string{"r"},
	Short:   "Create or update GitHub releases from git tags",
	Long: `Reconcile GitHub releases with the release tags in git history.

Every release tag gets a release whose notes are computed from the commits
between it and the previous tag. Missing releases are created, stale ones
updated and up-to-date ones left alone, so running the command twice is
safe. --rebuild deletes and recreates every release and removes releases
whose tag no longer exists.

The token is read from --token, CAMBI_TOKEN, GH_RELEASE_TOKEN or cambi.yml.
Owner and repository default to cambi.yml, then the repository field of
Cargo.toml or package.json, then the origin remote.`,
	Example: `  # Preview the plan
  cambi release --dry-run

  # Publish a single tag as a prerelease
  cambi release 2.0.0 --prerelease

  # Print the notes of the newest release
  cambi release --notes-only`,
	Args: optionalTarget,
	RunE: runRelease,
}

func init() {
	releaseCmd.GroupID = GroupPublishing

	releaseCmd.Flags().BoolP("rebuild", "r", false, "Delete and recreate every release")
	releaseCmd.Flags().BoolP("notes-only", "n", false, "Print the notes of the newest release and exit")
	releaseCmd.Flags().StringP("token", "t", "", "GitHub token")
	releaseCmd.Flags().StringP("owner", "o", "", "Repository owner")
	releaseCmd.Flags().StringP("repo", "u", "", "Repository name")
	releaseCmd.Flags().BoolP("dry-run", "d", false, "Print the plan without changing anything")
	releaseCmd.Flags().BoolP("prerelease", "a", false, "Mark the targeted release as a prerelease")

	rootCmd.AddCommand(releaseCmd)
}

func releaseOptions(cmd *cobra.Command, args []string) release.Options {
	opts := release.Options{Target: firstArg(args)}
	opts.Rebuild, _ = cmd.Flags().GetBool("rebuild")
	opts.NotesOnly, _ = cmd.Flags().GetBool("notes-only")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.Prerelease, _ = cmd.Flags().GetBool("prerelease")
	opts.Token, _ = cmd.Flags().GetString("token")
	opts.Owner, _ = cmd.Flags().GetString("owner")
	opts.Repo, _ = cmd.Flags().GetString("repo")
	return opts
}

func runRelease(cmd *cobra.Command, args []string) error {
	opts := releaseOptions(cmd, args)
	if err := opts.Validate(); err != nil {
		return err
	}

	overrides := map[string]any{}
	for key, value := range map[string]string{"token": opts.Token, "owner": opts.Owner, "repo": opts.Repo} {
		if value != "" {
			overrides[key] = value
		}
	}

	s, err := newSession(cmd, overrides)
	if err != nil {
		return err
	}

	if opts.NotesOnly {
		return s.printNotes(cmd, opts)
	}

	store, err := s.releaseStore(cmd.Context(), opts.DryRun)
	if err != nil {
		return err
	}

	// History and the remote release list are independent reads.
	var (
		desired []release.Desired
		remote  []release.Remote
	)
	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		snap, err := s.snapshot(gctx)
		if err != nil {
			return err
		}
		desired, err = s.desiredReleases(snap)
		return err
	})
	g.Go(func() error {
		var err error
		remote, err = store.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	plan, err := release.Reconcile(desired, remote, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := release.WriteReport(out, plan, release.ReportOptions{
		Plain:   color.NoColor,
		DryRun:  opts.DryRun,
		Verbose: s.cfg.Verbose,
	}); err != nil {
		return err
	}
	executor := release.NewExecutor(store, opts.DryRun, s.log)
	if opts.DryRun {
		_, err := executor.Apply(cmd.Context(), plan)
		return err
	}
	if !plan.Changes() {
		return nil
	}

	stderr := cmd.ErrOrStderr()
	display := progress.NewProgressDisplay(stderr, progress.DetectTerminalCapabilities(stderr))
	executor.OnItem = func(action release.Action, tag string) {
		display.Update(fmt.Sprintf("%s %s", action, tag))
	}

	display.Start("Applying release plan to " + store.Slug())
	summary, err := executor.Apply(cmd.Context(), plan)
	if err != nil {
		display.Fail("Release plan failed")
		return err
	}
	display.Succeed(fmt.Sprintf("%d created, %d updated, %d deleted, %d unchanged",
		summary.Created, summary.Updated, summary.Deleted, summary.Skipped))
	return nil
}

// desiredReleases computes the release of every tag in snap.
func (s *session) desiredReleases(snap *history.Snapshot) ([]release.Desired, error) {
	tagged, err := s.builder().TagSections(snap)
	if err != nil {
		return nil, err
	}
	return release.DesiredReleases(tagged, s.renderer()), nil
}

// printNotes prints the notes of the newest release without any network call.
func (s *session) printNotes(cmd *cobra.Command, opts release.Options) error {
	snap, err := s.snapshot(cmd.Context())
	if err != nil {
		return err
	}
	desired, err := s.desiredReleases(snap)
	if err != nil {
		return err
	}
	notes, err := release.NotesOnly(desired, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), notes)
	return err
}

// releaseStore builds the GitHub store. A token is mandatory unless the run
// is read-only.
func (s *session) releaseStore(ctx context.Context, dryRun bool) (*github.Store, error) {
	owner, repo, err := s.repositorySlug()
	if err != nil {
		return nil, err
	}
	if s.cfg.Token == "" && !dryRun {
		return nil, clierrors.NewPrerequisiteError("GitHub token not configured",
			"Export GH_RELEASE_TOKEN or CAMBI_TOKEN",
			"Or pass --token",
		)
	}

	s.log.Debug("using repository", "owner", owner, "repo", repo)
	return github.NewStore(ctx, github.Options{
		Owner:   owner,
		Repo:    repo,
		Token:   s.cfg.Token,
		APIBase: s.cfg.GitHubAPIBase,
	})
}

// repositorySlug resolves owner and repository: config, then manifests, then
// the origin remote. Values from config win field by field.
func (s *session) repositorySlug() (owner, repo string, err error) {
	owner, repo = s.cfg.Owner, s.cfg.Repo
	if owner != "" && repo != "" {
		return owner, repo, nil
	}

	candidates := make([]string, 0, 2)
	if url, ok := versionfile.RepositoryURL(s.dir); ok {
		candidates = append(candidates, url)
	}
	if url, err := s.repo.RemoteURL("origin"); err == nil {
		candidates = append(candidates, url)
	}

	for _, url := range candidates {
		if o, r, ok := github.ParseRepositoryURL(url); ok {
			if owner == "" {
				owner = o
			}
			if repo == "" {
				repo = r
			}
			return owner, repo, nil
		}
	}

	return "", "", clierrors.NewPrerequisiteError("cannot determine the GitHub repository",
		"Pass --owner and --repo",
		"Or set owner and repo in cambi.yml",
	)
}
