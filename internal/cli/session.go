package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShogunPanda/cambi/internal/changelog"
	"github.com/ShogunPanda/cambi/internal/config"
	"github.com/ShogunPanda/cambi/internal/conventional"
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
	"github.com/ShogunPanda/cambi/internal/git"
	"github.com/ShogunPanda/cambi/internal/history"
	"github.com/ShogunPanda/cambi/internal/logger"
	"github.com/ShogunPanda/cambi/internal/version"
)

// session holds what every command needs: resolved config, logger and the
// repository in the working directory.
type session struct {
	dir        string
	cfg        *config.Config
	log        *slog.Logger
	repo       *git.Repository
	classifier *conventional.Classifier
	now        func() time.Time
}

// newSession loads configuration and opens the repository. overrides are
// extra config keys set by command-specific flags.
func newSession(cmd *cobra.Command, overrides map[string]any) (*session, error) {
	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	log := logger.Initialize(logger.Options{
		Debug:   debug,
		Verbose: cfg.Verbose,
		Plain:   color.NoColor,
		Writer:  cmd.ErrOrStderr(),
	})
	cmd.SetContext(logger.WithLogger(cmd.Context(), log.With("command", cmd.Name())))
	if debug {
		git.SetDebugLogger(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		})
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	repo, err := git.Open(dir)
	if err != nil {
		return nil, clierrors.WrapWithMessage(err, clierrors.Prerequisite, "not a git repository",
			"Run cambi inside a git working tree",
		)
	}

	filter, err := conventional.NewFilter(cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	return &session{
		dir:        dir,
		cfg:        cfg,
		log:        log,
		repo:       repo,
		classifier: conventional.NewClassifier(filter, conventional.WithLogger(log)),
		now:        time.Now,
	}, nil
}

// loadConfig resolves configuration, applying explicitly set global flags.
func loadConfig(cmd *cobra.Command, overrides map[string]any) (*config.Config, error) {
	all := make(map[string]any, len(overrides)+2)
	for k, v := range overrides {
		all[k] = v
	}
	if cmd.Flags().Changed("tag-pattern") {
		all["tag_pattern"], _ = cmd.Flags().GetString("tag-pattern")
	}
	if cmd.Flags().Changed("verbose") {
		all["verbose"], _ = cmd.Flags().GetBool("verbose")
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{ConfigPath: configPath, ProjectDir: ".", Overrides: all})
	if err != nil {
		if clierrors.KindOf(err) != clierrors.KindUnknown {
			return nil, err
		}
		return nil, clierrors.WrapWithMessage(err, clierrors.Configuration, "invalid configuration",
			"Check cambi.yml and the CAMBI_* environment variables",
			"Print the resolved configuration with: cambi config show",
		)
	}
	return cfg, nil
}

// snapshot reads history once. A repository without commits yields an
// empty snapshot.
func (s *session) snapshot(ctx context.Context) (*history.Snapshot, error) {
	snap, err := s.repo.Snapshot(ctx, s.cfg.TagRegexp())
	if errors.Is(err, git.ErrNoCommits) {
		return history.NewSnapshot("", nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading git history: %w", err)
	}
	return snap, nil
}

// baseline returns the tag commits are counted from: the --from-tag value
// when given, otherwise the newest release tag. ok is false when there is
// no release tag at all.
func baseline(snap *history.Snapshot, fromTag string) (tag history.Tag, v version.Version, ok bool, err error) {
	if fromTag != "" {
		for _, name := range []string{fromTag, "v" + fromTag} {
			if t, found := snap.Tag(name); found {
				v, err := version.FromTag(t.Name)
				return t, v, err == nil, err
			}
		}
		return history.Tag{}, version.Version{}, false, clierrors.UnknownTag(fromTag)
	}

	t, found := snap.LatestTag()
	if !found {
		return history.Tag{}, version.Version{}, false, nil
	}
	v, err = version.FromTag(t.Name)
	return t, v, err == nil, err
}

// inferBump classifies commits and folds them into a bump level.
func (s *session) inferBump(commits []history.Commit) version.BumpLevel {
	return version.Infer(s.classifier.Classify(slices.Values(commits)))
}

func (s *session) renderer() *changelog.Renderer {
	return changelog.NewRenderer(s.cfg.ChangelogTemplate)
}

func (s *session) builder() *changelog.Builder {
	return changelog.NewBuilder(s.classifier, s.cfg.ExcludeTypes)
}

// path resolves a configured path against the working directory.
func (s *session) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// warn logs non-fatal errors such as AmbiguousSection.
func (s *session) warn(warnings []error) {
	for _, w := range warnings {
		s.log.Warn(w.Error(), "kind", clierrors.KindOf(w).String())
	}
}
