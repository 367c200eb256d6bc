package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// fixture is a temporary repository that is also the working directory.
type fixture struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	when time.Time
}

// newFixture creates the repository, changes into it and isolates the test
// from user configuration and release tokens.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"GH_RELEASE_TOKEN", "CAMBI_TOKEN", "CAMBI_OWNER", "CAMBI_REPO", "CAMBI_TAG_PATTERN",
		"CAMBI_CHANGELOG_PATH", "CAMBI_IGNORE_PATTERNS", "CAMBI_EXCLUDE_TYPES", "CAMBI_GITHUB_API_BASE",
	} {
		t.Setenv(key, "")
	}

	return &fixture{t: t, dir: dir, repo: repo, when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fixture) commit(message string) string {
	f.t.Helper()

	wt, err := f.repo.Worktree()
	require.NoError(f.t, err)

	require.NoError(f.t, os.WriteFile(filepath.Join(f.dir, "file.txt"), []byte(message), 0o644))
	_, err = wt.Add("file.txt")
	require.NoError(f.t, err)

	f.when = f.when.Add(24 * time.Hour)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: f.when}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(f.t, err)
	return hash.String()
}

func (f *fixture) tag(name string) {
	f.t.Helper()

	head, err := f.repo.Head()
	require.NoError(f.t, err)
	_, err = f.repo.CreateTag(name, head.Hash(), nil)
	require.NoError(f.t, err)
}

func (f *fixture) write(name, content string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644))
}

func (f *fixture) read(name string) string {
	f.t.Helper()
	content, err := os.ReadFile(filepath.Join(f.dir, name))
	require.NoError(f.t, err)
	return string(content)
}

// run executes the command tree with fresh flag values.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}
