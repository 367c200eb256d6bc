// Package config tests layered configuration loading.
// Related: internal/config/config.go, internal/config/validate.go
// Tags: config, koanf, env, validation
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShogunPanda/cambi/internal/conventional"
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// isolate points the user config dir at an empty temp dir and clears
// environment variables that would leak into the result.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"GH_RELEASE_TOKEN", "CAMBI_TOKEN", "CAMBI_OWNER", "CAMBI_REPO",
		"CAMBI_TAG_PATTERN", "CAMBI_CHANGELOG_TEMPLATE", "CAMBI_CHANGELOG_PATH",
		"CAMBI_IGNORE_PATTERNS", "CAMBI_EXCLUDE_TYPES", "CAMBI_GITHUB_API_BASE", "CAMBI_VERBOSE",
	} {
		t.Setenv(key, "")
	}
	return t.TempDir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, DefaultTagPattern, cfg.TagPattern)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
	assert.Equal(t, conventional.DefaultIgnorePatterns, cfg.IgnorePatterns)
	assert.Equal(t, []string{"chore"}, cfg.ExcludeTypes)
	assert.Empty(t, cfg.Token)
	assert.False(t, cfg.Verbose)
	require.NotNil(t, cfg.TagRegexp())
	assert.True(t, cfg.TagRegexp().MatchString("v1.2.3"))
	assert.False(t, cfg.TagRegexp().MatchString("1.2.3"))
}

func TestLoad_Layering(t *testing.T) {
	dir := isolate(t)

	userPath, err := UserConfigPath()
	require.NoError(t, err)
	writeFile(t, userPath, "owner: user-owner\nrepo: user-repo\ntoken: user-token\n")
	writeFile(t, ProjectConfigPath(dir), "repo: project-repo\ntag_pattern: '^release-\\d+\\.\\d+\\.\\d+$'\n")

	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "user-owner", cfg.Owner)
	assert.Equal(t, "project-repo", cfg.Repo)
	assert.Equal(t, "user-token", cfg.Token)
	assert.True(t, cfg.TagRegexp().MatchString("release-1.0.0"))

	t.Setenv("GH_RELEASE_TOKEN", "gh-token")
	cfg, err = Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "gh-token", cfg.Token)

	t.Setenv("CAMBI_TOKEN", "cambi-token")
	t.Setenv("CAMBI_REPO", "env-repo")
	cfg, err = Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "cambi-token", cfg.Token)
	assert.Equal(t, "env-repo", cfg.Repo)

	cfg, err = Load(LoadOptions{
		ProjectDir: dir,
		Overrides:  map[string]any{"repo": "flag-repo", "verbose": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "flag-repo", cfg.Repo)
	assert.True(t, cfg.Verbose)
}

func TestLoad_ExplicitConfigReplacesFileLayers(t *testing.T) {
	dir := isolate(t)

	writeFile(t, ProjectConfigPath(dir), "owner: project-owner\nrepo: project-repo\n")
	explicit := filepath.Join(t.TempDir(), "custom.json")
	writeFile(t, explicit, `{"owner": "json-owner", "changelog_path": "docs/CHANGES.md"}`)

	cfg, err := Load(LoadOptions{ProjectDir: dir, ConfigPath: explicit})
	require.NoError(t, err)
	assert.Equal(t, "json-owner", cfg.Owner)
	assert.Empty(t, cfg.Repo)
	assert.Equal(t, "docs/CHANGES.md", cfg.ChangelogPath)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	dir := isolate(t)

	_, err := Load(LoadOptions{ProjectDir: dir, ConfigPath: filepath.Join(dir, "missing.yml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_EnvironmentLists(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CAMBI_IGNORE_PATTERNS", "^wip; ^fixup!")
	t.Setenv("CAMBI_EXCLUDE_TYPES", "chore;docs")
	t.Setenv("CAMBI_VERBOSE", "true")

	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"^wip", "^fixup!"}, cfg.IgnorePatterns)
	assert.Equal(t, []string{"chore", "docs"}, cfg.ExcludeTypes)
	assert.True(t, cfg.Verbose)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantField string
		wantKind  clierrors.Kind
	}{
		"invalid tag pattern": {
			content:   "tag_pattern: 'v(\\d+'\n",
			wantField: "tag_pattern",
			wantKind:  clierrors.KindInvalidPattern,
		},
		"invalid ignore pattern": {
			content:   "ignore_patterns:\n  - '[unclosed'\n",
			wantField: "ignore_patterns",
			wantKind:  clierrors.KindInvalidPattern,
		},
		"empty tag pattern": {
			content:   "tag_pattern: ''\n",
			wantField: "tag_pattern",
		},
		"invalid api base": {
			content:   "github_api_base: 'not a url'\n",
			wantField: "github_api_base",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			writeFile(t, ProjectConfigPath(dir), tc.content)

			_, err := Load(LoadOptions{ProjectDir: dir})
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.wantField, validationErr.Field)
			if tc.wantKind != clierrors.KindUnknown {
				assert.Equal(t, tc.wantKind, clierrors.KindOf(err))
			}
		})
	}
}

func TestLoad_InvalidYAMLSyntax(t *testing.T) {
	dir := isolate(t)
	writeFile(t, ProjectConfigPath(dir), "owner: a\n  repo: [b\n")

	_, err := Load(LoadOptions{ProjectDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating YAML syntax")
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := Config{Token: "secret", Owner: "o"}
	redacted := cfg.Redacted()
	assert.Equal(t, "********", redacted.Token)
	assert.Equal(t, "o", redacted.Owner)
	assert.Equal(t, "secret", cfg.Token)

	assert.Empty(t, Config{}.Redacted().Token)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key       string
		value     string
		wantKey   string
		wantValue any
	}{
		"scalar":     {key: "CAMBI_TAG_PATTERN", value: "^v", wantKey: "tag_pattern", wantValue: "^v"},
		"list":       {key: "CAMBI_EXCLUDE_TYPES", value: "a;;b", wantKey: "exclude_types", wantValue: []string{"a", "b"}},
		"empty skip": {key: "CAMBI_OWNER", value: "", wantKey: "", wantValue: nil},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			key, value := envTransform(tc.key, tc.value)
			assert.Equal(t, tc.wantKey, key)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestExtractLineColumn(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		msg        string
		wantLine   int
		wantColumn int
	}{
		"line only":        {msg: "yaml: line 5: could not find expected ':'", wantLine: 5, wantColumn: 1},
		"line and column":  {msg: "yaml: line 3: column 7: bad", wantLine: 3, wantColumn: 7},
		"no position info": {msg: "something else", wantLine: 0, wantColumn: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			line, column := extractLineColumn(tc.msg)
			assert.Equal(t, tc.wantLine, line)
			assert.Equal(t, tc.wantColumn, column)
		})
	}
}
