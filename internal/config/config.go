// Package config provides layered configuration for cambi using koanf.
// Configuration is loaded with priority: command-line flags > CAMBI_* environment
// variables > GH_RELEASE_TOKEN > project config (./cambi.yml) > user config
// (<user config dir>/cambi.yml) > defaults. An explicit --config file replaces
// both file layers; files ending in .json are parsed as JSON.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "CAMBI_"
	tokenEnvPrefix = "GH_RELEASE_"
	// listSeparator splits list values given through environment variables.
	listSeparator = ";"
)

// Config is the resolved, read-only runtime configuration.
type Config struct {
	Token             string   `koanf:"token" yaml:"token,omitempty"`
	Owner             string   `koanf:"owner" yaml:"owner,omitempty"`
	Repo              string   `koanf:"repo" yaml:"repo,omitempty"`
	TagPattern        string   `koanf:"tag_pattern" yaml:"tag_pattern" validate:"required"`
	ChangelogTemplate string   `koanf:"changelog_template" yaml:"changelog_template,omitempty"`
	ChangelogPath     string   `koanf:"changelog_path" yaml:"changelog_path" validate:"required"`
	IgnorePatterns    []string `koanf:"ignore_patterns" yaml:"ignore_patterns"`
	// ExcludeTypes are conventional types left out of changelogs and release
	// notes. They still count for bump inference.
	ExcludeTypes  []string `koanf:"exclude_types" yaml:"exclude_types"`
	GitHubAPIBase string   `koanf:"github_api_base" yaml:"github_api_base,omitempty" validate:"omitempty,url"`
	Verbose       bool     `koanf:"verbose" yaml:"verbose"`

	tagRegexp *regexp.Regexp
}

// TagRegexp returns the compiled tag pattern.
func (c *Config) TagRegexp() *regexp.Regexp {
	return c.tagRegexp
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "********"
	}
	return c
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ConfigPath replaces the user and project config files when set.
	ConfigPath string
	// ProjectDir holds the project config file (default: current directory).
	ProjectDir string
	// Overrides are applied last, typically from explicitly set flags.
	Overrides map[string]any
}

// Load loads configuration from every layer.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if opts.ConfigPath != "" {
		if err := loadFile(k, opts.ConfigPath, true); err != nil {
			return nil, err
		}
	} else {
		if userPath, err := UserConfigPath(); err == nil {
			if err := loadFile(k, userPath, false); err != nil {
				return nil, err
			}
		}
		if err := loadFile(k, ProjectConfigPath(opts.ProjectDir), false); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	return finalizeConfig(k, opts.ConfigPath)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		_ = k.Set(key, value)
	}
}

// loadFile validates and loads one config file. Missing optional files are skipped.
func loadFile(k *koanf.Koanf, path string, required bool) error {
	if !fileExists(path) {
		if required {
			return fmt.Errorf("config file %s not found", path)
		}
		return nil
	}

	parser := koanf.Parser(yaml.Parser())
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	} else if err := checkYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads GH_RELEASE_TOKEN first so CAMBI_TOKEN wins.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(tokenEnvPrefix, ".", tokenEnvTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates and compiles patterns.
func finalizeConfig(k *koanf.Koanf, source string) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if source == "" {
		source = "config"
	}

	re, err := ValidateConfigValues(&cfg, source)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.tagRegexp = re
	cfg.ChangelogPath = expandHomePath(cfg.ChangelogPath)
	return &cfg, nil
}

// tokenEnvTransform maps GH_RELEASE_TOKEN to token and ignores the rest.
func tokenEnvTransform(key, value string) (string, any) {
	if key != tokenEnvPrefix+"TOKEN" || value == "" {
		return "", nil
	}
	return "token", value
}

// envTransform converts environment variables to config keys.
// Example: CAMBI_TAG_PATTERN -> tag_pattern. List keys are split on ";".
// Empty variables are treated as unset.
func envTransform(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	switch key {
	case "ignore_patterns", "exclude_types":
		var items []string
		for _, item := range strings.Split(value, listSeparator) {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	default:
		return key, value
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
