package config

import "github.com/ShogunPanda/cambi/internal/conventional"

// DefaultTagPattern matches vMAJOR.MINOR.PATCH tags.
const DefaultTagPattern = `^v\d+\.\d+\.\d+$`

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]any {
	return map[string]any{
		"tag_pattern":        DefaultTagPattern,
		"changelog_template": "",
		"changelog_path":     "CHANGELOG.md",
		"ignore_patterns":    append([]string(nil), conventional.DefaultIgnorePatterns...),
		"exclude_types":      []string{"chore"},
		"verbose":            false,
	}
}
