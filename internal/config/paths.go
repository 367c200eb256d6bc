package config

import (
	"os"
	"path/filepath"
)

// FileName is the config file name used at both user and project level.
const FileName = "cambi.yml"

// UserConfigPath returns the user-level config file path, e.g.
// ~/.config/cambi.yml on Linux (XDG_CONFIG_HOME is respected).
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// ProjectConfigPath returns the project-level config file path in dir.
func ProjectConfigPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, FileName)
}
