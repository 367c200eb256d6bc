package versionfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// RepositoryURL returns the repository URL declared by Cargo.toml or
// package.json in dir, in that order. npm "github:owner/repo" and bare
// "owner/repo" shorthands are expanded to GitHub URLs.
func RepositoryURL(dir string) (string, bool) {
	if content, err := os.ReadFile(filepath.Join(dir, "Cargo.toml")); err == nil {
		var manifest struct {
			Package struct {
				Repository string `toml:"repository"`
			} `toml:"package"`
		}
		if _, err := toml.Decode(string(content), &manifest); err == nil && manifest.Package.Repository != "" {
			return manifest.Package.Repository, true
		}
	}

	if content, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var manifest struct {
			Repository json.RawMessage `json:"repository"`
		}
		if err := json.Unmarshal(content, &manifest); err == nil {
			if url := packageRepository(manifest.Repository); url != "" {
				return expandShorthand(url), true
			}
		}
	}

	return "", false
}

// packageRepository accepts both the string and the {"url": ...} forms.
func packageRepository(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var url string
	if err := json.Unmarshal(raw, &url); err == nil {
		return url
	}
	var object struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &object); err == nil {
		return object.URL
	}
	return ""
}

func expandShorthand(url string) string {
	if rest, ok := strings.CutPrefix(url, "github:"); ok {
		return "https://github.com/" + rest
	}
	if !strings.Contains(url, ":") && strings.Count(url, "/") == 1 {
		return "https://github.com/" + url
	}
	return url
}
