package versionfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	gemspecVersion  = regexp.MustCompile(`^(\s*spec\.version\s*=\s*["'])([^"']+)(["']\s*)$`)
	mixVersion      = regexp.MustCompile(`^(\s*version:\s*["'])([^"']+)(["']\s*,?\s*)$`)
	pubspecVersion  = regexp.MustCompile(`^(version:\s*["']?)([^"'\s#]+)(["']?\s*(?:#.*)?)$`)
	swiftVariable   = regexp.MustCompile(`^(\s*(?:let|var)\s+version\s*=\s*["'])([^"']+)(["']\s*)$`)
	swiftArgument   = regexp.MustCompile(`^(\s*version\s*:\s*["'])([^"']+)(["']\s*,?\s*)$`)
	tomlTableHeader = regexp.MustCompile(`^\s*\[\s*([^\[\]]+?)\s*\]\s*(?:#.*)?$`)
	tomlVersionLine = regexp.MustCompile(`^(\s*version\s*=\s*["'])([^"']*)(["'].*)$`)
)

var cargoFormat = format{
	name: "Cargo.toml",
	read: func(content []byte) (string, error) {
		var manifest struct {
			Package struct {
				Version string `toml:"version"`
			} `toml:"package"`
		}
		if _, err := toml.Decode(string(content), &manifest); err != nil {
			return "", fmt.Errorf("invalid TOML: %w", err)
		}
		if manifest.Package.Version == "" {
			return "", errors.New("no package.version field")
		}
		return manifest.Package.Version, nil
	},
	patch: func(content []byte, next string) ([]byte, error) {
		return patchTOMLTable(content, "package", next)
	},
}

var pyprojectFormat = format{
	name: "pyproject.toml",
	read: func(content []byte) (string, error) {
		var manifest struct {
			Project struct {
				Version string `toml:"version"`
			} `toml:"project"`
			Tool struct {
				Poetry struct {
					Version string `toml:"version"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}
		if _, err := toml.Decode(string(content), &manifest); err != nil {
			return "", fmt.Errorf("invalid TOML: %w", err)
		}
		switch {
		case manifest.Project.Version != "":
			return manifest.Project.Version, nil
		case manifest.Tool.Poetry.Version != "":
			return manifest.Tool.Poetry.Version, nil
		default:
			return "", errors.New("no project.version or tool.poetry.version field")
		}
	},
	patch: func(content []byte, next string) ([]byte, error) {
		patched, err := patchTOMLTable(content, "project", next)
		if errors.Is(err, errNoVersion) {
			return patchTOMLTable(content, "tool.poetry", next)
		}
		return patched, err
	},
}

var packageJSONFormat = format{
	name: "package.json",
	read: func(content []byte) (string, error) {
		var manifest struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(content, &manifest); err != nil {
			return "", fmt.Errorf("invalid JSON: %w", err)
		}
		if manifest.Version == "" {
			return "", errors.New("no version field")
		}
		return manifest.Version, nil
	},
	patch: func(content []byte, next string) ([]byte, error) {
		start, end, err := jsonVersionSpan(content)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(content)+len(next))
		out = append(out, content[:start]...)
		out = append(out, next...)
		return append(out, content[end:]...), nil
	},
}

var pubspecFormat = format{
	name: "pubspec.yaml",
	read: func(content []byte) (string, error) {
		var manifest struct {
			Version string `yaml:"version"`
		}
		if err := yaml.Unmarshal(content, &manifest); err != nil {
			return "", fmt.Errorf("invalid YAML: %w", err)
		}
		if manifest.Version == "" {
			return "", errors.New("no version field")
		}
		return manifest.Version, nil
	},
	patch: func(content []byte, next string) ([]byte, error) {
		return patchLine(content, next, pubspecVersion)
	},
}

var gemspecFormat = lineFormat("gemspec", gemspecVersion)

var mixFormat = lineFormat("mix.exs", mixVersion)

var swiftFormat = lineFormat("Package.swift", swiftVariable, swiftArgument)

var plainFormat = format{
	name: "VERSION",
	read: func(content []byte) (string, error) {
		return strings.TrimSpace(string(content)), nil
	},
	patch: func(_ []byte, next string) ([]byte, error) {
		return []byte(next + "\n"), nil
	},
}

// lineFormat reads and patches the first line matching one of patterns.
func lineFormat(name string, patterns ...*regexp.Regexp) format {
	return format{
		name: name,
		read: func(content []byte) (string, error) {
			return findLine(content, patterns...)
		},
		patch: func(content []byte, next string) ([]byte, error) {
			return patchLine(content, next, patterns...)
		},
	}
}

// patchTOMLTable rewrites the version key of one table, e.g. "package"
// or "tool.poetry". Arrays of tables end the current table.
func patchTOMLTable(content []byte, table, next string) ([]byte, error) {
	lines := strings.Split(string(content), "\n")
	current := ""
	for i, line := range lines {
		body, cr := strings.CutSuffix(line, "\r")
		if strings.HasPrefix(strings.TrimSpace(body), "[[") {
			current = ""
			continue
		}
		if m := tomlTableHeader.FindStringSubmatch(body); m != nil {
			current = tableName(m[1])
			continue
		}
		if current != table {
			continue
		}
		if m := tomlVersionLine.FindStringSubmatch(body); m != nil {
			lines[i] = m[1] + next + m[3]
			if cr {
				lines[i] += "\r"
			}
			return []byte(strings.Join(lines, "\n")), nil
		}
	}
	return nil, errNoVersion
}

// tableName normalizes a header like `tool . "poetry"` to "tool.poetry".
func tableName(header string) string {
	parts := strings.Split(header, ".")
	for i, part := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(part), `"'`)
	}
	return strings.Join(parts, ".")
}

// jsonVersionSpan locates the bytes of the top-level "version" string value.
func jsonVersionSpan(content []byte) (start, end int, err error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return 0, 0, fmt.Errorf("invalid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return 0, 0, errors.New("top-level value must be an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("invalid JSON: %w", err)
		}
		if key, _ := keyTok.(string); key != "version" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return 0, 0, fmt.Errorf("invalid JSON: %w", err)
			}
			continue
		}

		valueTok, err := dec.Token()
		if err != nil {
			return 0, 0, fmt.Errorf("invalid JSON: %w", err)
		}
		if _, ok := valueTok.(string); !ok {
			return 0, 0, errors.New("version must be a string")
		}
		end = int(dec.InputOffset()) - 1
		start = bytes.LastIndexByte(content[:end], '"') + 1
		return start, end, nil
	}
	return 0, 0, errNoVersion
}
