// Package versionfile detects the project manifest that carries the
// project version and rewrites that version in place.
//
// Manifests are probed in a fixed order: Cargo.toml, package.json,
// pyproject.toml, *.gemspec, mix.exs, pubspec.yaml, Package.swift and
// finally a plain version or VERSION file. Writes replace only the
// version value, leaving the rest of the file byte-for-byte intact.
package versionfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ShogunPanda/cambi/internal/version"
)

// ErrNotFound is returned by Detect when no supported manifest exists.
var ErrNotFound = errors.New("no supported version file found (Cargo.toml, package.json, pyproject.toml, *.gemspec, mix.exs, pubspec.yaml, Package.swift, or version/VERSION)")

// File is a detected manifest.
type File struct {
	path   string
	format format
}

// format reads and rewrites the version value of one manifest kind.
type format struct {
	name  string
	read  func(content []byte) (string, error)
	patch func(content []byte, next string) ([]byte, error)
}

// Path returns the manifest path.
func (f *File) Path() string {
	return f.path
}

// Format returns a short manifest kind, e.g. "Cargo.toml".
func (f *File) Format() string {
	return f.format.name
}

// Current reads and parses the version stored in the manifest.
func (f *File) Current() (version.Version, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return version.Version{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	raw, err := f.format.read(content)
	if err != nil {
		return version.Version{}, fmt.Errorf("%s: %w", f.path, err)
	}
	return version.Parse(raw)
}

// Render returns the manifest content with its version replaced by next,
// without touching the file.
func (f *File) Render(next version.Version) ([]byte, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	patched, err := f.format.patch(content, next.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return patched, nil
}

// Write replaces the stored version with next.
func (f *File) Write(next version.Version) error {
	patched, err := f.Render(next)
	if err != nil {
		return err
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, patched, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}

// Detect returns the first supported manifest found in dir.
func Detect(dir string) (*File, error) {
	for _, candidate := range candidates(dir) {
		if isFile(candidate.path) {
			return &File{path: candidate.path, format: candidate.format}, nil
		}
	}
	return nil, ErrNotFound
}

type candidate struct {
	path   string
	format format
}

func candidates(dir string) []candidate {
	list := []candidate{
		{filepath.Join(dir, "Cargo.toml"), cargoFormat},
		{filepath.Join(dir, "package.json"), packageJSONFormat},
		{filepath.Join(dir, "pyproject.toml"), pyprojectFormat},
	}
	if gemspec := findGemspec(dir); gemspec != "" {
		list = append(list, candidate{gemspec, gemspecFormat})
	}
	return append(list,
		candidate{filepath.Join(dir, "mix.exs"), mixFormat},
		candidate{filepath.Join(dir, "pubspec.yaml"), pubspecFormat},
		candidate{filepath.Join(dir, "Package.swift"), swiftFormat},
		candidate{filepath.Join(dir, "version"), plainFormat},
		candidate{filepath.Join(dir, "VERSION"), plainFormat},
	)
}

// findGemspec returns the alphabetically first *.gemspec in dir.
func findGemspec(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.gemspec"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	for _, match := range matches {
		if isFile(match) {
			return match
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
