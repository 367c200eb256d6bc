package version

import (
	"fmt"
	"regexp"
	"strings"
)

const semverCore = `\d+\.\d+\.\d+`

// TagName derives a tag for v that matches pattern. It tries the literal
// prefix/suffix around the semver core of the pattern, then "vX.Y.Z", then
// "X.Y.Z".
func TagName(v Version, pattern *regexp.Regexp) (string, error) {
	var candidates []string

	raw := strings.TrimSuffix(strings.TrimPrefix(pattern.String(), "^"), "$")
	if prefix, suffix, ok := strings.Cut(raw, semverCore); ok {
		candidates = append(candidates, unescape(prefix)+v.String()+unescape(suffix))
	}
	candidates = append(candidates, v.Tag(), v.String())

	for _, c := range candidates {
		if pattern.MatchString(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("cannot derive a tag matching %q for version %s", pattern.String(), v)
}

func unescape(s string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}
