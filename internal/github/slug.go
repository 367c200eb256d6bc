package github

import (
	"regexp"
	"strings"
)

var repositoryURLPattern = regexp.MustCompile(`github\.com[:/](?P<owner>[^/]+)/(?P<repo>[^/.]+)(?:\.git)?/?$`)

// ParseRepositoryURL extracts owner and repository from a GitHub URL in any
// of the https, ssh or git+ forms.
func ParseRepositoryURL(raw string) (owner, repo string, ok bool) {
	m := repositoryURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", false
	}
	return m[repositoryURLPattern.SubexpIndex("owner")], m[repositoryURLPattern.SubexpIndex("repo")], true
}
