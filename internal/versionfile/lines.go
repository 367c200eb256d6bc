package versionfile

import (
	"errors"
	"regexp"
	"strings"
)

var errNoVersion = errors.New("no version assignment found")

// findLine returns the value captured by the first line matching any pattern.
// Patterns match a whole line with three groups: the text before the
// version value, the value, and the rest of the line.
func findLine(content []byte, patterns ...*regexp.Regexp) (string, error) {
	for line := range strings.Lines(string(content)) {
		line = strings.TrimRight(line, "\r\n")
		for _, re := range patterns {
			if m := re.FindStringSubmatch(line); m != nil {
				return m[2], nil
			}
		}
	}
	return "", errNoVersion
}

// patchLine replaces the value of the first matching line.
func patchLine(content []byte, next string, patterns ...*regexp.Regexp) ([]byte, error) {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		body, cr := strings.CutSuffix(line, "\r")
		for _, re := range patterns {
			m := re.FindStringSubmatch(body)
			if m == nil {
				continue
			}
			lines[i] = m[1] + next + m[3]
			if cr {
				lines[i] += "\r"
			}
			return []byte(strings.Join(lines, "\n")), nil
		}
	}
	return nil, errNoVersion
}
