package vision

import (
	"strings"
)

// maxTitleLen bounds suggestions so a chatty model cannot flood the form.
const maxTitleLen = 80

// ParseTitle extracts a title from a model response: the first non-empty line,
// without a "Title:" label, surrounding quotes or trailing period.
func ParseTitle(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := cutPrefixFold(line, "title:"); ok {
			line = strings.TrimSpace(rest)
		}
		line = strings.Trim(line, "\"'`*")
		line = strings.TrimSuffix(line, ".")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxTitleLen {
			line = strings.TrimSpace(string(r[:maxTitleLen]))
		}
		return line
	}
	return ""
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
