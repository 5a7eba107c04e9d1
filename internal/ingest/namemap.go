package ingest

import (
	"strings"

	"github.com/obddrive/obd-core/internal/slug"
)

// ParseNameMapText parses an "alias -> canonical" mapping from config
// text. Entries are newline- or ';'-separated; "#" starts a comment.
// Accepted separators within a line: "->", "=>", ":", "=", or, failing
// those, the last word is taken as the canonical name. Each alias is
// indexed both lowercased and slugified.
func ParseNameMapText(text string) map[string]string {
	mapping := make(map[string]string)
	if text == "" {
		return mapping
	}

	txt := strings.ReplaceAll(text, "\r\n", "\n")
	txt = strings.ReplaceAll(txt, "\r", "\n")
	txt = strings.ReplaceAll(txt, ";", "\n")

	for _, raw := range strings.Split(txt, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var left, right string
		matched := false
		for _, sep := range []string{"->", "=>", ":", "="} {
			if idx := strings.Index(line, sep); idx >= 0 {
				left, right = line[:idx], line[idx+len(sep):]
				matched = true
				break
			}
		}
		if !matched {
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}
			left = strings.Join(parts[:len(parts)-1], " ")
			right = parts[len(parts)-1]
		}

		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if left == "" || right == "" {
			continue
		}
		mapping[strings.ToLower(left)] = right
		mapping[slug.Make(left)] = right
	}
	return mapping
}

// lookupCanonical resolves a profile name against a name map, trying
// the lowercased form first and the slug form second.
func lookupCanonical(nameMap map[string]string, profileName string) string {
	if profileName == "" || len(nameMap) == 0 {
		return ""
	}
	if c, ok := nameMap[strings.ToLower(strings.TrimSpace(profileName))]; ok {
		return c
	}
	if c, ok := nameMap[slug.Make(profileName)]; ok {
		return c
	}
	return ""
}
