// Package slug normalises free-form names into identifier-safe keys.
package slug

import "strings"

const maxSlugLength = 64

// accentFolds maps common Latin accented runes to their ASCII base, so
// "Véhicule" and "Vehicule" produce the same key.
var accentFolds = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'ā': "a", 'ă': "a", 'ą': "a",
	'ç': "c", 'ć': "c", 'č': "c",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ē': "e", 'ė': "e", 'ę': "e", 'ě': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ī': "i", 'į': "i",
	'ñ': "n", 'ń': "n", 'ň': "n",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o", 'ō': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ū': "u", 'ů': "u",
	'ý': "y", 'ÿ': "y",
	'ś': "s", 'š': "s", 'ş': "s",
	'ź': "z", 'ż': "z", 'ž': "z",
	'ř': "r", 'ł': "l", 'ť': "t", 'ď': "d", 'đ': "d", 'ð': "d",
	'æ': "ae", 'œ': "oe", 'ß': "ss", 'þ': "th",
}

// Make converts a free-form name into a lowercase identifier containing
// only [a-z0-9_]. Accented Latin letters fold to their base letter;
// runs of other characters collapse into a single underscore. Returns
// "" when nothing usable remains.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var result strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
			lastUnderscore = false
		default:
			if folded, ok := accentFolds[r]; ok {
				result.WriteString(folded)
				lastUnderscore = false
				continue
			}
			if !lastUnderscore && result.Len() > 0 {
				result.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(result.String(), "_")
	if len(out) > maxSlugLength {
		out = out[:maxSlugLength]
		out = strings.TrimRight(out, "_")
	}
	return out
}
