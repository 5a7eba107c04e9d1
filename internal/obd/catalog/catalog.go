// Package catalog holds the static telemetry-code catalog and the
// localized label tables.
//
// The catalog maps the short alphanumeric codes embedded in upload keys
// ("kff1006", "k0c", ...) to stable short names, canonical English
// labels, and units. It is read-only; localized label tables are built
// lazily once and cached for the process lifetime.
package catalog

import (
	"strings"
	"sync"
)

var (
	frLabelsOnce sync.Once

	// frLabels maps lowercase canonical English full names to French
	// labels, built lazily from the code catalog.
	frLabels map[string]string
)

func ensureFRLabels() map[string]string {
	frLabelsOnce.Do(func() {
		frLabels = make(map[string]string, len(codes))
		for _, c := range codes {
			fullEN := strings.ToLower(strings.TrimSpace(c.FullName))
			if fullEN == "" {
				continue
			}
			if fr, ok := frByKey[c.ShortName]; ok {
				frLabels[fullEN] = fr
			}
		}
	})
	return frLabels
}

// Label resolves the localized display name for a canonical English
// label. Unknown labels and non-French locales return the English name
// verbatim.
func Label(lang, fullEN string) string {
	if strings.ToLower(lang) != "fr" {
		return fullEN
	}
	key := strings.ToLower(strings.TrimSpace(fullEN))
	if fr, ok := ensureFRLabels()[key]; ok {
		return fr
	}
	return fullEN
}
