package ingest

import (
	"crypto/sha1" // #nosec G505 -- short non-cryptographic salt, matches the uploader protocol
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/obddrive/obd-core/internal/slug"
)

// poorNameRE matches placeholder names the mobile app generates when no
// profile is configured ("Vehicle 123456").
var poorNameRE = regexp.MustCompile(`^\s*vehicle\s*\d+\s*$`)

// isPoorName reports whether a profile name is too generic to use for
// display or identity: blank, the bare word "vehicle" (or its French
// equivalent), or "vehicle" followed by digits.
func isPoorName(name string) bool {
	s := strings.TrimSpace(name)
	if s == "" {
		return true
	}
	low := strings.ToLower(s)
	if low == "vehicle" || low == "véhicule" {
		return true
	}
	return poorNameRE.MatchString(low)
}

// normKey folds a parameter key for alias matching: lowercase with
// ".", "-", "_" stripped.
func normKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, ".", "")
	k = strings.ReplaceAll(k, "-", "")
	k = strings.ReplaceAll(k, "_", "")
	return strings.TrimSpace(k)
}

// profileNameKeys are the accepted aliases for the profile name, in
// priority order, normalized.
var profileNameKeys = func() []string {
	candidates := []string{
		"profileName", "profile_name", "profile",
		"vehicleName", "vehicle", "carName", "car", "name",
		"profilename", "profile.name",
	}
	out := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		n := normKey(c)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}()

var whitespaceRE = regexp.MustCompile(`\s+`)

// extractProfileName returns the highest-priority non-empty
// profile-name alias in the request, with internal whitespace
// collapsed. Priority order keeps a request carrying several aliases
// deterministic.
func extractProfileName(params map[string]string) string {
	byNorm := make(map[string]string, len(params))
	for k, v := range params {
		n := normKey(k)
		if s := strings.TrimSpace(v); s != "" && byNorm[n] == "" {
			byNorm[n] = s
		}
	}
	for _, key := range profileNameKeys {
		if s := byNorm[key]; s != "" {
			return whitespaceRE.ReplaceAllString(s, " ")
		}
	}
	return ""
}

// extractAppVersion scans the known app-version keys in priority order.
// The bare "ver"/"v" parameters double as protocol version markers, so
// they only count when they look like a version string (contain "." or
// "-").
func extractAppVersion(params map[string]string) string {
	for _, k := range []string{"appVersion", "app_version", "apkVersion", "versionName", "version"} {
		if v := strings.TrimSpace(params[k]); v != "" {
			return v
		}
	}
	for _, k := range []string{"ver", "v"} {
		v := strings.TrimSpace(params[k])
		if v != "" && strings.ContainsAny(v, ".-") {
			return v
		}
	}
	return ""
}

// emailSalt derives a short stable salt from an email so vehicles with
// identical display names under different accounts get distinct ids.
func emailSalt(email string) string {
	if email == "" {
		return ""
	}
	sum := sha1.Sum([]byte(email)) // #nosec G401
	return hex.EncodeToString(sum[:])[:4]
}

// deriveProfileID produces the stable vehicle identifier, in priority
// order: canonical identity, usable display name (+ vehicle-id prefix
// and email salt), bare vehicle id (+ salt), session-id fallback.
func deriveProfileID(canonical, effectiveName, vehicleID, email, sessionID string) string {
	if canonical != "" {
		return slug.Make(canonical)
	}

	salt := emailSalt(email)

	if effectiveName != "" {
		base := slug.Make(effectiveName)
		if vehicleID != "" {
			id := fmt.Sprintf("%s_%s", base, firstN(vehicleID, 4))
			if salt != "" {
				id += "_" + salt
			}
			return id
		}
		if salt != "" {
			return base + "_" + salt
		}
		return base
	}

	if vehicleID != "" {
		if salt != "" {
			return vehicleID + "_" + salt
		}
		return vehicleID
	}

	return "veh_" + firstN(sessionID, 6)
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
