package vehicle

import (
	"strings"

	"github.com/obddrive/obd-core/internal/obd"
	"github.com/obddrive/obd-core/internal/obd/catalog"
)

// isTextualSignal reports whether a signal's display name marks it as a
// state-like text value, which is creatable even without a unit.
func isTextualSignal(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	if strings.HasSuffix(n, "status") || strings.HasSuffix(n, "state") || strings.HasSuffix(n, "mode") {
		return true
	}
	return strings.Contains(n, "état") || strings.Contains(n, "statut")
}

// isCreatableSignal decides whether a decoded signal deserves its own
// entity. Raw GPS coordinates are carried by the tracker instead, and
// unitless signals without a recognizable label or textual name are
// noise from unmapped codes.
func isCreatableSignal(short string, meta *obd.FieldMeta) bool {
	if short == catalog.KeyGPSLat || short == catalog.KeyGPSLon {
		return false
	}
	if meta == nil {
		return false
	}
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = short
	}
	unit := strings.TrimSpace(meta.Unit)
	if unit == "" && !isTextualSignal(name) {
		return false
	}
	if name == short {
		return false
	}
	return true
}
