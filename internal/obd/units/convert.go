// Package units converts telemetry values between metric and imperial
// and normalizes trip durations.
//
// Conversions rewrite the value and the unit string together, in place,
// so a field's metadata always reflects the unit of its current value.
package units

import (
	"math"
	"strings"

	"github.com/obddrive/obd-core/internal/obd"
	"github.com/obddrive/obd-core/internal/obd/catalog"
)

// Unit preference tags carried on a session.
const (
	PreferenceMetric   = "metric"
	PreferenceImperial = "imperial"
)

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// ApplyUnitPreference rewrites convertible fields to imperial units when
// preference is "imperial"; metric preference is a no-op. Fields with an
// empty or unrecognized unit pass through unchanged.
func ApplyUnitPreference(values map[string]any, meta map[string]*obd.FieldMeta, preference string) {
	if preference != PreferenceImperial {
		return
	}

	for short, m := range meta {
		if m == nil {
			continue
		}
		unit := strings.TrimSpace(m.Unit)
		if unit == "" {
			continue
		}
		v, ok := asFloat(values[short])
		if !ok {
			continue
		}

		switch strings.ToLower(unit) {
		case "km/h", "kmh":
			values[short] = round(v*0.621371, 2)
			m.Unit = "mph"
		case "km":
			values[short] = round(v*0.621371, 3)
			m.Unit = "mi"
		case "m":
			// Altitude only: accuracy shares the base unit and stays metric.
			if short == catalog.KeyGPSAltitude {
				values[short] = round(v*3.28084, 1)
				m.Unit = "ft"
			}
		case "°c", "c", "degc":
			values[short] = round(v*9.0/5.0+32.0, 1)
			m.Unit = "°F"
		case "kpa":
			values[short] = round(v*0.145038, 2)
			m.Unit = "psi"
		case "bar":
			values[short] = round(v*14.5038, 2)
			m.Unit = "psi"
		case "l/100km", "lper100km", "l_100km":
			if v > 0 {
				values[short] = round(235.215/v, 2)
				m.Unit = "mpg"
			}
		case "n·m", "nm":
			values[short] = round(v*0.737562, 2)
			m.Unit = "lb·ft"
		}
	}
}

// tripDurationKeys are the fields reported in seconds that displays
// expect in minutes.
var tripDurationKeys = map[string]bool{
	"trip_time_since_start": true,
	"trip_time_stationary":  true,
	"trip_time_moving":      true,
}

// NormalizeTripDurations converts trip-duration fields from seconds to
// minutes (2dp), preserving the original seconds in the field metadata.
// Applied regardless of unit preference; only fields whose unit is
// exactly "s" are touched.
func NormalizeTripDurations(values map[string]any, meta map[string]*obd.FieldMeta) {
	for short, m := range meta {
		if m == nil || !tripDurationKeys[short] || strings.TrimSpace(m.Unit) != "s" {
			continue
		}
		v, ok := asFloat(values[short])
		if !ok || !isFinite(v) {
			continue
		}
		raw := v
		m.RawSeconds = &raw
		values[short] = round(v/60.0, 2)
		m.Unit = "min"
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
