package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/obddrive/obd-core/internal/obd"
	"github.com/obddrive/obd-core/internal/obd/catalog"
)

// maxUnknownCodes bounds the diagnostics bucket for unrecognized codes,
// so malformed or flooding input cannot grow a session without limit.
const maxUnknownCodes = 80

// parseNumber parses a telemetry numeric. Accepts comma as decimal
// separator; returns nil for empty, unparseable, or non-finite input.
func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	switch strings.ToLower(s) {
	case "inf", "+inf", "-inf", "infinity", "nan":
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// firstParam returns the first non-empty value among the given keys.
func firstParam(params map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := params[k]; v != "" {
			return v
		}
	}
	return ""
}

// decodeFields decodes the open-ended telemetry parameters of one
// request into values, metadata, and an unknown-code bucket. Pure
// function of its inputs; the catalog is the only lookup source.
//
// Every parameter whose key starts with "k" (case-insensitive) carries
// an encoded code; matched codes populate values and meta, unmatched
// ones land in unknown. GPS fields additionally accept direct aliases
// and are range-validated: out-of-range coordinates are dropped
// entirely, not nulled.
func decodeFields(params map[string]string, lang string) (map[string]any, map[string]*obd.FieldMeta, map[string]string) {
	values := make(map[string]any)
	meta := make(map[string]*obd.FieldMeta)
	unknown := make(map[string]string)

	for key, raw := range params {
		if key == "" || (key[0] != 'k' && key[0] != 'K') {
			continue
		}
		code := strings.ToLower(key[1:])
		c, ok := catalog.Lookup(code)
		if !ok {
			if len(unknown) < maxUnknownCodes {
				unknown[code] = raw
			}
			continue
		}
		short := c.ShortName
		fullEN := c.FullName
		if fullEN == "" {
			fullEN = short
		}
		if v := parseNumber(raw); v != nil {
			values[short] = *v
		} else {
			values[short] = raw
		}
		meta[short] = &obd.FieldMeta{
			Name:   catalog.Label(lang, fullEN),
			Unit:   c.Unit,
			FullEN: fullEN,
			Code:   code,
		}
	}

	decodeGPS(params, lang, values, meta)

	return values, meta, unknown
}

// setMetaDefault fills metadata for a synthesized field unless decoding
// already produced it from a catalog code.
func setMetaDefault(meta map[string]*obd.FieldMeta, short, lang, fullEN, unit, code string) {
	if _, ok := meta[short]; ok {
		return
	}
	meta[short] = &obd.FieldMeta{
		Name:   catalog.Label(lang, fullEN),
		Unit:   unit,
		FullEN: fullEN,
		Code:   code,
	}
}

// decodeGPS applies the direct (non-"k"-encoded) GPS parameters.
func decodeGPS(params map[string]string, lang string, values map[string]any, meta map[string]*obd.FieldMeta) {
	if lat := parseNumber(firstParam(params, "lat", "gpslat")); lat != nil && *lat >= -90 && *lat <= 90 {
		values[catalog.KeyGPSLat] = *lat
		setMetaDefault(meta, catalog.KeyGPSLat, lang, "GPS Latitude", "°", "ff1006")
	}
	if lon := parseNumber(firstParam(params, "lon", "gpslon")); lon != nil && *lon >= -180 && *lon <= 180 {
		values[catalog.KeyGPSLon] = *lon
		setMetaDefault(meta, catalog.KeyGPSLon, lang, "GPS Longitude", "°", "ff1005")
	}
	if alt := parseNumber(firstParam(params, "alt", "altitude", "gps_height", "gpsalt")); alt != nil {
		values[catalog.KeyGPSAltitude] = *alt
		setMetaDefault(meta, catalog.KeyGPSAltitude, lang, "GPS Altitude", "m", "ff1010")
	}
	if acc := parseNumber(firstParam(params, "acc", "accuracy", "gps_acc", "gpsaccuracy")); acc != nil && *acc >= 0 {
		values[catalog.KeyGPSAccuracy] = *acc
		setMetaDefault(meta, catalog.KeyGPSAccuracy, lang, "GPS Accuracy", "m", "ff1239")
	}

	// Legacy GPS-speed compat field.
	if spd := parseNumber(firstParam(params, "speed_gps", "gps_spd")); spd != nil && *spd >= 0 {
		values[catalog.KeySpeedGPS] = *spd
		setMetaDefault(meta, catalog.KeySpeedGPS, lang, "Vehicle Speed (GPS)", "km/h", "")
	}
}

// Textual forms some uploaders send for non-finite readings.
var nonFiniteStrings = map[string]bool{
	"inf": true, "+inf": true, "-inf": true, "infinity": true, "nan": true,
}

// cleanNonFinite replaces any residual non-finite value with nil. Runs
// before the session is stored, so later readers never see one.
func cleanNonFinite(values map[string]any) {
	for k, v := range values {
		switch t := v.(type) {
		case float64:
			if math.IsNaN(t) || math.IsInf(t, 0) {
				values[k] = nil
			}
		case string:
			if nonFiniteStrings[strings.ToLower(strings.TrimSpace(t))] {
				values[k] = nil
			}
		}
	}
}
