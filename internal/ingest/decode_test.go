package ingest

import (
	"fmt"
	"math"
	"testing"

	"github.com/obddrive/obd-core/internal/obd/catalog"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"plain", "12.5", ptr(12.5)},
		{"comma decimal", "12,5", ptr(12.5)},
		{"integer", "42", ptr(42.0)},
		{"negative", "-3.2", ptr(-3.2)},
		{"empty", "", nil},
		{"whitespace", "  ", nil},
		{"text", "abc", nil},
		{"nan", "NaN", nil},
		{"inf", "Inf", nil},
		{"negative inf", "-inf", nil},
		{"infinity", "Infinity", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNumber(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parseNumber(%q) = %v, want nil", tt.in, *got)
			case tt.want != nil && got == nil:
				t.Errorf("parseNumber(%q) = nil, want %v", tt.in, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("parseNumber(%q) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestDecodeFields(t *testing.T) {
	params := map[string]string{
		"session": "abc",
		"k0c":     "2500",
		"kFF1006": "48.85",
		"k05":     "90,5",
		"kdeadbe": "7",
		"kffe001": "Connected",
	}

	values, meta, unknown := decodeFields(params, "en")

	if got := values["engine_rpm"]; got != 2500.0 {
		t.Errorf("engine_rpm = %v, want 2500", got)
	}
	if got := values["coolant_temp"]; got != 90.5 {
		t.Errorf("coolant_temp = %v, want 90.5 (comma decimal)", got)
	}
	if got := values[catalog.KeyGPSLat]; got != 48.85 {
		t.Errorf("gpslat = %v, want 48.85 (uppercase code folded)", got)
	}
	if got := values["obd_adapter_status"]; got != "Connected" {
		t.Errorf("obd_adapter_status = %v, want raw string for non-numeric", got)
	}

	if m := meta["engine_rpm"]; m == nil || m.Unit != "rpm" || m.Code != "0c" {
		t.Errorf("engine_rpm meta = %+v", m)
	}
	if got := unknown["deadbe"]; got != "7" {
		t.Errorf("unknown[deadbe] = %q, want raw value", got)
	}
	if _, ok := values["deadbe"]; ok {
		t.Error("unknown code should not appear in values")
	}
}

func TestDecodeFields_FrenchLabels(t *testing.T) {
	_, meta, _ := decodeFields(map[string]string{"k0c": "100"}, "fr")
	m := meta["engine_rpm"]
	if m == nil {
		t.Fatal("missing meta for engine_rpm")
	}
	if m.FullEN != "Engine RPM" {
		t.Errorf("FullEN = %q, want English name preserved", m.FullEN)
	}
	if m.Name == "Engine RPM" {
		t.Errorf("Name = %q, want localized label", m.Name)
	}
}

func TestDecodeFields_UnknownBucketCapped(t *testing.T) {
	params := map[string]string{}
	for i := 0; i < maxUnknownCodes+20; i++ {
		params[fmt.Sprintf("kzz%04d", i)] = "1"
	}

	_, _, unknown := decodeFields(params, "en")
	if len(unknown) > maxUnknownCodes {
		t.Errorf("unknown bucket = %d entries, want at most %d", len(unknown), maxUnknownCodes)
	}
}

func TestDecodeGPS(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]string
		key     string
		want    any
		dropped bool
	}{
		{"valid lat", map[string]string{"lat": "48.85"}, catalog.KeyGPSLat, 48.85, false},
		{"lat out of range", map[string]string{"lat": "91"}, catalog.KeyGPSLat, nil, true},
		{"lon out of range", map[string]string{"lon": "-181"}, catalog.KeyGPSLon, nil, true},
		{"negative accuracy dropped", map[string]string{"acc": "-5"}, catalog.KeyGPSAccuracy, nil, true},
		{"altitude alias", map[string]string{"gps_height": "120.4"}, catalog.KeyGPSAltitude, 120.4, false},
		{"gps speed", map[string]string{"gps_spd": "60"}, catalog.KeySpeedGPS, 60.0, false},
		{"negative gps speed dropped", map[string]string{"speed_gps": "-1"}, catalog.KeySpeedGPS, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _, _ := decodeFields(tt.params, "en")
			got, ok := values[tt.key]
			if tt.dropped {
				if ok {
					t.Errorf("%s = %v, want absent", tt.key, got)
				}
				return
			}
			if !ok || got != tt.want {
				t.Errorf("%s = %v (present=%v), want %v", tt.key, got, ok, tt.want)
			}
		})
	}
}

func TestCleanNonFinite(t *testing.T) {
	values := map[string]any{
		"ok":       12.5,
		"text":     "abc",
		"bad":      math.NaN(),
		"inf":      math.Inf(1),
		"raw_nan":  "NaN",
		"raw_inf":  " -Inf ",
		"raw_word": "Infinite",
	}

	cleanNonFinite(values)

	if values["ok"] != 12.5 || values["text"] != "abc" {
		t.Error("finite and plain string values should be untouched")
	}
	for _, key := range []string{"bad", "inf", "raw_nan", "raw_inf"} {
		if values[key] != nil {
			t.Errorf("%s = %v, want nil", key, values[key])
		}
	}
	if values["raw_word"] != "Infinite" {
		t.Errorf("raw_word = %v, want untouched", values["raw_word"])
	}
}
