package units

import (
	"testing"

	"github.com/obddrive/obd-core/internal/obd"
)

func field(unit, fullEN string) *obd.FieldMeta {
	return &obd.FieldMeta{Name: fullEN, Unit: unit, FullEN: fullEN}
}

func TestApplyUnitPreference_MetricNoOp(t *testing.T) {
	values := map[string]any{"speed_obd": 100.0}
	meta := map[string]*obd.FieldMeta{"speed_obd": field("km/h", "Speed (OBD)")}

	ApplyUnitPreference(values, meta, PreferenceMetric)

	if values["speed_obd"] != 100.0 {
		t.Errorf("value = %v, want unchanged 100", values["speed_obd"])
	}
	if meta["speed_obd"].Unit != "km/h" {
		t.Errorf("unit = %q, want unchanged km/h", meta["speed_obd"].Unit)
	}
}

func TestApplyUnitPreference_Imperial(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		unit     string
		value    float64
		want     float64
		wantUnit string
	}{
		{name: "speed km/h to mph", key: "speed_obd", unit: "km/h", value: 100, want: 62.14, wantUnit: "mph"},
		{name: "speed kmh alias", key: "gps_spd", unit: "kmh", value: 50, want: 31.07, wantUnit: "mph"},
		{name: "distance km to mi", key: "trip_distance", unit: "km", value: 10, want: 6.214, wantUnit: "mi"},
		{name: "altitude m to ft", key: "gpsalt", unit: "m", value: 100, want: 328.1, wantUnit: "ft"},
		{name: "temperature c to f", key: "coolant_temp", unit: "°C", value: 90, want: 194.0, wantUnit: "°F"},
		{name: "pressure kpa to psi", key: "fuel_pressure", unit: "kPa", value: 300, want: 43.51, wantUnit: "psi"},
		{name: "pressure bar to psi", key: "boost", unit: "bar", value: 1.5, want: 21.76, wantUnit: "psi"},
		{name: "economy l/100km to mpg", key: "mpg_instant", unit: "L/100km", value: 8, want: 29.4, wantUnit: "mpg"},
		{name: "torque nm to lbft", key: "torque", unit: "N·m", value: 400, want: 295.02, wantUnit: "lb·ft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := map[string]any{tt.key: tt.value}
			meta := map[string]*obd.FieldMeta{tt.key: field(tt.unit, tt.key)}

			ApplyUnitPreference(values, meta, PreferenceImperial)

			if got := values[tt.key]; got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
			if got := meta[tt.key].Unit; got != tt.wantUnit {
				t.Errorf("unit = %q, want %q", got, tt.wantUnit)
			}
		})
	}
}

func TestApplyUnitPreference_AccuracyNotConverted(t *testing.T) {
	values := map[string]any{"gpsaccuracy": 5.0}
	meta := map[string]*obd.FieldMeta{"gpsaccuracy": field("m", "GPS Accuracy")}

	ApplyUnitPreference(values, meta, PreferenceImperial)

	if values["gpsaccuracy"] != 5.0 || meta["gpsaccuracy"].Unit != "m" {
		t.Errorf("accuracy converted: value=%v unit=%q, want 5 m", values["gpsaccuracy"], meta["gpsaccuracy"].Unit)
	}
}

func TestApplyUnitPreference_SkipsNonNumericAndUnitless(t *testing.T) {
	values := map[string]any{
		"engine_state": "running",
		"lambda":       0.98,
	}
	meta := map[string]*obd.FieldMeta{
		"engine_state": field("km/h", "Engine State"), // non-numeric value
		"lambda":       field("", "Lambda"),           // empty unit
	}

	ApplyUnitPreference(values, meta, PreferenceImperial)

	if values["engine_state"] != "running" {
		t.Errorf("non-numeric value touched: %v", values["engine_state"])
	}
	if values["lambda"] != 0.98 {
		t.Errorf("unitless value touched: %v", values["lambda"])
	}
}

func TestApplyUnitPreference_ZeroEconomyUnchanged(t *testing.T) {
	values := map[string]any{"mpg_instant": 0.0}
	meta := map[string]*obd.FieldMeta{"mpg_instant": field("L/100km", "Fuel Economy (Instant)")}

	ApplyUnitPreference(values, meta, PreferenceImperial)

	if values["mpg_instant"] != 0.0 || meta["mpg_instant"].Unit != "L/100km" {
		t.Errorf("zero economy converted: value=%v unit=%q", values["mpg_instant"], meta["mpg_instant"].Unit)
	}
}

func TestNormalizeTripDurations(t *testing.T) {
	values := map[string]any{
		"trip_time_since_start": 90.0,
		"run_time_since_start":  90.0,
	}
	meta := map[string]*obd.FieldMeta{
		"trip_time_since_start": field("s", "Trip Time (Since Journey Start)"),
		"run_time_since_start":  field("s", "Run Time Since Engine Start"),
	}

	NormalizeTripDurations(values, meta)

	if values["trip_time_since_start"] != 1.5 {
		t.Errorf("trip time = %v, want 1.5", values["trip_time_since_start"])
	}
	m := meta["trip_time_since_start"]
	if m.Unit != "min" {
		t.Errorf("unit = %q, want min", m.Unit)
	}
	if m.RawSeconds == nil || *m.RawSeconds != 90.0 {
		t.Errorf("RawSeconds = %v, want 90", m.RawSeconds)
	}

	// Non-trip fields in seconds are left alone.
	if values["run_time_since_start"] != 90.0 || meta["run_time_since_start"].Unit != "s" {
		t.Errorf("run_time touched: value=%v unit=%q", values["run_time_since_start"], meta["run_time_since_start"].Unit)
	}
}

func TestNormalizeTripDurations_WrongUnitSkipped(t *testing.T) {
	values := map[string]any{"trip_time_moving": 90.0}
	meta := map[string]*obd.FieldMeta{"trip_time_moving": field("min", "Trip Time (Whilst Moving)")}

	NormalizeTripDurations(values, meta)

	if values["trip_time_moving"] != 90.0 {
		t.Errorf("already-minutes field converted: %v", values["trip_time_moving"])
	}
}
