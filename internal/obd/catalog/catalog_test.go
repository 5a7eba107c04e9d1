package catalog

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantShort string
		wantUnit  string
		wantOK    bool
	}{
		{name: "engine rpm", code: "0c", wantShort: "engine_rpm", wantUnit: "rpm", wantOK: true},
		{name: "obd speed", code: "0d", wantShort: "speed_obd", wantUnit: "km/h", wantOK: true},
		{name: "gps latitude", code: "ff1006", wantShort: "gpslat", wantUnit: "°", wantOK: true},
		{name: "trip time", code: "ff1266", wantShort: "trip_time_since_start", wantUnit: "s", wantOK: true},
		{name: "unknown code", code: "zz99", wantOK: false},
		{name: "uppercase not matched", code: "0C", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if c.ShortName != tt.wantShort {
				t.Errorf("ShortName = %q, want %q", c.ShortName, tt.wantShort)
			}
			if c.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", c.Unit, tt.wantUnit)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		lang   string
		fullEN string
		want   string
	}{
		{name: "english passthrough", lang: "en", fullEN: "Engine RPM", want: "Engine RPM"},
		{name: "french translated", lang: "fr", fullEN: "Engine RPM", want: "Régime moteur"},
		{name: "french case insensitive", lang: "fr", fullEN: "engine rpm", want: "Régime moteur"},
		{name: "french missing falls back", lang: "fr", fullEN: "Mystery Signal", want: "Mystery Signal"},
		{name: "unknown locale", lang: "de", fullEN: "Engine RPM", want: "Engine RPM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.lang, tt.fullEN); got != tt.want {
				t.Errorf("Label(%q, %q) = %q, want %q", tt.lang, tt.fullEN, got, tt.want)
			}
		})
	}
}

func TestDefaultUnit(t *testing.T) {
	if u := DefaultUnit("engine_rpm"); u != "rpm" {
		t.Errorf("DefaultUnit(engine_rpm) = %q, want rpm", u)
	}
	if u := DefaultUnit("nonexistent"); u != "" {
		t.Errorf("DefaultUnit(nonexistent) = %q, want empty", u)
	}
}
