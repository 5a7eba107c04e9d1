package ingest

import "testing"

func TestIsPoorName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"bare vehicle", "Vehicle", true},
		{"french", "Véhicule", true},
		{"vehicle with number", "Vehicle 123456", true},
		{"vehicle no space", "vehicle42", true},
		{"real name", "My Red Car", false},
		{"name containing vehicle", "Vehicle of Bob", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPoorName(tt.in); got != tt.want {
				t.Errorf("isPoorName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractProfileName(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{"profileName key", map[string]string{"profileName": "My Car"}, "My Car"},
		{"snake case", map[string]string{"profile_name": "My Car"}, "My Car"},
		{"collapses whitespace", map[string]string{"profile": "  My   Car  "}, "My Car"},
		{"missing", map[string]string{"session": "abc"}, ""},
		{"empty value skipped", map[string]string{"profileName": "  "}, ""},
		{"alias priority over name", map[string]string{"name": "Weak", "vehicleName": "Strong"}, "Strong"},
		{"profile beats vehicle aliases", map[string]string{"vehicle": "Weak", "car": "Weak", "profile": "Strong"}, "Strong"},
		{"empty high alias falls through", map[string]string{"profileName": " ", "name": "Fallback"}, "Fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractProfileName(tt.params); got != tt.want {
				t.Errorf("extractProfileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAppVersion(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{"appVersion preferred", map[string]string{"appVersion": "1.2.3", "v": "9"}, "1.2.3"},
		{"versionName", map[string]string{"versionName": "2.0-beta"}, "2.0-beta"},
		{"ver with dot accepted", map[string]string{"ver": "1.5"}, "1.5"},
		{"bare v without dot ignored", map[string]string{"v": "9"}, ""},
		{"v with dash accepted", map[string]string{"v": "1-rc1"}, "1-rc1"},
		{"none", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAppVersion(tt.params); got != tt.want {
				t.Errorf("extractAppVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveProfileID(t *testing.T) {
	tests := []struct {
		name      string
		canonical string
		effective string
		vehicleID string
		email     string
		sessionID string
		want      string
	}{
		{
			name:      "canonical wins",
			canonical: "Family Car",
			effective: "Whatever",
			vehicleID: "abcdef",
			email:     "a@b.c",
			sessionID: "s1",
			want:      "family_car",
		},
		{
			name:      "name plus vehicle id and salt",
			effective: "My Car",
			vehicleID: "deadbeef",
			email:     "a@b.c",
			sessionID: "s1",
			want:      "my_car_dead_" + emailSalt("a@b.c"),
		},
		{
			name:      "name plus vehicle id no email",
			effective: "My Car",
			vehicleID: "deadbeef",
			sessionID: "s1",
			want:      "my_car_dead",
		},
		{
			name:      "name plus salt only",
			effective: "My Car",
			email:     "a@b.c",
			sessionID: "s1",
			want:      "my_car_" + emailSalt("a@b.c"),
		},
		{
			name:      "vehicle id with salt",
			vehicleID: "deadbeef",
			email:     "a@b.c",
			sessionID: "s1",
			want:      "deadbeef_" + emailSalt("a@b.c"),
		},
		{
			name:      "vehicle id alone",
			vehicleID: "deadbeef",
			sessionID: "s1",
			want:      "deadbeef",
		},
		{
			name:      "session fallback",
			sessionID: "0123456789",
			want:      "veh_012345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveProfileID(tt.canonical, tt.effective, tt.vehicleID, tt.email, tt.sessionID)
			if got != tt.want {
				t.Errorf("deriveProfileID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveProfileID_Stable(t *testing.T) {
	a := deriveProfileID("", "My Car", "deadbeef", "a@b.c", "s1")
	b := deriveProfileID("", "My Car", "deadbeef", "a@b.c", "s2")
	if a != b {
		t.Errorf("profile id should not depend on session id when a name is present: %q != %q", a, b)
	}

	other := deriveProfileID("", "My Car", "deadbeef", "other@b.c", "s1")
	if a == other {
		t.Error("different emails should salt to different profile ids")
	}
}

func TestEmailSalt(t *testing.T) {
	if emailSalt("") != "" {
		t.Error("empty email should produce no salt")
	}
	s := emailSalt("a@b.c")
	if len(s) != 4 {
		t.Errorf("salt length = %d, want 4", len(s))
	}
	if s != emailSalt("a@b.c") {
		t.Error("salt should be deterministic")
	}
}
