package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "My Car", "my_car"},
		{"already slug", "my_car", "my_car"},
		{"accents fold", "Véhicule Bleu", "vehicule_bleu"},
		{"mixed accents", "Škoda Čarová", "skoda_carova"},
		{"ligatures expand", "Bjørn æ Cœur", "bjorn_ae_coeur"},
		{"unfoldable runs collapse", "日本 Car", "car"},
		{"punctuation", "Bob's Car #2", "bob_s_car_2"},
		{"multiple spaces", "family   wagon", "family_wagon"},
		{"leading trailing", "  test  ", "test"},
		{"uppercase", "DAILY DRIVER", "daily_driver"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
		{"long name truncated", strings.Repeat("abcdefghi_", 10), strings.TrimRight(strings.Repeat("abcdefghi_", 10)[:64], "_")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
