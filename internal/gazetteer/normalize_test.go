package gazetteer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ñuñoa", "nunoa"},
		{"NUNOA", "nunoa"},
		{"Región Metropolitana", "region metropolitana"},
		{"  La   Unión  ", "la union"},
		{"Valparaíso", "valparaiso"},
		{"Aysén", "aysen"},
		{"RM", "rm"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Ñuñoa", "La Unión", "Los Ríos", "Concepción"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
