package security

import (
	"path/filepath"
	"testing"
)

func TestResolveWithin(t *testing.T) {
	base := filepath.Join("chars", "biped")

	tests := []struct {
		name      string
		file      string
		want      string
		wantError bool
	}{
		{"sibling file", "walk.json", filepath.Join(base, "walk.json"), false},
		{"nested file", "anims/run.json", filepath.Join(base, "anims", "run.json"), false},
		{"dot segments that stay inside", "anims/../idle.json", filepath.Join(base, "idle.json"), false},
		{"parent escape", "../quad/walk.json", "", true},
		{"deep escape", "../../../etc/passwd", "", true},
		{"bare parent", "..", "", true},
		{"absolute", "/etc/passwd", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWithin(base, tt.file)
			if tt.wantError {
				if err == nil {
					t.Errorf("ResolveWithin(%q) = %q, expected error", tt.file, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveWithin(%q) unexpected error: %v", tt.file, err)
			}
			if got != tt.want {
				t.Errorf("ResolveWithin(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestResolveWithin_DotBase(t *testing.T) {
	got, err := ResolveWithin(".", "walk.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "walk.json" {
		t.Errorf("got %q, want walk.json", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"walk", "walk"},
		{"run fast", "run_fast"},
		{"anims/walk.caf", "anims_walk.caf"},
		{"a  //  b", "a_b"},
		{"__hidden__", "hidden"},
		{"", "unknown"},
		{"///", "unknown"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
