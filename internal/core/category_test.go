package core

import "testing"

func TestIsCustomCategory(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Food", false},
		{"Shopping", false},
		{"Rent", false},
		{"Salary", false},
		{"Gifts", false},
		{"Pet Supplies", true},
		{"food", true}, // case sensitive, as the UI sends exact names
		{"", true},
	}

	for _, tt := range tests {
		if got := IsCustomCategory(tt.name); got != tt.want {
			t.Errorf("IsCustomCategory(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPredefinedCategoryNames(t *testing.T) {
	names := PredefinedCategoryNames()
	if len(names) != 12 {
		t.Fatalf("expected 12 predefined categories, got %d", len(names))
	}
	for _, n := range names {
		if IsCustomCategory(n) {
			t.Errorf("predefined category %q classified as custom", n)
		}
	}
}
