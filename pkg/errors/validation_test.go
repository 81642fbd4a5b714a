package errors

import (
	"strings"
	"testing"
)

func TestValidateEditID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "spring-promo", false},
		{"valid with underscore", "reel_v2", false},
		{"valid with dot", "cut.final", false},
		{"valid uuid", "3f2b8c1e-8a4d-4c7e-9d1f-0a1b2c3d4e5f", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"control char", "a\x01b", true},
		{"hidden", ".edit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEditID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEditID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateEditID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Character", false},
		{"valid with spaces", "Has Crowd", false},
		{"valid unicode", "Szene 1 – Außen", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("n", 300), true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
