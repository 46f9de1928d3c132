package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "node-1", false},
		{"valid with spaces", "my node", false},
		{"valid unicode", "节点", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("node", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDiagram) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDiagram)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://elk.example.com/layout", false},
		{"http", "http://localhost:8080/layout", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "localhost:8080", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
