package models

import (
	"strings"
	"testing"
)

func TestNewRecordName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single character", "a", false},
		{"hierarchy label", "Hardware / Sprockets", false},
		{"255 ascii characters", strings.Repeat("x", MaxRecordNameLength), false},
		{"255 multibyte characters", strings.Repeat("é", MaxRecordNameLength), false},
		{"empty", "", true},
		{"256 characters", strings.Repeat("x", MaxRecordNameLength+1), true},
		{"256 multibyte characters", strings.Repeat("é", MaxRecordNameLength+1), true},
		{"invalid utf-8", "ok\xff", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewRecordName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRecordName error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && n.String() != tt.input {
				t.Fatalf("got %q, want %q", n.String(), tt.input)
			}
		})
	}
}
