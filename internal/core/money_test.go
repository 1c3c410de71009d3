package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"dot separator", "12.34", "12.34", false},
		{"comma separator", "12,34", "12.34", false},
		{"integer", "1500", "1500", false},
		{"surrounding spaces", " 9.90 ", "9.9", false},
		{"zero rejected", "0", "", true},
		{"negative rejected", "-5", "", true},
		{"empty rejected", "", "", true},
		{"garbage rejected", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"fractional rate", "12.5", "12.5", false},
		{"zero allowed", "0", "0", false},
		{"empty defaults to zero", "", "0", false},
		{"negative rejected", "-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseRate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(decimal.NewFromInt(200), decimal.NewFromInt(1000)); got != 0.2 {
		t.Errorf("Ratio(200,1000) = %v, want 0.2", got)
	}
	if got := Ratio(decimal.NewFromInt(5), decimal.Zero); got != 0 {
		t.Errorf("Ratio with zero denominator = %v, want 0", got)
	}
}
