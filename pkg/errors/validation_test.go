package errors

import (
	"math"
	"testing"
)

func TestValidateSubdivisions(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		wantErr bool
	}{
		{"single layer", []int{1}, false},
		{"three layers", []int{1, 4, 9}, false},
		{"impossible counts are still positive", []int{7}, false},

		{"nil", nil, true},
		{"empty", []int{}, true},
		{"zero", []int{4, 0}, true},
		{"negative", []int{-4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubdivisions(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubdivisions(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfiguration) {
				t.Errorf("ValidateSubdivisions(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidConfiguration)
			}
		})
	}
}

func TestValidateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		input   []float64
		wantErr bool
	}{
		{"empty", nil, false},
		{"ordered", []float64{0.5, 0.25, 0.1}, false},
		{"unordered is allowed", []float64{0.1, 0.9}, false},
		{"NaN", []float64{0.5, math.NaN()}, true},
		{"Inf", []float64{math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThresholds(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThresholds(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMapSize(t *testing.T) {
	tests := []struct {
		input   float64
		wantErr bool
	}{
		{1, false},
		{0.25, false},
		{0, true},
		{-2, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		err := ValidateMapSize("map size", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMapSize(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/map.svg", false},
		{"absolute", "/tmp/map.svg", false},

		{"empty", "", true},
		{"traversal", "../map.svg", true},
		{"null byte", "map\x00.svg", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
