package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSubdivisions checks that a layer list is present and every count
// is a positive integer. Whether a count can actually be laid out is decided
// by the tiling package, not here.
func ValidateSubdivisions(counts []int) error {
	if len(counts) == 0 {
		return New(ErrCodeInvalidConfiguration, "subdivision list cannot be empty")
	}
	for i, n := range counts {
		if n < 1 {
			return New(ErrCodeInvalidConfiguration, "layer %d: subdivision count must be positive, got %d", i, n)
		}
	}
	return nil
}

// ValidateThresholds checks LOD transition thresholds for NaN and infinities.
// Ordering and range are left to the consumer.
func ValidateThresholds(thresholds []float64) error {
	for i, t := range thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return New(ErrCodeInvalidInput, "threshold %d is not a finite number", i)
		}
	}
	return nil
}

// ValidateMapSize rejects map and tile sizes that would yield zero or
// negative tile scales.
func ValidateMapSize(name string, size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return New(ErrCodeInvalidConfiguration, "%s must be a positive number, got %v", name, size)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
