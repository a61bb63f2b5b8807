package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// Limits applied to untrusted chart input.
const (
	MaxValues      = 10_000
	MaxLabelLength = 256
	MaxDimension   = 16_384
	MaxYAxisSteps  = 100
	MaxFontSize    = 512
)

// ValidateValues checks a data series. Values must be finite and
// non-negative; an empty series is valid and renders nothing.
func ValidateValues(values []float64) error {
	if len(values) > MaxValues {
		return New(ErrCodeInvalidChart, "too many values: %d (max %d)", len(values), MaxValues)
	}
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			return New(ErrCodeInvalidChart, "value %d is NaN", i)
		case math.IsInf(v, 0):
			return New(ErrCodeInvalidChart, "value %d is infinite", i)
		case v < 0:
			return New(ErrCodeInvalidChart, "value %d is negative: %v", i, v)
		}
	}
	return nil
}

// ValidateLabels checks x-axis labels for length and control characters.
// The number of labels is free: a count different from the number of values
// selects stride placement.
func ValidateLabels(labels []string) error {
	if len(labels) > MaxValues {
		return New(ErrCodeInvalidChart, "too many labels: %d (max %d)", len(labels), MaxValues)
	}
	for i, l := range labels {
		if len(l) > MaxLabelLength {
			return New(ErrCodeInvalidChart, "label %d too long (max %d characters)", i, MaxLabelLength)
		}
		for _, r := range l {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidChart, "label %d contains control characters", i)
			}
		}
	}
	return nil
}

// ValidateBounds checks a container size.
func ValidateBounds(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || d.v <= 0 {
			return New(ErrCodeInvalidBounds, "%s must be positive, got %v", d.name, d.v)
		}
		if d.v > MaxDimension {
			return New(ErrCodeInvalidBounds, "%s too large: %v (max %d)", d.name, d.v, MaxDimension)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed, case-insensitively.
func ValidateFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateSpacing checks that no inset is negative or non-finite.
func ValidateSpacing(name string, left, right, top, bottom float64) error {
	for _, v := range []float64{left, right, top, bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return New(ErrCodeInvalidChart, "%s must be finite and non-negative", name)
		}
	}
	return nil
}

// ValidateLength checks a single chart length such as a bar gap or a line
// width. It must be finite and non-negative.
func ValidateLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidChart, "%s must be finite and non-negative, got %v", name, v)
	}
	return nil
}

// ValidateFontSize checks a font size in points.
func ValidateFontSize(name string, size float64) error {
	if math.IsNaN(size) || size <= 0 || size > MaxFontSize {
		return New(ErrCodeInvalidChart, "%s size must be in (0, %d], got %v", name, MaxFontSize, size)
	}
	return nil
}

// ValidateYAxisSteps checks the y-axis interval count; 0 disables ticks.
func ValidateYAxisSteps(steps int) error {
	if steps < 0 || steps > MaxYAxisSteps {
		return New(ErrCodeInvalidChart, "y_axis_steps must be in [0, %d], got %d", MaxYAxisSteps, steps)
	}
	return nil
}
