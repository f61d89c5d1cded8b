package params

import (
	"fmt"
	"strings"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field %q: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every failure found by a Validator.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("configuration validation failed:\n")
	for _, e := range es {
		fmt.Fprintf(&b, "  - %s: %s\n", e.Field, e.Message)
	}
	return b.String()
}

// Validator collects configuration errors through chained checks.
type Validator struct {
	errors ValidationErrors
}

func NewValidator() *Validator {
	return &Validator{}
}

// Add records an arbitrary failure.
func (v *Validator) Add(field, message string) *Validator {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
	return v
}

// RequireNonEmpty validates that a string field is not empty
func (v *Validator) RequireNonEmpty(field, value string) *Validator {
	if value == "" {
		v.Add(field, "value cannot be empty")
	}
	return v
}

// RequirePositive validates that an integer field is greater than 0
func (v *Validator) RequirePositive(field string, value int) *Validator {
	if value <= 0 {
		v.Add(field, fmt.Sprintf("value must be positive, got %d", value))
	}
	return v
}

// ValidateFloatRange validates that a float field is within [min, max]
func (v *Validator) ValidateFloatRange(field string, value, min, max float64) *Validator {
	if value < min || value > max {
		v.Add(field, fmt.Sprintf("value must be between %.2f and %.2f, got %.2f", min, max, value))
	}
	return v
}

// RequireDistinct validates that no value appears twice. Empty values are
// left to RequireNonEmpty.
func (v *Validator) RequireDistinct(field string, values ...string) *Validator {
	seen := make(map[string]bool, len(values))
	for _, val := range values {
		if val == "" {
			continue
		}
		if seen[val] {
			v.Add(field, fmt.Sprintf("values must be distinct, %q appears more than once", val))
			return v
		}
		seen[val] = true
	}
	return v
}

// ValidateOneOf validates that a string value is one of the allowed options
func (v *Validator) ValidateOneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if a == value {
			return v
		}
	}
	v.Add(field, fmt.Sprintf("value must be one of %q, got %q", allowed, value))
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns the collected failures, or nil when there are none.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return v.errors
}

func (v *Validator) Errors() ValidationErrors {
	return v.errors
}
