// Package validation holds the field-level checks shared by the HTTP API and
// the CLI input paths.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// NormalizeFamilyCode trims surrounding whitespace and uppercases the code.
// Applied on both create and join; length is only checked at creation.
func NormalizeFamilyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateFamilyCode checks the minimum length of an already-normalized code.
func ValidateFamilyCode(field, code string, minLength int) *ValidationError {
	if utf8.RuneCountInString(code) < minLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", minLength),
		}
	}
	return nil
}

// ValidateDate returns an error unless the value is a YYYY-MM-DD date.
func ValidateDate(field, value string) *ValidationError {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return &ValidationError{
			Field:   field,
			Message: "must be a date in YYYY-MM-DD format",
		}
	}
	return nil
}

// ValidateClock returns an error unless the value is an HH:MM clock time.
func ValidateClock(field, value string) *ValidationError {
	if _, err := time.Parse("15:04", value); err != nil {
		return &ValidationError{
			Field:   field,
			Message: "must be a time in HH:MM format",
		}
	}
	return nil
}
