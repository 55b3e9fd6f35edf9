// Package validate collects field-level input errors.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zulandar/satchel/internal/apperr"
)

// Limits shared by assignments and notes.
const (
	MaxTitle       = 200
	MaxSubject     = 100
	MaxDescription = 1000
	MaxContent     = 10000
	MaxTags        = 20
	MaxTagLen      = 50
	MaxQuery       = 100
)

// Checker accumulates field errors. The zero value is ready to use.
type Checker struct {
	errs []apperr.FieldError
}

// Add records a failure for field.
func (c *Checker) Add(field, msg string) {
	c.errs = append(c.errs, apperr.FieldError{Field: field, Message: msg})
}

// Addf records a formatted failure for field.
func (c *Checker) Addf(field, format string, args ...any) {
	c.Add(field, fmt.Sprintf(format, args...))
}

// Required fails when value is blank. It reports whether value was present.
func (c *Checker) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.Addf(field, "%s is required", field)
		return false
	}
	return true
}

// NotBlank fails when an explicitly provided value is blank.
func (c *Checker) NotBlank(field string, value *string) {
	if value != nil && strings.TrimSpace(*value) == "" {
		c.Addf(field, "%s must not be empty", field)
	}
}

// MaxLen fails when the trimmed value has more than max characters.
func (c *Checker) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		c.Addf(field, "%s must be %d characters or less", field, max)
	}
}

// Tags enforces the tag count and per-tag length limits.
func (c *Checker) Tags(tags []string) {
	if len(tags) > MaxTags {
		c.Addf("tags", "cannot have more than %d tags", MaxTags)
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > MaxTagLen {
			c.Addf("tags", "each tag must be %d characters or less", MaxTagLen)
			return
		}
	}
}

// Query validates a free-text search term and returns it trimmed.
func (c *Checker) Query(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		c.Add("q", "search query is required")
		return q
	}
	if utf8.RuneCountInString(q) > MaxQuery {
		c.Addf("q", "search query must be %d characters or less", MaxQuery)
	}
	return q
}

// Err returns a validation error listing every failure, or nil.
func (c *Checker) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return apperr.Validation(c.errs...)
}
