package pagekeep

import "strings"

// Normalize collapses every run of whitespace into a single space and trims
// the result. Nil and blank inputs return nil. Normalize is idempotent.
func Normalize(s *string) *string {
	if s == nil {
		return nil
	}
	return NormalizeString(*s)
}

// NormalizeString is Normalize for a plain string.
func NormalizeString(s string) *string {
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		return nil
	}
	return &out
}
