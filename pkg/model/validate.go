package model

import "regexp"

// ValidationError is a field-level rejection. It is an ordinary outcome, not a fault:
// nothing is written when one is returned.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Textual defense-in-depth filter, not a sanitizer. Values carrying these substrings
// are rejected outright instead of being escaped.
var injectionPattern = regexp.MustCompile(`(?i)<script|javascript:|data:`)

func containsInjection(s string) bool {
	return injectionPattern.MatchString(s)
}
