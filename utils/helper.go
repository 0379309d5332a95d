package utils

import "strings"

// StringPtr returns a pointer to the string value
func StringPtr(s string) *string {
	return &s
}

// NullIfWhiteSpace trims s and returns nil when nothing is left, so an
// all-whitespace field normalizes to "absent".
func NullIfWhiteSpace(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Truncate caps s at maxLen bytes.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
