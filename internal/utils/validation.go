package utils

import "strings"

const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?`~"

// HasSpecialChar reports whether s contains at least one punctuation character.
func HasSpecialChar(s string) bool {
	return strings.ContainsAny(s, specialChars)
}
