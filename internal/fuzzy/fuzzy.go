// Package fuzzy provides the text comparison used to reconcile AI
// paraphrases with stored entries.
package fuzzy

import "strings"

// Normalize lowercases a string, trims it, and collapses internal
// whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Similar reports whether two strings are equivalent after
// normalization, or whether the shorter one is contained in the longer.
// Containment only counts when the shorter string is longer than three
// characters, so short tokens never match by substring.
func Similar(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	return len(shorter) > 3 && strings.Contains(longer, shorter)
}
