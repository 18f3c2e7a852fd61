package domain

import "strings"

// NormalizeName trims leading/trailing whitespace and collapses internal
// whitespace runs. Applied to user-entered names (trips, activities, stays).
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
