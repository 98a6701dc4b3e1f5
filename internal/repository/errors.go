package repository

import "strings"

// inClause joins pre-built "?" placeholders with commas for use inside an
// IN (...) fragment.
func inClause(placeholders []string) string {
	return strings.Join(placeholders, ",")
}