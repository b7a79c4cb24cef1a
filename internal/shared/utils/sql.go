package utils

import "strings"

// JoinWithAnd joins WHERE clauses with AND.
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
