package utils

import "strings"

// QuoteIdentifier returns name unchanged when it is a plain identifier and backticks it
// otherwise. Backticks and backslashes inside the name are escaped.
//
// Examples:
//   - "user_id" -> "user_id"
//   - "user id" -> "`user id`"
//   - "n.key" -> "`n.key`"
//   - "a`b" -> "`a\`b`"
func QuoteIdentifier(name string) string {
	if isPlainIdentifier(name) {
		return name
	}

	return BacktickIdentifier(name)
}

// BacktickIdentifier wraps name in backticks, escaping embedded backticks and backslashes.
//
// Examples:
//   - "table" -> "`table`"
//   - "my table" -> "`my table`"
//   - "" -> ""
func BacktickIdentifier(name string) string {
	if name == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(name) + 2)
	sb.WriteByte('`')
	for i := 0; i < len(name); i++ {
		if name[i] == '`' || name[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(name[i])
	}
	sb.WriteByte('`')

	return sb.String()
}

// BacktickQualifiedName formats a qualified name (database.name) with proper backticks.
// If database is nil or empty, only the name is backticked.
//
// Examples:
//   - ("analytics", "events") -> "`analytics`.`events`"
//   - (nil, "events") -> "`events`"
func BacktickQualifiedName(database *string, name string) string {
	if database != nil && *database != "" {
		return BacktickIdentifier(*database) + "." + BacktickIdentifier(name)
	}
	return BacktickIdentifier(name)
}

// IsBackticked checks if a string is a single identifier wrapped in backticks.
//
// Examples:
//   - "`table`" -> true
//   - "table" -> false
//   - "`db`.`table`" -> false (qualified name, not a single backticked identifier)
func IsBackticked(s string) bool {
	if len(s) < 2 || s[0] != '`' || s[len(s)-1] != '`' {
		return false
	}

	inner := s[1 : len(s)-1]
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '\\':
			i++
		case '`':
			if i+1 >= len(inner) || inner[i+1] != '`' {
				return false
			}
			i++
		}
	}

	return true
}

// UnquoteIdentifier removes the surrounding backticks from s and resolves backslash escapes and
// doubled backticks.
// Strings that are not backticked are returned as-is.
//
// Examples:
//   - "`table`" -> "table"
//   - "`a\`b`" -> "a`b"
//   - "table" -> "table"
func UnquoteIdentifier(s string) string {
	if !IsBackticked(s) {
		return s
	}

	return unescape(s[1:len(s)-1], '`')
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
