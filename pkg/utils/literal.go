package utils

import "strings"

var literalEscapes = map[byte]byte{
	'\'': '\'',
	'\\': '\\',
	'\n': 'n',
	'\t': 't',
	'\r': 'r',
	0:    '0',
	'\b': 'b',
	'\f': 'f',
}

var literalUnescapes = map[byte]byte{
	'n': '\n',
	't': '\t',
	'r': '\r',
	'0': 0,
	'b': '\b',
	'f': '\f',
}

// QuoteString renders s as a single-quoted ClickHouse string literal.
//
// Examples:
//   - "abc" -> "'abc'"
//   - "it's" -> "'it\'s'"
//   - "a\nb" -> "'a\nb'" (escaped)
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if esc, ok := literalEscapes[s[i]]; ok {
			sb.WriteByte('\\')
			sb.WriteByte(esc)
			continue
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('\'')

	return sb.String()
}

// UnquoteString strips the surrounding single quotes from s and resolves backslash escapes and
// doubled quotes. Strings that are not quoted are returned as-is.
//
// Examples:
//   - "'abc'" -> "abc"
//   - "'it\\'s'" -> "it's"
//   - "'a\tb'" -> "a<TAB>b"
func UnquoteString(s string) string {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return s
	}

	return unescape(s[1:len(s)-1], '\'')
}

// unescape resolves backslash escapes and doubled quote characters.
func unescape(s string, quote byte) string {
	if !strings.ContainsAny(s, "\\"+string(quote)) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			if u, ok := literalUnescapes[s[i]]; ok {
				sb.WriteByte(u)
			} else {
				sb.WriteByte(s[i])
			}
		case c == quote && i+1 < len(s) && s[i+1] == quote:
			i++
			sb.WriteByte(quote)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}
