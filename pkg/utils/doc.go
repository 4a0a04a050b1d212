// Package utils provides small helpers shared across the rowbinary packages.
//
// # Identifier Utilities (identifier.go)
//
// Column and element names are rendered with backticks only when they are not plain
// identifiers, and backticked names coming out of the lexer are unescaped:
//
//	utils.QuoteIdentifier("user_id")    // user_id
//	utils.QuoteIdentifier("user id")    // `user id`
//	utils.UnquoteIdentifier("`a\\`b`")  // a`b
//
//	db := "analytics"
//	utils.BacktickQualifiedName(&db, "events") // `analytics`.`events`
//
// # String Literal Utilities (literal.go)
//
// Single-quoted literals such as enum names and timezones follow ClickHouse escaping rules:
//
//	utils.QuoteString("it's")       // 'it\'s'
//	utils.UnquoteString(`'it\'s'`)  // it's
package utils
