// Package parser provides a recursive-descent parser for ClickHouse column type declarations.
//
// Declarations are lexed with github.com/alecthomas/participle/v2/lexer and turned into a tree
// of ColumnType values. Nullable and LowCardinality are recorded as flags on the node they wrap,
// type names are resolved through a catalog.TypeCatalog and aggregate functions through a
// catalog.FunctionCatalog, so any alias registered there is accepted.
//
// Key features:
//   - Column lists as found in DESCRIBE output and CREATE TABLE bodies
//   - Trailing NULL / NOT NULL markers and discarded DEFAULT, CODEC, TTL ... clauses
//   - Named tuple elements, Nested columns and Map key/value types
//   - Enum tables, decimal precision/scale and DateTime timezones resolved after parsing
//   - Fixed and estimated byte lengths for every node
//   - Typed errors carrying the byte offset of the failure
//
// Basic usage:
//
//	// Parse a column list
//	cols, err := parser.ParseColumns("id UInt64, tags Array(LowCardinality(String)), ts DateTime64(3, 'UTC')")
//
//	// Parse a single type
//	ct, err := parser.ParseType("Map(String, Tuple(a UInt8, b Nullable(String)))")
//
//	// Resume parsing in a larger string
//	ct, next, err := parser.New(parser.Options{}).ParseColumnAt(input, offset)
//
// Errors are *parser.Error values wrapping one of the package sentinels, so callers can use
// errors.Is(err, parser.ErrArity) and friends.
package parser
