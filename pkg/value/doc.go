// Package value provides Value, an immutable tagged container for data read from or written to
// ClickHouse columns.
//
// A Value carries exactly one Kind. Scalars are built with the kind-named constructors
// (value.Int, value.String, value.Decimal, ...) and composites from other values:
//
//	row := value.Tuple(
//	    value.Uint(42),
//	    value.Array(value.String("a"), value.String("b")),
//	    value.Map(value.Pair{Key: value.String("k"), Value: value.Null()}),
//	)
//
// Values never share mutable state with their callers: slices and big integers are copied on the
// way in and on the way out.
//
// FromAny and Value.Any bridge to native Go values, and Convert moves a value between kinds
// through a fixed (source, destination) conversion table.
package value
