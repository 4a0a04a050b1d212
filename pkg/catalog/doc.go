// Package catalog holds the immutable registries the type parser resolves names against.
//
// Two catalogs are provided:
//   - TypeCatalog: primitive and structural ClickHouse data types with their static metadata
//     (byte width, precision and scale bounds, signedness) and alternate spellings.
//   - FunctionCatalog: aggregate functions usable inside AggregateFunction and
//     SimpleAggregateFunction declarations, including argument limits and whether the
//     serialized state is simply the value of one argument.
//
// Both catalogs are built exactly once from static tables (DefaultTypes and DefaultFunctions)
// and never mutated afterwards, so they are safe for concurrent use. Registering the same
// spelling twice is reported by NewTypeCatalog/NewFunctionCatalog and is fatal for the
// package-level defaults.
//
// Name resolution is exact-match first, then case-folded. Case-folded matches are only
// honoured for descriptors that are not case sensitive:
//
//	id, err := catalog.DefaultTypes.Resolve("uint8")      // UInt8
//	id, err = catalog.DefaultTypes.Resolve("FixedString") // FixedString
//	_, err = catalog.DefaultTypes.Resolve("FIXEDSTRING")  // ErrUnknownType
package catalog
