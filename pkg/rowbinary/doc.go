// Package rowbinary encodes and decodes values in ClickHouse's RowBinary format.
//
// Encoding is driven entirely by a parsed type: a Decoder reads exactly the bytes of one value of
// a *parser.ColumnType and an Encoder writes them. Primitive reads and writes go through
// github.com/ClickHouse/ch-go/proto.
//
//	ct, _ := parser.ParseType("Array(UInt8)")
//	data, _ := rowbinary.Marshal(ct, value.Array(value.Uint(1), value.Uint(2)))
//	// data == []byte{0x02, 0x01, 0x02}
//
// Wire rules:
//   - Nullable: one byte, 0 when a value follows and 1 for NULL
//   - String: uvarint length then the raw bytes; FixedString(N): exactly N bytes
//   - Array and Map: uvarint element count then the elements (key, value for maps)
//   - Tuple: the elements in order without a count
//   - Nested: one array per sub-column, all of the same length
//   - Enum8/Enum16: the signed ordinal
//   - Decimal: signed 32, 64, 128 or 256 bit integer scaled by 10^scale
//   - Int128/256 and UInt128/256: little endian two's complement
//   - UUID: two little endian 64 bit halves; IPv4: little endian uint32; IPv6: 16 bytes
//   - Date: uint16 days, Date32: int32 days, DateTime: uint32 seconds, DateTime64(p): int64 ticks
//   - AggregateFunction: the argument's encoding for single value functions, otherwise the
//     opaque state as a uvarint length prefixed blob
//
// Reader and Writer add the RowBinaryWithNames and RowBinaryWithNamesAndTypes headers on top of
// the codec.
package rowbinary
