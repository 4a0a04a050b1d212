package value

import "strconv"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	// KindBigInt holds 128 and 256 bit integers.
	KindBigInt
	KindDecimal
	KindString
	// KindBytes holds opaque binary data such as aggregate function states.
	KindBytes
	KindTime
	KindUUID
	KindIP
	// KindEnum holds an enum entry as its name and ordinal.
	KindEnum
	KindArray
	KindTuple
	KindMap
	// KindNested holds one array per sub-column.
	KindNested
)

var kindNames = [...]string{
	KindNull:    "Null",
	KindBool:    "Bool",
	KindInt:     "Int",
	KindUint:    "Uint",
	KindFloat:   "Float",
	KindBigInt:  "BigInt",
	KindDecimal: "Decimal",
	KindString:  "String",
	KindBytes:   "Bytes",
	KindTime:    "Time",
	KindUUID:    "UUID",
	KindIP:      "IP",
	KindEnum:    "Enum",
	KindArray:   "Array",
	KindTuple:   "Tuple",
	KindMap:     "Map",
	KindNested:  "Nested",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsComposite reports whether values of this kind contain other values.
func (k Kind) IsComposite() bool {
	return k >= KindArray
}
