package value

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pseudomuto/rowbinary/pkg/compare"
	"github.com/shopspring/decimal"
)

type (
	// Value is an immutable tagged variant. The zero Value is Null.
	Value struct {
		kind  Kind
		num   uint64 // Bool, Int, Uint, Float bits and Enum ordinal
		str   string // String and Enum name
		bin   []byte
		big   *big.Int
		dec   decimal.Decimal
		time  time.Time
		uuid  uuid.UUID
		ip    netip.Addr
		items []Value
		pairs []Pair
	}

	// Pair is a single Map entry.
	Pair struct {
		Key   Value
		Value Value
	}
)

// Null returns the NULL value.
func Null() Value { return Value{} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

func Int(i int64) Value { return Value{kind: KindInt, num: uint64(i)} }

func Uint(u uint64) Value { return Value{kind: KindUint, num: u} }

func Float(f float64) Value { return Value{kind: KindFloat, num: math.Float64bits(f)} }

// BigInt returns a BigInt value holding a copy of i. A nil i yields Null.
func BigInt(i *big.Int) Value {
	if i == nil {
		return Null()
	}

	return Value{kind: KindBigInt, big: new(big.Int).Set(i)}
}

func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }

func String(s string) Value { return Value{kind: KindString, str: s} }

// Bytes returns a Bytes value holding a copy of b.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, bin: append([]byte{}, b...)}
}

func Time(t time.Time) Value { return Value{kind: KindTime, time: t} }

func UUID(u uuid.UUID) Value { return Value{kind: KindUUID, uuid: u} }

// IP returns an IP value. IPv4-mapped IPv6 addresses are kept as given.
func IP(addr netip.Addr) Value { return Value{kind: KindIP, ip: addr} }

// Enum returns an enum entry with the given name and ordinal.
func Enum(name string, ordinal int) Value {
	return Value{kind: KindEnum, str: name, num: uint64(int64(ordinal))}
}

func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value{}, items...)}
}

func Tuple(items ...Value) Value {
	return Value{kind: KindTuple, items: append([]Value{}, items...)}
}

// Map returns a map value. Entry order is preserved.
func Map(pairs ...Pair) Value {
	return Value{kind: KindMap, pairs: append([]Pair{}, pairs...)}
}

// Nested returns a Nested value from one Array value per sub-column, in declaration order.
func Nested(columns ...Value) Value {
	return Value{kind: KindNested, items: append([]Value{}, columns...)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool { return v.kind == KindBool && v.num == 1 }

// Int returns the value of an Int, or the ordinal of an Enum.
func (v Value) Int() int64 {
	if v.kind != KindInt && v.kind != KindEnum {
		return 0
	}
	return int64(v.num)
}

func (v Value) Uint() uint64 {
	if v.kind != KindUint {
		return 0
	}
	return v.num
}

func (v Value) Float() float64 {
	if v.kind != KindFloat {
		return 0
	}
	return math.Float64frombits(v.num)
}

// BigInt returns a copy of the held integer, or nil for other kinds.
func (v Value) BigInt() *big.Int {
	if v.kind != KindBigInt {
		return nil
	}
	return new(big.Int).Set(v.big)
}

func (v Value) Decimal() decimal.Decimal { return v.dec }

// Bytes returns a copy of the held bytes. String values return their UTF-8 bytes.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindBytes:
		return append([]byte{}, v.bin...)
	case KindString:
		return []byte(v.str)
	}
	return nil
}

func (v Value) Time() time.Time { return v.time }

func (v Value) UUID() uuid.UUID { return v.uuid }

func (v Value) IP() netip.Addr { return v.ip }

// Len returns the number of elements of an Array, Tuple or Map, the number of sub-columns of a
// Nested value, and 0 otherwise.
func (v Value) Len() int {
	if v.kind == KindMap {
		return len(v.pairs)
	}
	return len(v.items)
}

// Index returns the i-th element of an Array, Tuple or Nested value.
func (v Value) Index(i int) Value { return v.items[i] }

// Items returns a copy of the elements of an Array, Tuple or Nested value.
func (v Value) Items() []Value { return append([]Value(nil), v.items...) }

// Pairs returns a copy of the entries of a Map value.
func (v Value) Pairs() []Pair { return append([]Pair(nil), v.pairs...) }

// Equal reports whether two values have the same kind and content. Floats compare by bit pattern
// so NaN equals NaN; times compare as instants.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool, KindInt, KindUint, KindFloat:
		return v.num == other.num
	case KindBigInt:
		return compare.PointersWithEqual(v.big, other.big, func(a, b *big.Int) bool { return a.Cmp(b) == 0 })
	case KindDecimal:
		return v.dec.Equal(other.dec)
	case KindString:
		return v.str == other.str
	case KindBytes:
		return bytes.Equal(v.bin, other.bin)
	case KindTime:
		return v.time.Equal(other.time)
	case KindUUID:
		return v.uuid == other.uuid
	case KindIP:
		return v.ip == other.ip
	case KindEnum:
		return v.str == other.str && v.num == other.num
	case KindMap:
		return compare.Slices(v.pairs, other.pairs, func(a, b Pair) bool {
			return a.Key.Equal(b.Key) && a.Value.Equal(b.Value)
		})
	}

	return compare.Slices(v.items, other.items, Value.Equal)
}

// String renders the value for humans: strings and enum names as-is, composites in bracketed
// form such as [1, 2] or {'k': 'v'}.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb, false)
	return sb.String()
}

func (v Value) format(sb *strings.Builder, quote bool) {
	switch v.kind {
	case KindNull:
		sb.WriteString("NULL")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool()))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case KindUint:
		sb.WriteString(strconv.FormatUint(v.num, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case KindBigInt:
		sb.WriteString(v.big.String())
	case KindDecimal:
		sb.WriteString(v.dec.String())
	case KindString, KindEnum:
		if quote {
			sb.WriteString(strconv.Quote(v.str))
		} else {
			sb.WriteString(v.str)
		}
	case KindBytes:
		fmt.Fprintf(sb, "0x%x", v.bin)
	case KindTime:
		sb.WriteString(v.time.Format(time.RFC3339Nano))
	case KindUUID:
		sb.WriteString(v.uuid.String())
	case KindIP:
		sb.WriteString(v.ip.String())
	case KindArray, KindNested:
		formatItems(sb, "[", v.items, "]")
	case KindTuple:
		formatItems(sb, "(", v.items, ")")
	case KindMap:
		sb.WriteString("{")
		for i, p := range v.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.Key.format(sb, true)
			sb.WriteString(": ")
			p.Value.format(sb, true)
		}
		sb.WriteString("}")
	}
}

func formatItems(sb *strings.Builder, open string, items []Value, close string) {
	sb.WriteString(open)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		item.format(sb, true)
	}
	sb.WriteString(close)
}
