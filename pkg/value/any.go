package value

import (
	"math/big"
	"net"
	"net/netip"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrConversion is returned when a Go value or another Value cannot be represented as the
// requested kind.
var ErrConversion = errors.New("value conversion failed")

// FromAny wraps a native Go value. Slices of any become Arrays and maps with string keys become
// Maps ordered by key, which matches what YAML and JSON decoders produce.
func FromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case *big.Int:
		return BigInt(x), nil
	case big.Int:
		return BigInt(&x), nil
	case decimal.Decimal:
		return Decimal(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case time.Time:
		return Time(x), nil
	case uuid.UUID:
		return UUID(x), nil
	case netip.Addr:
		return IP(x), nil
	case net.IP:
		addr, ok := netip.AddrFromSlice(x)
		if !ok {
			return Value{}, errors.Wrapf(ErrConversion, "invalid IP %v", x)
		}
		return IP(addr.Unmap()), nil
	case []Value:
		return Array(x...), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, errors.Wrapf(err, "element %d", i)
			}
			items[i] = v
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			v, err := FromAny(x[k])
			if err != nil {
				return Value{}, errors.Wrapf(err, "key %q", k)
			}
			pairs[i] = Pair{Key: String(k), Value: v}
		}
		return Value{kind: KindMap, pairs: pairs}, nil
	}

	return Value{}, errors.Wrapf(ErrConversion, "unsupported Go type %T", x)
}

// Any unwraps v into a native Go value: nil, bool, int64, uint64, float64, *big.Int,
// decimal.Decimal, string, []byte, time.Time, uuid.UUID, netip.Addr, []any for Array, Tuple and
// Nested values, and []any of two element []any key/value pairs for Map values. Enum values
// return their name.
func (v Value) Any() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindUint:
		return v.Uint()
	case KindFloat:
		return v.Float()
	case KindBigInt:
		return v.BigInt()
	case KindDecimal:
		return v.dec
	case KindString, KindEnum:
		return v.str
	case KindBytes:
		return v.Bytes()
	case KindTime:
		return v.time
	case KindUUID:
		return v.uuid
	case KindIP:
		return v.ip
	case KindMap:
		out := make([]any, len(v.pairs))
		for i, p := range v.pairs {
			out[i] = []any{p.Key.Any(), p.Value.Any()}
		}
		return out
	}

	out := make([]any, len(v.items))
	for i, item := range v.items {
		out[i] = item.Any()
	}
	return out
}
