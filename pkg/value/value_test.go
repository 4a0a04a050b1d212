package value_test

import (
	"math"
	"math/big"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/pseudomuto/rowbinary/pkg/value"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	require.True(t, Null().IsNull())
	require.Equal(t, KindNull, Value{}.Kind())
	require.True(t, Bool(true).Bool())
	require.Equal(t, int64(-5), Int(-5).Int())
	require.Equal(t, uint64(math.MaxUint64), Uint(math.MaxUint64).Uint())
	require.Equal(t, 1.5, Float(1.5).Float())
	require.Equal(t, "x", String("x").String())
	require.Equal(t, int64(2), Enum("b", 2).Int())
	require.Equal(t, "b", Enum("b", 2).String())
	require.Equal(t, 3, Array(Int(1), Int(2), Int(3)).Len())
	require.Equal(t, 1, Map(Pair{Key: String("k"), Value: Null()}).Len())
	require.True(t, BigInt(nil).IsNull())

	// accessors of the wrong kind return zero values
	require.Zero(t, String("1").Int())
	require.Nil(t, Int(1).BigInt())
	require.Nil(t, Int(1).Bytes())
}

func TestValuesAreImmutable(t *testing.T) {
	t.Parallel()

	b := []byte{1, 2, 3}
	v := Bytes(b)
	b[0] = 9
	require.Equal(t, []byte{1, 2, 3}, v.Bytes())

	out := v.Bytes()
	out[1] = 9
	require.Equal(t, []byte{1, 2, 3}, v.Bytes())

	i := big.NewInt(10)
	bv := BigInt(i)
	i.SetInt64(11)
	require.Equal(t, int64(10), bv.BigInt().Int64())
	bv.BigInt().SetInt64(12)
	require.Equal(t, int64(10), bv.BigInt().Int64())

	items := []Value{Int(1), Int(2)}
	arr := Array(items...)
	items[0] = Int(7)
	require.True(t, arr.Index(0).Equal(Int(1)))

	got := arr.Items()
	got[1] = Int(8)
	require.True(t, arr.Index(1).Equal(Int(2)))
}

func TestEqual(t *testing.T) {
	u := uuid.MustParse("61f0c404-5cb3-11e7-907b-a6006ad3dba0")
	now := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{name: "null", a: Null(), b: Null(), equal: true},
		{name: "null and zero int", a: Null(), b: Int(0)},
		{name: "int and uint", a: Int(1), b: Uint(1)},
		{name: "floats", a: Float(0.1), b: Float(0.1), equal: true},
		{name: "nan", a: Float(math.NaN()), b: Float(math.NaN()), equal: true},
		{name: "big ints", a: BigInt(big.NewInt(-3)), b: BigInt(big.NewInt(-3)), equal: true},
		{name: "decimals with different exponents", a: Decimal(decimal.RequireFromString("1.50")), b: Decimal(decimal.RequireFromString("1.5")), equal: true},
		{name: "bytes", a: Bytes([]byte("ab")), b: Bytes([]byte("ab")), equal: true},
		{name: "string and bytes", a: String("ab"), b: Bytes([]byte("ab"))},
		{name: "times in different zones", a: Time(now), b: Time(now.In(time.FixedZone("X", 3600))), equal: true},
		{name: "uuids", a: UUID(u), b: UUID(u), equal: true},
		{name: "ips", a: IP(netip.MustParseAddr("10.0.0.1")), b: IP(netip.MustParseAddr("10.0.0.2"))},
		{name: "enums", a: Enum("a", 1), b: Enum("a", 2)},
		{name: "arrays", a: Array(Int(1), Null()), b: Array(Int(1), Null()), equal: true},
		{name: "array and tuple", a: Array(Int(1)), b: Tuple(Int(1))},
		{name: "arrays of different length", a: Array(Int(1)), b: Array(Int(1), Int(1))},
		{
			name:  "maps",
			a:     Map(Pair{Key: String("a"), Value: Int(1)}),
			b:     Map(Pair{Key: String("a"), Value: Int(1)}),
			equal: true,
		},
		{
			name: "maps with different values",
			a:    Map(Pair{Key: String("a"), Value: Int(1)}),
			b:    Map(Pair{Key: String("a"), Value: Int(2)}),
		},
		{
			name:  "nested",
			a:     Nested(Array(Uint(1)), Array(String("x"))),
			b:     Nested(Array(Uint(1)), Array(String("x"))),
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.equal, tt.a.Equal(tt.b))
			require.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{value: Null(), expected: "NULL"},
		{value: Bool(false), expected: "false"},
		{value: Int(-1), expected: "-1"},
		{value: Float(2.5), expected: "2.5"},
		{value: Decimal(decimal.RequireFromString("12.340")), expected: "12.34"},
		{value: Bytes([]byte{0xde, 0xad}), expected: "0xdead"},
		{value: IP(netip.MustParseAddr("::1")), expected: "::1"},
		{value: Array(Int(1), String("a"), Null()), expected: `[1, "a", NULL]`},
		{value: Tuple(Uint(1), Array()), expected: "(1, [])"},
		{value: Map(Pair{Key: String("k"), Value: Enum("on", 1)}), expected: `{"k": "on"}`},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestFromAny(t *testing.T) {
	u := uuid.New()

	tests := []struct {
		name     string
		input    any
		expected Value
	}{
		{name: "nil", input: nil, expected: Null()},
		{name: "bool", input: true, expected: Bool(true)},
		{name: "int", input: 3, expected: Int(3)},
		{name: "int8", input: int8(-3), expected: Int(-3)},
		{name: "uint16", input: uint16(3), expected: Uint(3)},
		{name: "float32", input: float32(0.5), expected: Float(0.5)},
		{name: "big int", input: big.NewInt(7), expected: BigInt(big.NewInt(7))},
		{name: "string", input: "s", expected: String("s")},
		{name: "bytes", input: []byte{1}, expected: Bytes([]byte{1})},
		{name: "uuid", input: u, expected: UUID(u)},
		{name: "nil bytes", input: []byte(nil), expected: Bytes(nil)},
		{name: "net.IP", input: net.ParseIP("10.0.0.1"), expected: IP(netip.MustParseAddr("10.0.0.1"))},
		{name: "value", input: Int(1), expected: Int(1)},
		{name: "slice", input: []any{1, "a", nil}, expected: Array(Int(1), String("a"), Null())},
		{
			name:  "map sorted by key",
			input: map[string]any{"b": 2, "a": 1},
			expected: Map(
				Pair{Key: String("a"), Value: Int(1)},
				Pair{Key: String("b"), Value: Int(2)},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := FromAny(tt.input)
			require.NoError(t, err)
			require.True(t, tt.expected.Equal(v), "got %s", v)
		})
	}

	_, err := FromAny(struct{}{})
	require.ErrorIs(t, err, ErrConversion)

	_, err = FromAny([]any{1, struct{}{}})
	require.ErrorIs(t, err, ErrConversion)
}

func TestAny(t *testing.T) {
	t.Parallel()

	require.Nil(t, Null().Any())
	require.Equal(t, int64(1), Int(1).Any())
	require.Equal(t, "on", Enum("on", 1).Any())
	require.Equal(t, []any{int64(1), "a"}, Tuple(Int(1), String("a")).Any())
	require.Equal(t, []any{[]any{"k", uint64(2)}}, Map(Pair{Key: String("k"), Value: Uint(2)}).Any())

	v, err := FromAny(Array(Int(1), Float(2)).Any())
	require.NoError(t, err)
	require.True(t, Array(Int(1), Float(2)).Equal(v))
}
