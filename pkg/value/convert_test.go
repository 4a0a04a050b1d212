package value_test

import (
	"math"
	"math/big"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/pseudomuto/rowbinary/pkg/value"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	huge, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)

	tests := []struct {
		name     string
		input    Value
		to       Kind
		expected Value
	}{
		{name: "same kind", input: Int(1), to: KindInt, expected: Int(1)},
		{name: "null passes through", input: Null(), to: KindString, expected: Null()},
		{name: "bool to uint", input: Bool(true), to: KindUint, expected: Uint(1)},
		{name: "int to uint", input: Int(5), to: KindUint, expected: Uint(5)},
		{name: "int to float", input: Int(-2), to: KindFloat, expected: Float(-2)},
		{name: "int to decimal", input: Int(12), to: KindDecimal, expected: Decimal(decimal.NewFromInt(12))},
		{name: "int to time", input: Int(86400), to: KindTime, expected: Time(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC))},
		{name: "uint to int", input: Uint(7), to: KindInt, expected: Int(7)},
		{name: "uint to big int", input: Uint(math.MaxUint64), to: KindBigInt, expected: BigInt(new(big.Int).SetUint64(math.MaxUint64))},
		{name: "integral float to int", input: Float(3), to: KindInt, expected: Int(3)},
		{name: "float to decimal", input: Float(1.25), to: KindDecimal, expected: Decimal(decimal.RequireFromString("1.25"))},
		{name: "big int to int", input: BigInt(big.NewInt(-9)), to: KindInt, expected: Int(-9)},
		{name: "big int to string", input: BigInt(huge), to: KindString, expected: String(huge.String())},
		{name: "decimal to float", input: Decimal(decimal.RequireFromString("0.5")), to: KindFloat, expected: Float(0.5)},
		{name: "integral decimal to int", input: Decimal(decimal.RequireFromString("42.000")), to: KindInt, expected: Int(42)},
		{name: "string to int", input: String("-12"), to: KindInt, expected: Int(-12)},
		{name: "string to uint", input: String("12"), to: KindUint, expected: Uint(12)},
		{name: "string to big int", input: String(huge.String()), to: KindBigInt, expected: BigInt(huge)},
		{name: "string to decimal", input: String("3.14"), to: KindDecimal, expected: Decimal(decimal.RequireFromString("3.14"))},
		{name: "string to bool", input: String("true"), to: KindBool, expected: Bool(true)},
		{name: "string to bytes", input: String("ab"), to: KindBytes, expected: Bytes([]byte("ab"))},
		{
			name:     "string to uuid",
			input:    String("61f0c404-5cb3-11e7-907b-a6006ad3dba0"),
			to:       KindUUID,
			expected: UUID(uuid.MustParse("61f0c404-5cb3-11e7-907b-a6006ad3dba0")),
		},
		{name: "string to ipv4", input: String("192.168.0.1"), to: KindIP, expected: IP(netip.MustParseAddr("192.168.0.1"))},
		{name: "string to ipv6", input: String("2001:db8::1"), to: KindIP, expected: IP(netip.MustParseAddr("2001:db8::1"))},
		{name: "rfc3339 string to time", input: String("2024-05-06T07:08:09Z"), to: KindTime, expected: Time(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))},
		{name: "clickhouse string to time", input: String("2024-05-06 07:08:09.5"), to: KindTime, expected: Time(time.Date(2024, 5, 6, 7, 8, 9, 5e8, time.UTC))},
		{name: "date string to time", input: String("2024-05-06"), to: KindTime, expected: Time(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))},
		{name: "bytes to string", input: Bytes([]byte("ab")), to: KindString, expected: String("ab")},
		{name: "time to int", input: Time(time.Unix(100, 0)), to: KindInt, expected: Int(100)},
		{name: "enum to string", input: Enum("on", 1), to: KindString, expected: String("on")},
		{name: "enum to int", input: Enum("on", 1), to: KindInt, expected: Int(1)},
		{name: "tuple to array", input: Tuple(Int(1)), to: KindArray, expected: Array(Int(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Convert(tt.input, tt.to)
			require.NoError(t, err)
			require.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			require.True(t, CanConvert(tt.input.Kind(), tt.to))
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		to    Kind
	}{
		{name: "negative int to uint", input: Int(-1), to: KindUint},
		{name: "large uint to int", input: Uint(math.MaxUint64), to: KindInt},
		{name: "fractional float to int", input: Float(1.5), to: KindInt},
		{name: "nan to decimal", input: Float(math.NaN()), to: KindDecimal},
		{name: "fractional decimal to int", input: Decimal(decimal.RequireFromString("1.5")), to: KindInt},
		{name: "huge big int to int", input: BigInt(new(big.Int).Lsh(big.NewInt(1), 100)), to: KindInt},
		{name: "bad int string", input: String("abc"), to: KindInt},
		{name: "bad uuid string", input: String("abc"), to: KindUUID},
		{name: "bad ip string", input: String("300.1.1.1"), to: KindIP},
		{name: "bad time string", input: String("yesterday"), to: KindTime},
		{name: "no conversion", input: UUID(uuid.New()), to: KindInt},
		{name: "map to array", input: Map(), to: KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Convert(tt.input, tt.to)
			require.ErrorIs(t, err, ErrConversion)
		})
	}

	require.False(t, CanConvert(KindUUID, KindInt))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Decimal", KindDecimal.String())
	require.Equal(t, "Kind(200)", Kind(200).String())
	require.True(t, KindMap.IsComposite())
	require.False(t, KindString.IsComposite())
}
