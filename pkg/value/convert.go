package value

import (
	"math"
	"math/big"
	"net/netip"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	conversionKey struct{ from, to Kind }
	conversion    func(Value) (Value, error)
)

var conversions = map[conversionKey]conversion{
	{KindBool, KindInt}:    func(v Value) (Value, error) { return Int(int64(v.num)), nil },
	{KindBool, KindUint}:   func(v Value) (Value, error) { return Uint(v.num), nil },
	{KindBool, KindString}: func(v Value) (Value, error) { return String(strconv.FormatBool(v.Bool())), nil },

	{KindInt, KindBool}:    func(v Value) (Value, error) { return Bool(v.Int() != 0), nil },
	{KindInt, KindUint}:    intToUint,
	{KindInt, KindFloat}:   func(v Value) (Value, error) { return Float(float64(v.Int())), nil },
	{KindInt, KindBigInt}:  func(v Value) (Value, error) { return BigInt(big.NewInt(v.Int())), nil },
	{KindInt, KindDecimal}: func(v Value) (Value, error) { return Decimal(decimal.NewFromInt(v.Int())), nil },
	{KindInt, KindString}:  func(v Value) (Value, error) { return String(strconv.FormatInt(v.Int(), 10)), nil },
	{KindInt, KindTime}:    func(v Value) (Value, error) { return Time(time.Unix(v.Int(), 0).UTC()), nil },

	{KindUint, KindBool}:   func(v Value) (Value, error) { return Bool(v.num != 0), nil },
	{KindUint, KindInt}:    uintToInt,
	{KindUint, KindFloat}:  func(v Value) (Value, error) { return Float(float64(v.num)), nil },
	{KindUint, KindBigInt}: func(v Value) (Value, error) { return BigInt(new(big.Int).SetUint64(v.num)), nil },
	{KindUint, KindDecimal}: func(v Value) (Value, error) {
		return Decimal(decimal.NewFromBigInt(new(big.Int).SetUint64(v.num), 0)), nil
	},
	{KindUint, KindString}: func(v Value) (Value, error) { return String(strconv.FormatUint(v.num, 10)), nil },
	{KindUint, KindTime}:   uintToTime,

	{KindFloat, KindInt}:     floatToInt,
	{KindFloat, KindUint}:    floatToUint,
	{KindFloat, KindBigInt}:  floatToBigInt,
	{KindFloat, KindDecimal}: floatToDecimal,
	{KindFloat, KindString}:  func(v Value) (Value, error) { return String(strconv.FormatFloat(v.Float(), 'g', -1, 64)), nil },

	{KindBigInt, KindInt}:     bigToInt,
	{KindBigInt, KindUint}:    bigToUint,
	{KindBigInt, KindFloat}:   bigToFloat,
	{KindBigInt, KindDecimal}: func(v Value) (Value, error) { return Decimal(decimal.NewFromBigInt(v.big, 0)), nil },
	{KindBigInt, KindString}:  func(v Value) (Value, error) { return String(v.big.String()), nil },

	{KindDecimal, KindInt}:    decimalToInt,
	{KindDecimal, KindUint}:   decimalToUint,
	{KindDecimal, KindFloat}:  func(v Value) (Value, error) { return Float(v.dec.InexactFloat64()), nil },
	{KindDecimal, KindBigInt}: decimalToBigInt,
	{KindDecimal, KindString}: func(v Value) (Value, error) { return String(v.dec.String()), nil },

	{KindString, KindBool}:    parseBool,
	{KindString, KindInt}:     parseInt,
	{KindString, KindUint}:    parseUint,
	{KindString, KindFloat}:   parseFloat,
	{KindString, KindBigInt}:  parseBigInt,
	{KindString, KindDecimal}: parseDecimal,
	{KindString, KindBytes}:   func(v Value) (Value, error) { return Value{kind: KindBytes, bin: []byte(v.str)}, nil },
	{KindString, KindTime}:    parseTime,
	{KindString, KindUUID}:    parseUUID,
	{KindString, KindIP}:      parseIP,

	{KindBytes, KindString}: func(v Value) (Value, error) { return String(string(v.bin)), nil },

	{KindTime, KindInt}:    func(v Value) (Value, error) { return Int(v.time.Unix()), nil },
	{KindTime, KindString}: func(v Value) (Value, error) { return String(v.time.Format(time.RFC3339Nano)), nil },

	{KindUUID, KindString}: func(v Value) (Value, error) { return String(v.uuid.String()), nil },
	{KindIP, KindString}:   func(v Value) (Value, error) { return String(v.ip.String()), nil },

	{KindEnum, KindString}: func(v Value) (Value, error) { return String(v.str), nil },
	{KindEnum, KindInt}:    func(v Value) (Value, error) { return Int(v.Int()), nil },

	{KindTuple, KindArray}: func(v Value) (Value, error) { return Array(v.items...), nil },
	{KindArray, KindTuple}: func(v Value) (Value, error) { return Tuple(v.items...), nil },
}

// Convert returns v as a value of kind to. Values already of that kind and Null are returned
// unchanged. Lossy numeric conversions (out of range, fractional to integer) fail with
// ErrConversion.
func Convert(v Value, to Kind) (Value, error) {
	if v.kind == to || v.kind == KindNull {
		return v, nil
	}

	conv, ok := conversions[conversionKey{v.kind, to}]
	if !ok {
		return Value{}, errors.Wrapf(ErrConversion, "no conversion from %s to %s", v.kind, to)
	}

	out, err := conv(v)
	if err != nil {
		return Value{}, errors.Wrapf(err, "%s %s to %s", v.kind, v, to)
	}

	return out, nil
}

// CanConvert reports whether the table has an entry from one kind to another.
func CanConvert(from, to Kind) bool {
	if from == to || from == KindNull {
		return true
	}

	_, ok := conversions[conversionKey{from, to}]
	return ok
}

func outOfRange() error {
	return errors.Wrap(ErrConversion, "out of range")
}

func intToUint(v Value) (Value, error) {
	if v.Int() < 0 {
		return Value{}, outOfRange()
	}
	return Uint(uint64(v.Int())), nil
}

func uintToInt(v Value) (Value, error) {
	if v.num > math.MaxInt64 {
		return Value{}, outOfRange()
	}
	return Int(int64(v.num)), nil
}

func uintToTime(v Value) (Value, error) {
	if v.num > math.MaxInt64 {
		return Value{}, outOfRange()
	}
	return Time(time.Unix(int64(v.num), 0).UTC()), nil
}

func floatToInt(v Value) (Value, error) {
	f := v.Float()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return Value{}, outOfRange()
	}
	return Int(int64(f)), nil
}

func floatToUint(v Value) (Value, error) {
	f := v.Float()
	if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
		return Value{}, outOfRange()
	}
	return Uint(uint64(f)), nil
}

func floatToBigInt(v Value) (Value, error) {
	f := v.Float()
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return Value{}, outOfRange()
	}

	i, _ := big.NewFloat(f).Int(nil)
	return BigInt(i), nil
}

func floatToDecimal(v Value) (Value, error) {
	f := v.Float()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, outOfRange()
	}
	return Decimal(decimal.NewFromFloat(f)), nil
}

func bigToInt(v Value) (Value, error) {
	if !v.big.IsInt64() {
		return Value{}, outOfRange()
	}
	return Int(v.big.Int64()), nil
}

func bigToFloat(v Value) (Value, error) {
	f, _ := new(big.Float).SetInt(v.big).Float64()
	return Float(f), nil
}

func bigToUint(v Value) (Value, error) {
	if !v.big.IsUint64() {
		return Value{}, outOfRange()
	}
	return Uint(v.big.Uint64()), nil
}

func decimalToBigInt(v Value) (Value, error) {
	if !v.dec.IsInteger() {
		return Value{}, outOfRange()
	}
	return BigInt(v.dec.BigInt()), nil
}

func decimalToInt(v Value) (Value, error) {
	b, err := decimalToBigInt(v)
	if err != nil {
		return Value{}, err
	}
	return bigToInt(b)
}

func decimalToUint(v Value) (Value, error) {
	b, err := decimalToBigInt(v)
	if err != nil {
		return Value{}, err
	}
	return bigToUint(b)
}

func parseBool(v Value) (Value, error) {
	b, err := strconv.ParseBool(v.str)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return Bool(b), nil
}

func parseInt(v Value) (Value, error) {
	i, err := strconv.ParseInt(v.str, 10, 64)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return Int(i), nil
}

func parseUint(v Value) (Value, error) {
	u, err := strconv.ParseUint(v.str, 10, 64)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return Uint(u), nil
}

func parseFloat(v Value) (Value, error) {
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return Float(f), nil
}

func parseBigInt(v Value) (Value, error) {
	i, ok := new(big.Int).SetString(v.str, 10)
	if !ok {
		return Value{}, errors.Wrapf(ErrConversion, "invalid integer %q", v.str)
	}
	return BigInt(i), nil
}

func parseDecimal(v Value) (Value, error) {
	d, err := decimal.NewFromString(v.str)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return Decimal(d), nil
}

// timeLayouts are tried in order when parsing a string as a time.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02"}

func parseTime(v Value) (Value, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v.str); err == nil {
			return Time(t), nil
		}
	}
	return Value{}, errors.Wrapf(ErrConversion, "invalid time %q", v.str)
}

func parseUUID(v Value) (Value, error) {
	u, err := uuid.Parse(v.str)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return UUID(u), nil
}

func parseIP(v Value) (Value, error) {
	addr, err := netip.ParseAddr(v.str)
	if err != nil {
		return Value{}, errors.Wrap(ErrConversion, err.Error())
	}
	return IP(addr), nil
}
