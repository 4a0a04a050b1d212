package rowbinary

import (
	"io"
	"math"
	"math/big"
	"time"

	"github.com/ClickHouse/ch-go/proto"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/catalog"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/value"
)

// Encoder writes RowBinary values to a stream. Each Encode or EncodeRow call is buffered and
// written with a single Write, so a failed call writes nothing.
type Encoder struct {
	w   io.Writer
	buf proto.Buffer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Marshal returns the encoding of v as a value of type ct.
func Marshal(ct *parser.ColumnType, v value.Value) ([]byte, error) {
	var buf proto.Buffer
	if err := encode(&buf, ct, v); err != nil {
		return nil, err
	}

	return buf.Buf, nil
}

// Encode writes v as a value of type ct. Values of a different kind are converted with
// value.Convert where the conversion is lossless.
func (e *Encoder) Encode(ct *parser.ColumnType, v value.Value) error {
	e.buf.Reset()
	if err := encode(&e.buf, ct, v); err != nil {
		return err
	}

	return e.flush()
}

// EncodeRow writes one value per column, in order.
func (e *Encoder) EncodeRow(cols []*parser.ColumnType, row []value.Value) error {
	if len(cols) != len(row) {
		return errors.Wrapf(ErrKindMismatch, "row has %d values for %d columns", len(row), len(cols))
	}

	e.buf.Reset()
	for i, ct := range cols {
		if err := encode(&e.buf, ct, row[i]); err != nil {
			return errors.Wrapf(err, "column %d (%s)", i, columnLabel(ct))
		}
	}

	return e.flush()
}

// EncodeString writes a uvarint length prefixed string.
func (e *Encoder) EncodeString(s string) error {
	e.buf.Reset()
	e.buf.PutString(s)
	return e.flush()
}

func (e *Encoder) flush() error {
	if _, err := e.w.Write(e.buf.Buf); err != nil {
		return errors.Wrap(err, "failed to write RowBinary")
	}

	return nil
}

func encode(b *proto.Buffer, ct *parser.ColumnType, v value.Value) error {
	if v.IsNull() {
		switch {
		case ct.IsNullable():
			b.PutUInt8(1)
			return nil
		case ct.Type() == catalog.Nothing:
			return nil
		}
		return errors.Wrapf(ErrKindMismatch, "NULL for non-nullable %s", ct)
	}

	if ct.IsNullable() {
		b.PutUInt8(0)
	}

	return encodeType(b, ct, v)
}

func encodeType(b *proto.Buffer, ct *parser.ColumnType, v value.Value) error {
	switch t := ct.Type(); t {
	case catalog.Nothing:
		return errors.Wrapf(ErrKindMismatch, "%s for Nothing", v.Kind())
	case catalog.Bool:
		v, err := convert(v, value.KindBool, ct)
		if err != nil {
			return err
		}
		b.PutBool(v.Bool())
	case catalog.Int8, catalog.Int16, catalog.Int32, catalog.Int64, catalog.IntervalYear,
		catalog.IntervalQuarter, catalog.IntervalMonth, catalog.IntervalWeek, catalog.IntervalDay,
		catalog.IntervalHour, catalog.IntervalMinute, catalog.IntervalSecond,
		catalog.IntervalMillisecond, catalog.IntervalMicrosecond, catalog.IntervalNanosecond:
		return encodeInt(b, ct, v)
	case catalog.UInt8, catalog.UInt16, catalog.UInt32, catalog.UInt64:
		return encodeUint(b, ct, v)
	case catalog.Int128, catalog.Int256, catalog.UInt128, catalog.UInt256:
		v, err := convert(v, value.KindBigInt, ct)
		if err != nil {
			return err
		}
		return putWide(b, v.BigInt(), ct.ByteWidth(), t == catalog.Int128 || t == catalog.Int256)
	case catalog.Float32:
		v, err := convert(v, value.KindFloat, ct)
		if err != nil {
			return err
		}
		b.PutFloat32(float32(v.Float()))
	case catalog.Float64:
		v, err := convert(v, value.KindFloat, ct)
		if err != nil {
			return err
		}
		b.PutFloat64(v.Float())
	case catalog.Decimal, catalog.Decimal32, catalog.Decimal64, catalog.Decimal128, catalog.Decimal256:
		v, err := convert(v, value.KindDecimal, ct)
		if err != nil {
			return err
		}
		scale := int32(ct.Scale())
		n := v.Decimal().Round(scale).Shift(scale).BigInt()
		if n.CmpAbs(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(ct.Precision())), nil)) >= 0 {
			return errors.Wrapf(ErrOverflow, "%s has more than %d digits for %s", v.Decimal(), ct.Precision(), ct)
		}
		return putWide(b, n, ct.ByteWidth(), true)
	case catalog.String:
		data, err := stringBytes(v, ct)
		if err != nil {
			return err
		}
		b.PutUVarInt(uint64(len(data)))
		b.PutRaw(data)
	case catalog.FixedString:
		data, err := stringBytes(v, ct)
		if err != nil {
			return err
		}
		if len(data) > ct.ByteWidth() {
			return errors.Wrapf(ErrOverflow, "%d bytes for %s", len(data), ct)
		}
		b.PutRaw(data)
		b.PutRaw(make([]byte, ct.ByteWidth()-len(data)))
	case catalog.UUID:
		v, err := convert(v, value.KindUUID, ct)
		if err != nil {
			return err
		}
		u := v.UUID()
		for i := 7; i >= 0; i-- {
			b.PutByte(u[i])
		}
		for i := 15; i >= 8; i-- {
			b.PutByte(u[i])
		}
	case catalog.IPv4:
		v, err := convert(v, value.KindIP, ct)
		if err != nil {
			return err
		}
		addr := v.IP().Unmap()
		if !addr.Is4() {
			return errors.Wrapf(ErrKindMismatch, "%s is not an IPv4 address", addr)
		}
		a := addr.As4()
		b.PutUInt32(uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3]))
	case catalog.IPv6:
		v, err := convert(v, value.KindIP, ct)
		if err != nil {
			return err
		}
		a := v.IP().As16()
		b.PutRaw(a[:])
	case catalog.Date, catalog.Date32, catalog.DateTime, catalog.DateTime32, catalog.DateTime64:
		return encodeTime(b, ct, v)
	case catalog.Enum8, catalog.Enum16:
		ordinal, err := enumOrdinal(ct, v)
		if err != nil {
			return err
		}
		if t == catalog.Enum8 {
			b.PutInt8(int8(ordinal))
		} else {
			b.PutInt16(int16(ordinal))
		}
	case catalog.Array:
		v, err := convert(v, value.KindArray, ct)
		if err != nil {
			return err
		}
		return encodeArray(b, ct.Child(0), v)
	case catalog.Map:
		if v.Kind() != value.KindMap {
			return mismatch(v, ct)
		}
		b.PutUVarInt(uint64(v.Len()))
		for i, p := range v.Pairs() {
			if err := encode(b, ct.Key(), p.Key); err != nil {
				return errors.Wrapf(err, "map key %d", i)
			}
			if err := encode(b, ct.Value(), p.Value); err != nil {
				return errors.Wrapf(err, "map value %d", i)
			}
		}
	case catalog.Tuple:
		v, err := convert(v, value.KindTuple, ct)
		if err != nil {
			return err
		}
		if v.Len() != ct.NumChildren() {
			return errors.Wrapf(ErrKindMismatch, "tuple of %d elements for %s", v.Len(), ct)
		}
		for i, child := range ct.Children() {
			if err := encode(b, child, v.Index(i)); err != nil {
				return errors.Wrapf(err, "tuple element %d", i)
			}
		}
	case catalog.Nested:
		return encodeNested(b, ct, v)
	case catalog.AggregateFunction, catalog.SimpleAggregateFunction:
		if vt := ct.ValueType(); vt != nil {
			return encode(b, vt, v)
		}
		if v.Kind() != value.KindBytes && v.Kind() != value.KindString {
			return mismatch(v, ct)
		}
		data := v.Bytes()
		b.PutUVarInt(uint64(len(data)))
		b.PutRaw(data)
	default:
		return errors.Wrapf(ErrUnsupportedType, "%s", ct)
	}

	return nil
}

func encodeInt(b *proto.Buffer, ct *parser.ColumnType, v value.Value) error {
	v, err := convert(v, value.KindInt, ct)
	if err != nil {
		return err
	}

	i := v.Int()
	bits := ct.ByteWidth() * 8
	if bits < 64 && (i < -1<<(bits-1) || i > 1<<(bits-1)-1) {
		return errors.Wrapf(ErrOverflow, "%d for %s", i, ct)
	}

	switch bits {
	case 8:
		b.PutInt8(int8(i))
	case 16:
		b.PutInt16(int16(i))
	case 32:
		b.PutInt32(int32(i))
	default:
		b.PutInt64(i)
	}

	return nil
}

func encodeUint(b *proto.Buffer, ct *parser.ColumnType, v value.Value) error {
	v, err := convert(v, value.KindUint, ct)
	if err != nil {
		return err
	}

	u := v.Uint()
	bits := ct.ByteWidth() * 8
	if bits < 64 && u > 1<<bits-1 {
		return errors.Wrapf(ErrOverflow, "%d for %s", u, ct)
	}

	switch bits {
	case 8:
		b.PutUInt8(uint8(u))
	case 16:
		b.PutUInt16(uint16(u))
	case 32:
		b.PutUInt32(uint32(u))
	default:
		b.PutUInt64(u)
	}

	return nil
}

func encodeTime(b *proto.Buffer, ct *parser.ColumnType, v value.Value) error {
	v, err := convert(v, value.KindTime, ct)
	if err != nil {
		return err
	}

	t := v.Time()
	switch ct.Type() {
	case catalog.Date:
		d := days(t)
		if d < 0 || d > math.MaxUint16 {
			return errors.Wrapf(ErrOverflow, "%s for %s", t.Format(time.DateOnly), ct)
		}
		b.PutUInt16(uint16(d))
	case catalog.Date32:
		d := days(t)
		if d < math.MinInt32 || d > math.MaxInt32 {
			return errors.Wrapf(ErrOverflow, "%s for %s", t.Format(time.DateOnly), ct)
		}
		b.PutInt32(int32(d))
	case catalog.DateTime64:
		ticks, ok := toTicks(t, ct.Scale())
		if !ok {
			return errors.Wrapf(ErrOverflow, "%s for %s", t.Format(time.RFC3339Nano), ct)
		}
		b.PutInt64(ticks)
	default:
		s := t.Unix()
		if s < 0 || s > math.MaxUint32 {
			return errors.Wrapf(ErrOverflow, "%s for %s", t.Format(time.RFC3339), ct)
		}
		b.PutUInt32(uint32(s))
	}

	return nil
}

func encodeArray(b *proto.Buffer, elem *parser.ColumnType, v value.Value) error {
	b.PutUVarInt(uint64(v.Len()))
	for i := 0; i < v.Len(); i++ {
		if err := encode(b, elem, v.Index(i)); err != nil {
			return errors.Wrapf(err, "array element %d", i)
		}
	}

	return nil
}

func encodeNested(b *proto.Buffer, ct *parser.ColumnType, v value.Value) error {
	if v.Kind() != value.KindNested || v.Len() != ct.NumChildren() {
		return mismatch(v, ct)
	}

	for i, child := range ct.Children() {
		col := v.Index(i)
		if col.Kind() != value.KindArray {
			return errors.Wrapf(ErrKindMismatch, "nested column %q is %s, not Array", child.Name(), col.Kind())
		}
		if col.Len() != v.Index(0).Len() {
			return errors.Wrapf(ErrNestedLength, "%q has %d rows, %q has %d",
				child.Name(), col.Len(), ct.Child(0).Name(), v.Index(0).Len())
		}
		if err := encodeArray(b, child, col); err != nil {
			return errors.Wrapf(err, "nested column %q", child.Name())
		}
	}

	return nil
}

func enumOrdinal(ct *parser.ColumnType, v value.Value) (int, error) {
	switch v.Kind() {
	case value.KindEnum, value.KindString:
		ordinal, ok := ct.EnumValue(v.String())
		if !ok {
			return 0, errors.Wrapf(ErrUnknownEnumOrdinal, "%q for %s", v.String(), ct)
		}
		return ordinal, nil
	case value.KindInt, value.KindUint:
		v, err := convert(v, value.KindInt, ct)
		if err != nil {
			return 0, err
		}
		if _, ok := ct.EnumName(int(v.Int())); !ok {
			return 0, errors.Wrapf(ErrUnknownEnumOrdinal, "ordinal %d for %s", v.Int(), ct)
		}
		return int(v.Int()), nil
	}

	return 0, mismatch(v, ct)
}

func stringBytes(v value.Value, ct *parser.ColumnType) ([]byte, error) {
	if v.Kind() == value.KindBytes {
		return v.Bytes(), nil
	}

	v, err := convert(v, value.KindString, ct)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

func putWide(b *proto.Buffer, n *big.Int, width int, signed bool) error {
	data, err := toLittleEndian(n, width, signed)
	if err != nil {
		return err
	}

	b.PutRaw(data)
	return nil
}

// convert coerces v to kind, reporting failures as ErrKindMismatch or ErrOverflow.
func convert(v value.Value, kind value.Kind, ct *parser.ColumnType) (value.Value, error) {
	if v.Kind() == kind {
		return v, nil
	}
	if !value.CanConvert(v.Kind(), kind) {
		return value.Value{}, mismatch(v, ct)
	}

	out, err := value.Convert(v, kind)
	if err != nil {
		return value.Value{}, errors.Wrapf(ErrOverflow, "%s for %s: %v", v, ct, err)
	}

	return out, nil
}

func mismatch(v value.Value, ct *parser.ColumnType) error {
	return errors.Wrapf(ErrKindMismatch, "%s for %s", v.Kind(), ct)
}
