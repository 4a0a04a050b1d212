package rowbinary

import (
	"bufio"
	"bytes"
	"io"
	"math/big"
	"net/netip"
	"time"

	"github.com/ClickHouse/ch-go/proto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/catalog"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/value"
	"github.com/shopspring/decimal"
)

// readerSize matches the buffer proto.NewReader asks for, so that it reuses the Decoder's
// bufio.Reader instead of reading ahead behind it.
const readerSize = 128 << 10

// maxPrealloc bounds the capacity reserved up front for arrays, maps and strings so that a corrupt
// length prefix cannot trigger a huge allocation before the stream runs dry.
const maxPrealloc = 1 << 16

// Decoder reads RowBinary values from a stream. A Decoder buffers its input, so the underlying
// reader must not be used by anything else while the Decoder is in use.
type Decoder struct {
	br *bufio.Reader
	r  *proto.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	br := bufio.NewReaderSize(r, readerSize)
	return &Decoder{br: br, r: proto.NewReader(br)}
}

// Unmarshal decodes exactly one value of type ct from data.
func Unmarshal(ct *parser.ColumnType, data []byte) (value.Value, error) {
	d := NewDecoder(bytes.NewReader(data))
	v, err := d.Decode(ct)
	if err != nil {
		return value.Value{}, err
	}
	if more, _ := d.More(); more {
		return value.Value{}, errors.Wrapf(ErrTrailingBytes, "at least %d bytes", d.br.Buffered())
	}

	return v, nil
}

// More reports whether the stream has at least one more byte. It returns false with a nil error
// at a clean end of stream.
func (d *Decoder) More() (bool, error) {
	if _, err := d.br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to read RowBinary stream")
	}

	return true, nil
}

// Decode reads one value of type ct.
func (d *Decoder) Decode(ct *parser.ColumnType) (value.Value, error) {
	return d.decode(ct)
}

// DecodeRow reads one value per column, in order.
func (d *Decoder) DecodeRow(cols []*parser.ColumnType) ([]value.Value, error) {
	row := make([]value.Value, len(cols))
	for i, ct := range cols {
		v, err := d.decode(ct)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d (%s)", i, columnLabel(ct))
		}
		row[i] = v
	}

	return row, nil
}

// DecodeString reads a uvarint length prefixed string.
func (d *Decoder) DecodeString() (string, error) {
	b, err := d.readBlob()
	return string(b), err
}

func (d *Decoder) decode(ct *parser.ColumnType) (value.Value, error) {
	if ct.IsNullable() {
		b, err := d.r.ReadByte()
		if err != nil {
			return value.Value{}, eof(err)
		}
		if b != 0 {
			return value.Null(), nil
		}
	}

	return d.decodeType(ct)
}

func (d *Decoder) decodeType(ct *parser.ColumnType) (value.Value, error) {
	switch t := ct.Type(); t {
	case catalog.Nothing:
		return value.Null(), nil
	case catalog.Bool:
		b, err := d.r.UInt8()
		return value.Bool(b != 0), eof(err)
	case catalog.Int8:
		v, err := d.r.Int8()
		return value.Int(int64(v)), eof(err)
	case catalog.Int16:
		v, err := d.r.Int16()
		return value.Int(int64(v)), eof(err)
	case catalog.Int32:
		v, err := d.r.Int32()
		return value.Int(int64(v)), eof(err)
	case catalog.Int64, catalog.IntervalYear, catalog.IntervalQuarter, catalog.IntervalMonth,
		catalog.IntervalWeek, catalog.IntervalDay, catalog.IntervalHour, catalog.IntervalMinute,
		catalog.IntervalSecond, catalog.IntervalMillisecond, catalog.IntervalMicrosecond,
		catalog.IntervalNanosecond:
		v, err := d.r.Int64()
		return value.Int(v), eof(err)
	case catalog.UInt8:
		v, err := d.r.UInt8()
		return value.Uint(uint64(v)), eof(err)
	case catalog.UInt16:
		v, err := d.r.UInt16()
		return value.Uint(uint64(v)), eof(err)
	case catalog.UInt32:
		v, err := d.r.UInt32()
		return value.Uint(uint64(v)), eof(err)
	case catalog.UInt64:
		v, err := d.r.UInt64()
		return value.Uint(v), eof(err)
	case catalog.Int128, catalog.Int256, catalog.UInt128, catalog.UInt256:
		n, err := d.readWide(ct.ByteWidth(), t == catalog.Int128 || t == catalog.Int256)
		return value.BigInt(n), err
	case catalog.Float32:
		v, err := d.r.Float32()
		return value.Float(float64(v)), eof(err)
	case catalog.Float64:
		v, err := d.r.Float64()
		return value.Float(v), eof(err)
	case catalog.Decimal, catalog.Decimal32, catalog.Decimal64, catalog.Decimal128, catalog.Decimal256:
		n, err := d.readWide(ct.ByteWidth(), true)
		if err != nil {
			return value.Value{}, err
		}
		return value.Decimal(decimal.NewFromBigInt(n, -int32(ct.Scale()))), nil
	case catalog.String:
		s, err := d.DecodeString()
		return value.String(s), err
	case catalog.FixedString:
		b, err := d.readN(ct.ByteWidth())
		return value.String(string(b)), err
	case catalog.UUID:
		return d.decodeUUID()
	case catalog.IPv4:
		v, err := d.r.UInt32()
		if err != nil {
			return value.Value{}, eof(err)
		}
		return value.IP(netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})), nil
	case catalog.IPv6:
		b, err := d.readN(16)
		if err != nil {
			return value.Value{}, err
		}
		return value.IP(netip.AddrFrom16([16]byte(b))), nil
	case catalog.Date:
		v, err := d.r.UInt16()
		return value.Time(time.Unix(int64(v)*secondsPerDay, 0).UTC()), eof(err)
	case catalog.Date32:
		v, err := d.r.Int32()
		return value.Time(time.Unix(int64(v)*secondsPerDay, 0).UTC()), eof(err)
	case catalog.DateTime, catalog.DateTime32:
		v, err := d.r.UInt32()
		return value.Time(time.Unix(int64(v), 0).In(ct.Timezone())), eof(err)
	case catalog.DateTime64:
		v, err := d.r.Int64()
		return value.Time(fromTicks(v, ct.Scale()).In(ct.Timezone())), eof(err)
	case catalog.Enum8:
		v, err := d.r.Int8()
		if err != nil {
			return value.Value{}, eof(err)
		}
		return enumValue(ct, int(v))
	case catalog.Enum16:
		v, err := d.r.Int16()
		if err != nil {
			return value.Value{}, eof(err)
		}
		return enumValue(ct, int(v))
	case catalog.Array:
		return d.decodeArray(ct.Child(0))
	case catalog.Map:
		return d.decodeMap(ct)
	case catalog.Tuple:
		items := make([]value.Value, ct.NumChildren())
		for i, child := range ct.Children() {
			v, err := d.decode(child)
			if err != nil {
				return value.Value{}, errors.Wrapf(err, "tuple element %d", i)
			}
			items[i] = v
		}
		return value.Tuple(items...), nil
	case catalog.Nested:
		return d.decodeNested(ct)
	case catalog.AggregateFunction, catalog.SimpleAggregateFunction:
		if vt := ct.ValueType(); vt != nil {
			return d.decode(vt)
		}
		b, err := d.readBlob()
		return value.Bytes(b), err
	}

	return value.Value{}, errors.Wrapf(ErrUnsupportedType, "%s", ct)
}

func (d *Decoder) decodeArray(elem *parser.ColumnType) (value.Value, error) {
	n, err := d.r.UVarInt()
	if err != nil {
		return value.Value{}, eof(err)
	}

	items := make([]value.Value, 0, min(n, maxPrealloc))
	for i := uint64(0); i < n; i++ {
		v, err := d.decode(elem)
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "array element %d", i)
		}
		items = append(items, v)
	}

	return value.Array(items...), nil
}

func (d *Decoder) decodeMap(ct *parser.ColumnType) (value.Value, error) {
	n, err := d.r.UVarInt()
	if err != nil {
		return value.Value{}, eof(err)
	}

	pairs := make([]value.Pair, 0, min(n, maxPrealloc))
	for i := uint64(0); i < n; i++ {
		k, err := d.decode(ct.Key())
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "map key %d", i)
		}
		v, err := d.decode(ct.Value())
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "map value %d", i)
		}
		pairs = append(pairs, value.Pair{Key: k, Value: v})
	}

	return value.Map(pairs...), nil
}

func (d *Decoder) decodeNested(ct *parser.ColumnType) (value.Value, error) {
	columns := make([]value.Value, ct.NumChildren())
	for i, child := range ct.Children() {
		arr, err := d.decodeArray(child)
		if err != nil {
			return value.Value{}, errors.Wrapf(err, "nested column %q", child.Name())
		}
		if i > 0 && arr.Len() != columns[0].Len() {
			return value.Value{}, errors.Wrapf(ErrNestedLength, "%q has %d rows, %q has %d",
				child.Name(), arr.Len(), ct.Child(0).Name(), columns[0].Len())
		}
		columns[i] = arr
	}

	return value.Nested(columns...), nil
}

func (d *Decoder) decodeUUID() (value.Value, error) {
	b, err := d.readN(16)
	if err != nil {
		return value.Value{}, err
	}

	var u uuid.UUID
	for i := 0; i < 8; i++ {
		u[i] = b[7-i]
		u[8+i] = b[15-i]
	}

	return value.UUID(u), nil
}

func (d *Decoder) readWide(width int, signed bool) (*big.Int, error) {
	b, err := d.readN(width)
	if err != nil {
		return nil, err
	}

	return fromLittleEndian(b, signed), nil
}

func (d *Decoder) readN(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := d.r.ReadFull(b); err != nil {
		return nil, eof(err)
	}

	return b, nil
}

func (d *Decoder) readBlob() ([]byte, error) {
	n, err := d.r.UVarInt()
	if err != nil {
		return nil, eof(err)
	}

	out := make([]byte, 0, min(n, maxPrealloc))
	for n > 0 {
		chunk, err := d.readN(int(min(n, maxPrealloc)))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		n -= uint64(len(chunk))
	}

	return out, nil
}

func enumValue(ct *parser.ColumnType, ordinal int) (value.Value, error) {
	name, ok := ct.EnumName(ordinal)
	if !ok {
		return value.Value{}, errors.Wrapf(ErrUnknownEnumOrdinal, "ordinal %d of %s", ordinal, ct)
	}

	return value.Enum(name, ordinal), nil
}

func columnLabel(ct *parser.ColumnType) string {
	if ct.Name() == "" {
		return ct.String()
	}

	return ct.Declaration()
}
