package rowbinary

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEOF reports a stream that ended in the middle of a value.
	ErrUnexpectedEOF = errors.WithMessage(io.ErrUnexpectedEOF, "rowbinary")
	// ErrUnknownEnumOrdinal reports an enum ordinal or name that is not part of the column's enum.
	ErrUnknownEnumOrdinal = errors.New("unknown enum value")
	// ErrKindMismatch reports a value whose kind cannot be encoded as the column type.
	ErrKindMismatch = errors.New("value kind does not match column type")
	// ErrOverflow reports a value outside of the range of the column type.
	ErrOverflow = errors.New("value out of range for column type")
	// ErrNestedLength reports Nested sub-columns of different lengths.
	ErrNestedLength = errors.New("nested columns have different lengths")
	// ErrUnsupportedType reports a column type without a RowBinary encoding.
	ErrUnsupportedType = errors.New("unsupported column type")
	// ErrTrailingBytes reports input left over after Unmarshal decoded its value.
	ErrTrailingBytes = errors.New("trailing bytes after value")
)

// eof maps the io errors returned for a short read to ErrUnexpectedEOF.
func eof(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEOF
	}
	return err
}
