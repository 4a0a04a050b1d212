package rowbinary

import (
	"io"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/value"
)

// Writer writes rows in one of the RowBinary formats. The header is written before the first row
// or by Flush.
type Writer struct {
	enc           *Encoder
	format        Format
	columns       []Column
	types         []*parser.ColumnType
	headerWritten bool
}

// NewWriter returns a Writer for the given columns. Every column needs a Type; names are only
// written for FormatWithNames and FormatWithNamesAndTypes.
func NewWriter(w io.Writer, format Format, columns []Column) *Writer {
	types := make([]*parser.ColumnType, len(columns))
	for i, col := range columns {
		types[i] = col.Type
	}

	return &Writer{
		enc:     NewEncoder(w),
		format:  format,
		columns: append([]Column(nil), columns...),
		types:   types,
	}
}

// WriteRow writes one row, writing the header first if needed.
func (w *Writer) WriteRow(row ...value.Value) error {
	if err := w.Flush(); err != nil {
		return err
	}

	return w.enc.EncodeRow(w.types, row)
}

// Flush writes the header if it has not been written yet. Call it to produce a valid stream with
// no rows.
func (w *Writer) Flush() error {
	if w.headerWritten || w.format == FormatRowBinary {
		w.headerWritten = true
		return nil
	}

	e := w.enc
	e.buf.Reset()
	e.buf.PutUVarInt(uint64(len(w.columns)))
	for _, col := range w.columns {
		e.buf.PutString(col.Name)
	}
	if w.format == FormatWithNamesAndTypes {
		for _, col := range w.columns {
			e.buf.PutString(col.Type.String())
		}
	}

	if err := e.flush(); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	w.headerWritten = true
	return nil
}
