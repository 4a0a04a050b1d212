package rowbinary

import (
	"io"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/value"
)

type (
	// ReaderOptions configures a Reader.
	ReaderOptions struct {
		Format Format
		// Columns supplies the column types for FormatRowBinary and FormatWithNames. For
		// FormatWithNames only the types are used; names come from the header.
		Columns []Column
		// Parser parses the type declarations of a FormatWithNamesAndTypes header. Defaults to a
		// parser with default options.
		Parser *parser.Parser
	}

	// Reader reads rows from a RowBinary stream. The header, if any, is read by the first call to
	// Columns or Next.
	Reader struct {
		dec     *Decoder
		opts    ReaderOptions
		columns []Column
		types   []*parser.ColumnType
		started bool
	}
)

// NewReader returns a Reader for r.
func NewReader(r io.Reader, opts ReaderOptions) *Reader {
	if opts.Parser == nil {
		opts.Parser = parser.New(parser.Options{})
	}

	return &Reader{dec: NewDecoder(r), opts: opts}
}

// Columns returns the columns of the stream, reading the header if needed.
func (r *Reader) Columns() ([]Column, error) {
	if err := r.start(); err != nil {
		return nil, err
	}

	return append([]Column(nil), r.columns...), nil
}

// Next returns the next row. It returns io.EOF, unwrapped, when the stream ends on a row
// boundary.
func (r *Reader) Next() ([]value.Value, error) {
	if err := r.start(); err != nil {
		return nil, err
	}

	more, err := r.dec.More()
	if err != nil {
		return nil, err
	}
	if !more {
		return nil, io.EOF
	}

	return r.dec.DecodeRow(r.types)
}

func (r *Reader) start() error {
	if r.started {
		return nil
	}

	columns, err := r.readHeader()
	if err != nil {
		return err
	}

	r.columns = columns
	r.types = make([]*parser.ColumnType, len(columns))
	for i, col := range columns {
		r.types[i] = col.Type
	}

	r.started = true
	return nil
}

func (r *Reader) readHeader() ([]Column, error) {
	if r.opts.Format == FormatRowBinary {
		if len(r.opts.Columns) == 0 {
			return nil, errors.New("RowBinary requires column types")
		}
		return r.opts.Columns, nil
	}

	n, err := r.dec.r.UVarInt()
	if err != nil {
		return nil, errors.Wrap(eof(err), "failed to read column count")
	}

	columns := make([]Column, 0, min(n, maxPrealloc))
	for i := uint64(0); i < n; i++ {
		name, err := r.dec.DecodeString()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read name of column %d", i)
		}
		columns = append(columns, Column{Name: name})
	}

	if r.opts.Format == FormatWithNames {
		if len(r.opts.Columns) != len(columns) {
			return nil, errors.Errorf("header has %d columns but %d types were given", len(columns), len(r.opts.Columns))
		}
		for i := range columns {
			columns[i].Type = r.opts.Columns[i].Type
		}
		return columns, nil
	}

	for i := range columns {
		text, err := r.dec.DecodeString()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read type of column %q", columns[i].Name)
		}

		ct, err := r.opts.Parser.ParseType(text)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse type of column %q", columns[i].Name)
		}
		columns[i].Type = ct
	}

	return columns, nil
}
