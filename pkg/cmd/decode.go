package cmd

import (
	"context"
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/rowbinary"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// decodeCmd creates the decode command, which prints a RowBinary stream as YAML documents or
// JSON lines, one per row.
//
// RowBinaryWithNamesAndTypes streams describe themselves. RowBinary and RowBinaryWithNames
// streams need --columns with one declaration per column; for RowBinaryWithNames only the types
// are used and the names come from the header.
//
// Examples:
//
//	curl -s 'http://localhost:8123/?query=SELECT+*+FROM+events+FORMAT+RowBinaryWithNamesAndTypes' | rowbinary decode
//	rowbinary decode -i events.bin.zst --compression zstd --format yaml
//	rowbinary decode -f RowBinary --columns 'id UInt64, name String' -i events.bin
func decodeCmd(cfg *config.Config, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "Print a RowBinary stream as YAML or JSON rows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "the RowBinary file, - for stdin",
				Value:   stdio,
			},
			&cli.StringFlag{
				Name:  "columns",
				Usage: "column declarations for streams without types",
			},
			rowBinaryFormatFlag(),
			compressionFlag(),
			outputFormatFlag("output format", formatJSON, formatJSON, formatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := rowbinary.ParseFormat(cmd.String("rowbinary-format"))
			if err != nil {
				return err
			}

			p, err := cfg.NewParser()
			if err != nil {
				return err
			}

			opts := rowbinary.ReaderOptions{Format: format, Parser: p}
			if decl := cmd.String("columns"); decl != "" {
				if opts.Columns, err = parseColumns(p, decl); err != nil {
					return err
				}
			}

			in, err := openInput(cmd.Reader, cmd.String("input"), cmd.String("compression"))
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			n, err := decodeRows(ctx, rowbinary.NewReader(in, opts), cmd.Writer, cmd.String("format"))
			log.Debug("decoded rows", zap.Int("rows", n), zap.Stringer("format", format))
			return err
		},
	}
}

func decodeRows(ctx context.Context, r *rowbinary.Reader, w io.Writer, format string) (int, error) {
	columns, err := r.Columns()
	if err != nil {
		return 0, err
	}

	var (
		enc    interface{ Encode(any) error }
		finish = func() error { return nil }
	)
	if format == formatYAML {
		ye := yaml.NewEncoder(w)
		ye.SetIndent(2)
		enc, finish = ye, ye.Close
	} else {
		enc = json.NewEncoder(w)
	}

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, errors.Wrap(finish(), "failed to flush output")
		}
		if err != nil {
			return n, errors.Wrapf(err, "row %d", n)
		}

		if err := enc.Encode(renderRow(columns, row)); err != nil {
			return n, errors.Wrapf(err, "failed to write row %d", n)
		}
	}
}

// parseColumns turns declarations into named columns.
func parseColumns(p *parser.Parser, decl string) ([]rowbinary.Column, error) {
	types, err := p.ParseColumns(decl)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --columns")
	}

	columns := make([]rowbinary.Column, len(types))
	for i, ct := range types {
		columns[i] = rowbinary.Column{Name: ct.Name(), Type: ct}
	}

	return columns, nil
}
