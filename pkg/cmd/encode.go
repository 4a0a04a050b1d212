package cmd

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/rowbinary"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// encodeCmd creates the encode command, the inverse of decode. It reads JSON lines or YAML
// documents keyed by column name and writes them in one of the RowBinary formats.
//
// Values are coerced to the declared column types: strings parse into dates, UUIDs, IPs and
// decimals, mappings fill named tuples, Maps and Nested columns, and 0x-prefixed hex fills
// opaque AggregateFunction states. Columns missing from a row are NULL.
//
// Examples:
//
//	rowbinary encode --columns 'id UInt64, name String' < rows.jsonl > rows.bin
//	rowbinary encode --columns 'id UInt64' --format yaml -i rows.yaml -o rows.bin.gz --compression gzip
func encodeCmd(cfg *config.Config, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "Write YAML or JSON rows as a RowBinary stream",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "the rows file, - for stdin",
				Value:   stdio,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "the RowBinary file, - for stdout",
				Value:   stdio,
			},
			&cli.StringFlag{
				Name:     "columns",
				Usage:    "column declarations of the output",
				Required: true,
			},
			rowBinaryFormatFlag(),
			compressionFlag(),
			outputFormatFlag("input format", formatJSON, formatJSON, formatYAML),
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

			columns, err := parseColumns(p, cmd.String("columns"))
			if err != nil {
				return err
			}

			in, err := openInput(cmd.Reader, cmd.String("input"), compressionNone)
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			src, err := newRowSource(in, cmd.String("format"))
			if err != nil {
				return err
			}

			out, err := openOutput(cmd.Writer, cmd.String("output"), cmd.String("compression"))
			if err != nil {
				return err
			}

			n, err := encodeRows(ctx, src, rowbinary.NewWriter(out, format, columns), columns)
			if err != nil {
				_ = out.Close()
				return err
			}

			log.Debug("encoded rows", zap.Int("rows", n), zap.Stringer("format", format))
			return errors.Wrap(out.Close(), "failed to close output")
		},
	}
}

func encodeRows(ctx context.Context, src rowSource, w *rowbinary.Writer, columns []rowbinary.Column) (int, error) {
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		row, err := src.next()
		if errors.Is(err, io.EOF) {
			return n, w.Flush()
		}
		if err != nil {
			return n, errors.Wrapf(err, "row %d", n)
		}

		values, err := rowValues(columns, row)
		if err != nil {
			return n, errors.Wrapf(err, "row %d", n)
		}

		if err := w.WriteRow(values...); err != nil {
			return n, errors.Wrapf(err, "row %d", n)
		}
	}
}
