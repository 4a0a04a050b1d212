package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// typeDoc is the YAML/JSON rendering of a parsed column.
type typeDoc struct {
	Name           string    `json:"name,omitempty" yaml:"name,omitempty"`
	Type           string    `json:"type" yaml:"type"`
	Normalized     string    `json:"normalized" yaml:"normalized"`
	Nullable       bool      `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	LowCardinality bool      `json:"low_cardinality,omitempty" yaml:"low_cardinality,omitempty"`
	FixedLength    bool      `json:"fixed_length" yaml:"fixed_length"`
	EstimatedBytes int       `json:"estimated_bytes" yaml:"estimated_bytes"`
	ArrayDepth     int       `json:"array_depth,omitempty" yaml:"array_depth,omitempty"`
	Children       []typeDoc `json:"children,omitempty" yaml:"children,omitempty"`
}

func newTypeDoc(ct *parser.ColumnType) typeDoc {
	doc := typeDoc{
		Name:           ct.Name(),
		Type:           ct.String(),
		Normalized:     ct.NormalizedName(),
		Nullable:       ct.IsNullable(),
		LowCardinality: ct.IsLowCardinality(),
		FixedLength:    ct.FixedByteLength(),
		EstimatedBytes: ct.EstimatedByteLength(),
		ArrayDepth:     ct.ArrayDepth(),
	}
	for _, child := range ct.Children() {
		doc.Children = append(doc.Children, newTypeDoc(child))
	}

	return doc
}

// parseCmd creates the parse command, which resolves column declarations and prints the
// resulting type trees.
//
// Input is the joined arguments or, without arguments, standard input. By default the input is
// a comma separated column list (`id UInt64, name String`); with --type it is a single type.
//
// Examples:
//
//	rowbinary parse 'id UInt64, tags Array(Nullable(String)) COMMENT '\''tags'\'''
//	rowbinary parse --type --format json 'Map(String, Decimal(18, 4))'
//	echo 'ts DateTime64(3)' | rowbinary parse --format yaml
func parseCmd(cfg *config.Config, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse column declarations and print their type trees",
		ArgsUsage: "[declarations]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "parse a single type instead of a column list",
			},
			outputFormatFlag("output format", formatText, formatText, formatYAML, formatJSON),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input := strings.Join(cmd.Args().Slice(), " ")
			if input == "" {
				data, err := io.ReadAll(cmd.Reader)
				if err != nil {
					return errors.Wrap(err, "failed to read declarations")
				}
				input = string(data)
			}

			p, err := cfg.NewParser()
			if err != nil {
				return err
			}

			var cols []*parser.ColumnType
			if cmd.Bool("type") {
				ct, err := p.ParseType(strings.TrimSpace(input))
				if err != nil {
					return err
				}
				cols = append(cols, ct)
			} else if cols, err = p.ParseColumns(input); err != nil {
				return err
			}

			log.Debug("parsed columns", zap.Int("count", len(cols)))
			return printColumns(cmd.Writer, cmd.String("format"), cols)
		},
	}
}

func printColumns(w io.Writer, format string, cols []*parser.ColumnType) error {
	if format == formatText {
		return parser.Describe(w, cols...)
	}

	docs := make([]typeDoc, len(cols))
	for i, col := range cols {
		docs[i] = newTypeDoc(col)
	}

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(docs), "failed to write JSON")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return errors.Wrap(err, "failed to write YAML")
	}

	return errors.Wrap(enc.Close(), "failed to write YAML")
}
