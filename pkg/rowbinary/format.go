package rowbinary

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/parser"
)

// Format selects the header written before the rows.
type Format uint8

const (
	// FormatRowBinary has no header; column types must be supplied by the caller.
	FormatRowBinary Format = iota
	// FormatWithNames starts with the column count and names.
	FormatWithNames
	// FormatWithNamesAndTypes starts with the column count, names and type declarations.
	FormatWithNamesAndTypes
)

var formatNames = map[Format]string{
	FormatRowBinary:         "RowBinary",
	FormatWithNames:         "RowBinaryWithNames",
	FormatWithNamesAndTypes: "RowBinaryWithNamesAndTypes",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "RowBinary"
}

// ParseFormat returns the Format for a ClickHouse format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}

	return 0, errors.Errorf("unknown format %q", name)
}

// Column is a named column of a RowBinary stream.
type Column struct {
	Name string
	Type *parser.ColumnType
}
