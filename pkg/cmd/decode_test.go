package cmd

import (
	"bytes"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pseudomuto/rowbinary/pkg/cmd/testutil"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/rowbinary"
	"github.com/pseudomuto/rowbinary/pkg/value"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func writeRows(t *testing.T, format rowbinary.Format, declarations string, rows ...[]value.Value) string {
	t.Helper()

	p, err := config.Default().NewParser()
	require.NoError(t, err)
	cols, err := parseColumns(p, declarations)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := rowbinary.NewWriter(&buf, format, cols)
	for _, row := range rows {
		require.NoError(t, w.WriteRow(row...))
	}
	require.NoError(t, w.Flush())

	return buf.String()
}

func TestDecodeCommand_Formats(t *testing.T) {
	t.Parallel()

	declarations := "id UInt32, name String"
	rows := [][]value.Value{
		{value.Uint(1), value.String("a")},
		{value.Uint(2), value.String("b")},
	}
	want := `{"id":1,"name":"a"}` + "\n" + `{"id":2,"name":"b"}` + "\n"

	tests := []struct {
		format rowbinary.Format
		args   []string
	}{
		{rowbinary.FormatRowBinary, []string{"--columns", declarations}},
		{rowbinary.FormatWithNames, []string{"--columns", "x UInt32, y String"}},
		{rowbinary.FormatWithNamesAndTypes, nil},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()

			stdin := writeRows(t, tt.format, declarations, rows...)
			args := append([]string{"-f", tt.format.String()}, tt.args...)

			out, err := testutil.RunCommand(t, decodeCmd(config.Default(), zap.NewNop()), stdin, args...)
			require.NoError(t, err)
			require.Equal(t, want, out)
		})
	}
}

func TestDecodeCommand_YAML(t *testing.T) {
	t.Parallel()

	stdin := writeRows(t, rowbinary.FormatWithNamesAndTypes,
		"id UInt8, m Map(String, UInt8), big UInt256",
		[]value.Value{
			value.Uint(1),
			value.Map(value.Pair{Key: value.String("b"), Value: value.Uint(2)}, value.Pair{Key: value.String("a"), Value: value.Uint(1)}),
			value.BigInt(new(big.Int).Lsh(big.NewInt(1), 200)),
		},
		[]value.Value{value.Uint(2), value.Map(), value.Uint(0)},
	)

	out, err := testutil.RunCommand(t, decodeCmd(config.Default(), zap.NewNop()), stdin, "--format", "yaml")
	require.NoError(t, err)

	docs := strings.Split(out, "---\n")
	require.Len(t, docs, 2)
	require.Equal(t, "id: 1\nm:\n  b: 2\n  a: 1\nbig: "+new(big.Int).Lsh(big.NewInt(1), 200).String()+"\n", docs[0])

	var second map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(docs[1]), &second))
	require.Equal(t, map[string]any{"id": 2, "m": map[string]any{}, "big": 0}, second)
}

func TestDecodeCommand_Errors(t *testing.T) {
	t.Parallel()

	truncated := writeRows(t, rowbinary.FormatRowBinary, "id UInt32", []value.Value{value.Uint(1)})

	tests := []struct {
		name  string
		stdin string
		args  []string
		err   string
	}{
		{name: "types required", args: []string{"-f", "RowBinary"}, err: "requires column types"},
		{name: "truncated row", stdin: truncated[:2], args: []string{"-f", "RowBinary", "--columns", "id UInt32"}, err: "row 0"},
		{name: "bad header", stdin: "\x01", err: "failed to read name of column 0"},
		{name: "bad rowbinary format", args: []string{"-f", "Native"}, err: `unknown format "Native"`},
		{name: "not gzip", stdin: "plain", args: []string{"--compression", "gzip"}, err: "failed to read gzip header"},
		{name: "bad output format", args: []string{"--format", "text"}, err: `unsupported format "text"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := testutil.RunCommand(t, decodeCmd(config.Default(), zap.NewNop()), tt.stdin, tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	mustParse := func(text string) *parser.ColumnType {
		ct, err := parser.ParseType(text)
		require.NoError(t, err)
		return ct
	}

	id := uuid.MustParse("61f0c404-5cb3-11e7-907b-a6006ad3dba0")
	ts := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		typ  string
		in   value.Value
		want any
	}{
		{"Nullable(UInt8)", value.Null(), nil},
		{"Float64", value.Float(math.Inf(-1)), "-Inf"},
		{"Float64", value.Float(1.5), 1.5},
		{"UUID", value.UUID(id), id.String()},
		{"DateTime", value.Time(ts), ts},
		{"Enum8('a' = 1)", value.Enum("a", 1), "a"},
		{"AggregateFunction(uniq, UInt64)", value.Bytes([]byte{0xab, 0x01}), "0xab01"},
		{"SimpleAggregateFunction(any, Array(UInt8))", value.Array(value.Uint(1)), []any{uint64(1)}},
		{"Tuple(UInt8, String)", value.Tuple(value.Uint(1), value.String("x")), []any{uint64(1), "x"}},
		{"Int128", value.BigInt(big.NewInt(-5)), wideInt("-5")},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, render(mustParse(tt.typ), tt.in))
		})
	}
}
