package cmd

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/pseudomuto/rowbinary/pkg/cmd/testutil"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestParseCommand_Text(t *testing.T) {
	t.Parallel()

	out, err := testutil.RunCommand(t, parseCmd(config.Default(), zap.NewNop()), "",
		"id UInt64, tags Array(Nullable(String)) COMMENT 'labels'",
	)
	require.NoError(t, err)
	require.Contains(t, out, "id UInt64\n  fixed=true estimated=8 width=8\n")
	require.Contains(t, out, "tags Array(Nullable(String))\n")
	require.Contains(t, out, "depth=1")
}

func TestParseCommand_Stdin(t *testing.T) {
	t.Parallel()

	out, err := testutil.RunCommand(t, parseCmd(config.Default(), zap.NewNop()),
		"id UInt32,\n`user name` LowCardinality(String)\n",
		"--format", "json",
	)
	require.NoError(t, err)

	var docs []typeDoc
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 2)
	require.Equal(t, typeDoc{
		Name:           "id",
		Type:           "UInt32",
		Normalized:     "UInt32",
		FixedLength:    true,
		EstimatedBytes: 4,
	}, docs[0])
	require.Equal(t, "user name", docs[1].Name)
	require.True(t, docs[1].LowCardinality)
}

func TestParseCommand_Type(t *testing.T) {
	t.Parallel()

	out, err := testutil.RunCommand(t, parseCmd(config.Default(), zap.NewNop()), "",
		"--type", "--format", "yaml", "Map(String, Decimal32(2))",
	)
	require.NoError(t, err)

	var docs []typeDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	require.Equal(t, "Map(String, Decimal32(2))", docs[0].Type)
	require.Equal(t, "Map(String, Decimal(9, 2))", docs[0].Normalized)
	require.Len(t, docs[0].Children, 2)
	require.Equal(t, "String", docs[0].Children[0].Type)
}

func TestParseCommand_Config(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Parser.MaxArrayDepth = 2

	_, err := testutil.RunCommand(t, parseCmd(cfg, zap.NewNop()), "", "--type", "Array(Array(Array(UInt8)))")
	require.ErrorIs(t, err, parser.ErrSyntax)

	cfg.Parser.Timezone = "Not/AZone"
	_, err = testutil.RunCommand(t, parseCmd(cfg, zap.NewNop()), "", "id UInt8")
	require.ErrorContains(t, err, "invalid timezone")
}

func TestParseCommand_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{"unknown type", []string{"id Foo"}, parser.ErrUnknownType},
		{"syntax", []string{"id Array(UInt8"}, parser.ErrSyntax},
		{"not a single type", []string{"--type", "id UInt8"}, parser.ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := testutil.RunCommand(t, parseCmd(config.Default(), zap.NewNop()), "", tt.args...)
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := testutil.RunCommand(t, parseCmd(config.Default(), zap.NewNop()), "", "--format", "xml", "id UInt8")
	require.ErrorContains(t, err, `unsupported format "xml"`)
}
