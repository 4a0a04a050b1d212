package cmd

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/pseudomuto/rowbinary/pkg/cmd/testutil"
	"github.com/pseudomuto/rowbinary/pkg/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDescribeCommand_ConnectionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  func(*config.Config)
		args []string
		err  string
	}{
		{
			name: "invalid DSN",
			args: []string{"--dsn", "clickhouse://%zz"},
			err:  "invalid DSN",
		},
		{
			name: "empty DSN",
			cfg:  func(c *config.Config) { c.ClickHouse.DSN = "" },
			err:  "empty DSN",
		},
		{
			name: "missing TLS files",
			cfg:  func(c *config.Config) { c.ClickHouse.TLS.CertFile = "testdata/missing.crt" },
			args: []string{"--dsn", "127.0.0.1:1"},
			err:  "unable to load cert file/key file",
		},
		{
			name: "bad timezone",
			cfg:  func(c *config.Config) { c.Parser.Timezone = "Nowhere/Special" },
			err:  "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}

			_, err := testutil.RunCommand(t, describeCmd(cfg, zap.NewNop()), "", tt.args...)
			require.ErrorContains(t, err, tt.err)
		})
	}
}

func TestDescribeCommand_Integration(t *testing.T) {
	_, dsn := testutil.StartClickHouse(t, "testdata/schema.sql")

	cfg := config.Default()
	cfg.ClickHouse.DSN = dsn

	t.Run("tables", func(t *testing.T) {
		out, err := testutil.RunCommand(t, describeCmd(cfg, zap.NewNop()), "", "--database", "fixtures")
		require.NoError(t, err)
		require.Equal(t, "fixtures.events\n", out)
	})

	t.Run("text", func(t *testing.T) {
		out, err := testutil.RunCommand(t, describeCmd(cfg, zap.NewNop()), "", "fixtures.events")
		require.NoError(t, err)
		require.Contains(t, out, "-- fixtures.events\n")
		require.Contains(t, out, "point Tuple(x Int32, y Int32)\n")
		require.Contains(t, out, "function=sum")
	})

	t.Run("json", func(t *testing.T) {
		out, err := testutil.RunCommand(t, describeCmd(cfg, zap.NewNop()), "",
			"--database", "fixtures", "--format", "json", "events")
		require.NoError(t, err)

		var docs []typeDoc
		require.NoError(t, json.Unmarshal([]byte(out), &docs))
		require.Len(t, docs, 10)
		require.Equal(t, "user id", docs[8].Name)
		require.Equal(t, "UUID", docs[8].Type)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := testutil.RunCommand(t, describeCmd(cfg, zap.NewNop()), "", "fixtures.missing")
		require.ErrorContains(t, err, "table not found")
	})
}
