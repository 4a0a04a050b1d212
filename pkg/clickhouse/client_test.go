package clickhouse_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/pseudomuto/rowbinary/pkg/clickhouse"
	"github.com/pseudomuto/rowbinary/pkg/docker"
	"github.com/pseudomuto/rowbinary/pkg/rowbinary"
	"github.com/pseudomuto/rowbinary/pkg/value"
	"github.com/stretchr/testify/require"
)

func TestNewClient_ConnectionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dsn    string
		errMsg string
	}{
		{name: "empty", dsn: "", errMsg: "empty DSN"},
		{name: "invalid url", dsn: "clickhouse://%zz", errMsg: "invalid DSN"},
		{name: "closed port", dsn: "127.0.0.1:1", errMsg: "failed to connect"},
		{name: "closed port url", dsn: "clickhouse://default:@127.0.0.1:1/default?dial_timeout=1s", errMsg: "failed to connect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			client, err := clickhouse.NewClient(ctx, tt.dsn)
			require.Error(t, err)
			require.Nil(t, client)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClient_Integration(t *testing.T) {
	docker.SkipUnlessIntegration(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container := docker.New(docker.Options{InitScripts: []string{"testdata/schema.sql"}})
	require.NoError(t, container.Start(ctx))
	defer func() { _ = container.Stop(context.Background()) }()

	dsn, err := container.GetDSN(ctx)
	require.NoError(t, err)

	client, err := clickhouse.NewClientWithOptions(ctx, dsn, clickhouse.ClientOptions{Database: "fixtures"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	t.Run("version", func(t *testing.T) {
		v, err := client.GetVersion(ctx)
		require.NoError(t, err)
		require.True(t, v.IsAtLeast(20, 1), v.Raw)
	})

	t.Run("tables", func(t *testing.T) {
		tables, err := client.Tables(ctx, "")
		require.NoError(t, err)
		require.Contains(t, tables, "fixtures.events")
		for _, name := range tables {
			require.NotContains(t, name, "system.")
		}
	})

	t.Run("columns", func(t *testing.T) {
		cols, err := client.TableColumns(ctx, "events")
		require.NoError(t, err)

		want := []string{
			"id UInt64",
			"kind LowCardinality(String)",
			"status Enum8('active' = 1, 'deleted' = 2)",
			"amount Decimal(18, 4)",
			"ts DateTime64(3, 'UTC')",
			"tags Array(String)",
			"attrs Map(String, Nullable(Float64))",
			"point Tuple(x Int32, y Int32)",
			"`user id` UUID",
			"hits AggregateFunction(sum, UInt64)",
		}
		require.Len(t, cols, len(want))
		for i, col := range cols {
			require.Equal(t, want[i], col.Declaration())
		}

		_, err = client.Columns(ctx, "fixtures", "missing")
		require.ErrorIs(t, err, clickhouse.ErrTableNotFound)
	})

	t.Run("rowbinary over http", func(t *testing.T) {
		base, err := container.GetHTTPDSN(ctx)
		require.NoError(t, err)

		q := url.Values{"query": {"SELECT * FROM fixtures.events FORMAT RowBinaryWithNamesAndTypes"}}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/?"+q.Encode(), nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		r := rowbinary.NewReader(resp.Body, rowbinary.ReaderOptions{Format: rowbinary.FormatWithNamesAndTypes})
		row, err := r.Next()
		require.NoError(t, err)
		require.Len(t, row, 10)

		require.True(t, value.Uint(1).Equal(row[0]))
		require.Equal(t, "click", row[1].String())
		require.Equal(t, "active", row[2].String())
		require.Equal(t, "12.5", row[3].String())
		require.Equal(t, "2024-02-29T12:00:00.123Z", row[4].String())
		require.Equal(t, `["a", "b"]`, row[5].String())
		require.Equal(t, "(3, -4)", row[7].String())
		require.Equal(t, "61f0c404-5cb3-11e7-907b-a6006ad3dba0", row[8].String())
		require.Equal(t, value.KindBytes, row[9].Kind())

		_, err = r.Next()
		require.ErrorIs(t, err, io.EOF)
	})
}
