// Package clickhouse reads column metadata from a live ClickHouse server.
//
// The client connects over the native protocol with clickhouse-go, reads the declared type text of
// each column from system.columns and resolves it through a parser.Parser, so the result can be
// handed straight to the rowbinary package.
//
// Example usage:
//
//	client, err := clickhouse.NewClient(ctx, "localhost:9000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	cols, err := client.Columns(ctx, "analytics", "events")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, col := range cols {
//	    fmt.Println(col.Declaration())
//	}
//
// DSNs may be a bare host:port or a clickhouse:// (or tcp://) URL carrying credentials, the
// default database and connection settings.
package clickhouse
