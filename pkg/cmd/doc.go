// Package cmd provides CLI commands for the rowbinary tool.
//
// The commands are assembled into a urfave/cli/v3 application by Run and wired together with
// go.uber.org/fx: each command constructor is provided into the "commands" group and receives
// the loaded *config.Config and *zap.Logger.
//
// # Available Commands
//
//   - parse: Resolve column declarations and print their type trees (text, YAML or JSON)
//   - decode: Print RowBinary, RowBinaryWithNames or RowBinaryWithNamesAndTypes streams as
//     JSON lines or YAML documents
//   - encode: Write JSON lines or YAML documents as one of the RowBinary formats
//   - describe: Resolve the column types of tables on a live ClickHouse server
//
// # Global Options
//
//   - --config, -c: Configuration file (ROWBINARY_CONFIG, defaults to ./rowbinary.yaml)
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Example Usage
//
//	rowbinary parse 'id UInt64, tags Array(LowCardinality(String))'
//	rowbinary encode --columns 'id UInt64, name String' < rows.jsonl > rows.bin
//	rowbinary decode -f RowBinary --columns 'id UInt64, name String' < rows.bin
//	rowbinary describe --dsn localhost:9000 analytics.events
//
// The binary side of decode and encode may be compressed with gzip, zstd, lz4 or br
// (--compression), matching what the ClickHouse HTTP interface returns with
// enable_http_compression=1 and the corresponding Accept-Encoding.
package cmd
