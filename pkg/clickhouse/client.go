package clickhouse

import (
	"context"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
	"github.com/pseudomuto/rowbinary/pkg/parser"
	"github.com/pseudomuto/rowbinary/pkg/utils"
	"go.uber.org/zap"
)

// ErrTableNotFound is returned by Columns when system.columns has no rows for the table.
var ErrTableNotFound = errors.New("table not found")

const columnsQuery = `
	SELECT name, type
	FROM system.columns
	WHERE database = ? AND table = ?
	ORDER BY position
`

type (
	// TLSSettings are the files used for mTLS. TLS is enabled when CertFile is set.
	TLSSettings struct {
		CertFile string
		KeyFile  string
		CAFile   string
	}

	// ClientOptions configures a Client.
	ClientOptions struct {
		TLSSettings

		// Database is used for unqualified table names. Defaults to the DSN's database, or
		// "default".
		Database string

		// Parser resolves column types. Defaults to a parser with default options.
		Parser *parser.Parser

		// Logger receives debug logs for queries and resolved columns. Defaults to a no-op logger.
		Logger *zap.Logger
	}

	// Client represents a ClickHouse database connection
	Client struct {
		conn     driver.Conn
		database string
		parser   *parser.Parser
		logger   *zap.Logger
	}
)

// NewClient creates a new ClickHouse client connection with default options.
//
// Example:
//
//	client, err := NewClient(ctx, "clickhouse://default:@localhost:9000/analytics")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func NewClient(ctx context.Context, dsn string) (*Client, error) {
	return NewClientWithOptions(ctx, dsn, ClientOptions{})
}

// NewClientWithOptions creates a new ClickHouse client and pings the server.
func NewClientWithOptions(ctx context.Context, dsn string, opts ClientOptions) (*Client, error) {
	chOpts, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	if opts.CertFile != "" {
		tlsConfig, err := GetTLSConfig(opts)
		if err != nil {
			return nil, err
		}
		chOpts.TLS = tlsConfig
	}

	c := &Client{
		database: opts.Database,
		parser:   opts.Parser,
		logger:   opts.Logger,
	}
	if c.database == "" {
		c.database = chOpts.Auth.Database
	}
	if c.database == "" {
		c.database = "default"
	}
	if c.parser == nil {
		c.parser = parser.New(parser.Options{})
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to connect to ClickHouse")
	}

	c.conn = conn
	c.logger.Debug("connected to ClickHouse", zap.Strings("addr", chOpts.Addr), zap.String("database", c.database))
	return c, nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Database returns the database used for unqualified table names.
func (c *Client) Database() string {
	return c.database
}

// Columns returns the resolved types of the columns of database.table in declaration order. An
// empty database selects the client's default database.
func (c *Client) Columns(ctx context.Context, database, table string) ([]*parser.ColumnType, error) {
	if database == "" {
		database = c.database
	}

	c.logger.Debug("querying columns", zap.String("database", database), zap.String("table", table))
	rows, err := c.conn.Query(ctx, columnsQuery, database, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query columns of %s", utils.BacktickQualifiedName(&database, table))
	}
	defer func() { _ = rows.Close() }()

	var decls []string
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, errors.Wrap(err, "failed to scan column")
		}
		decls = append(decls, utils.BacktickIdentifier(name)+" "+typ)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}

	if len(decls) == 0 {
		return nil, errors.Wrapf(ErrTableNotFound, "%s", utils.BacktickQualifiedName(&database, table))
	}

	cols, err := c.parser.ParseColumns(strings.Join(decls, ", "))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve columns of %s", utils.BacktickQualifiedName(&database, table))
	}

	for _, col := range cols {
		c.logger.Debug("resolved column", zap.String("column", col.Declaration()))
	}

	return cols, nil
}

// TableColumns is like Columns but takes a possibly qualified, possibly backticked table name
// such as `analytics`.`events`.
func (c *Client) TableColumns(ctx context.Context, name string) ([]*parser.ColumnType, error) {
	database, table := splitTableName(name)
	return c.Columns(ctx, database, table)
}

// Tables returns the names of the tables in database, excluding system databases when database
// is empty.
func (c *Client) Tables(ctx context.Context, database string) ([]string, error) {
	where, params := "database = ?", []any{database}
	if database == "" {
		where, params = buildSystemDatabaseExclusion("database")
	}
	query := "SELECT concat(database, '.', name) FROM system.tables WHERE " + where + " ORDER BY database, name"

	c.logger.Debug("listing tables", zap.String("query", query))
	rows, err := c.conn.Query(ctx, query, params...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan table name")
		}
		tables = append(tables, name)
	}

	return tables, errors.Wrap(rows.Err(), "failed to read tables")
}

func parseDSN(dsn string) (*clickhouse.Options, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty DSN")
	}

	if !strings.Contains(dsn, "://") {
		return &clickhouse.Options{Addr: []string{dsn}}, nil
	}

	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid DSN %q", dsn)
	}

	return opts, nil
}
